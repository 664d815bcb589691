package handlers

import (
	"strconv"

	"drogaria/internal/middleware"
	"drogaria/internal/models"
	"drogaria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// CheckoutHandler drives the checkout flow: address, payment, summary,
// finalize. All routes require a logged-in customer.
type CheckoutHandler struct {
	checkout  *services.CheckoutService
	customers *services.CustomerService
	orders    *services.OrderService
	store     *session.Store
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(
	checkout *services.CheckoutService,
	customers *services.CustomerService,
	orders *services.OrderService,
	store *session.Store,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:  checkout,
		customers: customers,
		orders:    orders,
		store:     store,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkout := router.Group("/checkout", middleware.CustomerRequired(h.store))
	checkout.Post("/iniciar", h.HandleStart)
	checkout.Get("/endereco", h.HandleAddressChoices)
	checkout.Post("/endereco", h.HandleChooseAddress)
	checkout.Post("/adicionar-endereco", h.HandleAddAddress)
	checkout.Get("/pagamento", h.HandlePaymentForm)
	checkout.Post("/pagamento", h.HandleChoosePayment)
	checkout.Get("/resumo", h.HandleSummary)
	checkout.Post("/voltar", h.HandleBack)
	checkout.Post("/finalizar", h.HandleFinalize)
	checkout.Get("/confirmacao", h.HandleConfirmation)
}

// HandleStart enters the checkout. The cart must not be empty.
func (h *CheckoutHandler) HandleStart(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	if cartFromSession(sess).IsEmpty() {
		return redirectError(c, "/loja/carrinho", "Carrinho vazio")
	}
	return c.Redirect("/checkout/endereco", fiber.StatusSeeOther)
}

// HandleAddressChoices lists the customer's delivery addresses.
func (h *CheckoutHandler) HandleAddressChoices(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	customer, err := h.customers.GetByID(customerID(sess))
	if err != nil {
		return internalError(c, err)
	}

	view := fiber.Map{
		"enderecos": customer.DeliveryAddresses,
		"erro":      c.Query("erro"),
	}
	if chosen, ok := sess.Get(middleware.KeyAddress).(models.Address); ok {
		view["escolhido"] = chosen
	} else if def := customer.DefaultAddress(); def != nil {
		view["escolhido"] = *def
	}
	return c.JSON(view)
}

// chooseAddress stores the delivery address in the session and re-estimates
// shipping for its CEP. A tier the customer picked by hand survives address
// changes; an auto-estimate always follows the new CEP.
func (h *CheckoutHandler) chooseAddress(sess *session.Session, address models.Address) error {
	sess.Set(middleware.KeyAddress, address)
	sess.Set(middleware.KeyShippingCEP, address.PostalCode)
	if manual, _ := sess.Get(middleware.KeyShippingManual).(bool); !manual {
		sess.Set(middleware.KeyShippingFee, services.DefaultShippingFee(address.PostalCode))
	}
	return sess.Save()
}

// HandleChooseAddress picks one of the customer's saved addresses.
func (h *CheckoutHandler) HandleChooseAddress(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	customer, err := h.customers.GetByID(customerID(sess))
	if err != nil {
		return internalError(c, err)
	}

	address := customer.AddressByID(c.FormValue("enderecoId"))
	if address == nil {
		return redirectError(c, "/checkout/endereco", "Endereço não encontrado")
	}
	if err := h.chooseAddress(sess, *address); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/checkout/pagamento", fiber.StatusSeeOther)
}

// HandleAddAddress registers a new delivery address inline and selects it.
func (h *CheckoutHandler) HandleAddAddress(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	isDefault := c.FormValue("padrao") == "true" || c.FormValue("padrao") == "on"

	address, err := h.customers.AddAddress(c.Context(), customerID(sess),
		c.FormValue("cep"), c.FormValue("numero"), c.FormValue("complemento"), isDefault)
	if err != nil {
		return failRedirect(c, "/checkout/endereco", err)
	}
	if err := h.chooseAddress(sess, *address); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/checkout/pagamento", fiber.StatusSeeOther)
}

// HandlePaymentForm shows the payment step. Without a chosen address the
// browser is sent back to the address step.
func (h *CheckoutHandler) HandlePaymentForm(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	if _, ok := sess.Get(middleware.KeyAddress).(models.Address); !ok {
		return c.Redirect("/checkout/endereco", fiber.StatusSeeOther)
	}
	view := fiber.Map{
		"formas": []string{models.PaymentBoleto, models.PaymentCard},
		"erro":   c.Query("erro"),
	}
	if method, ok := sess.Get(middleware.KeyPayment).(string); ok {
		view["escolhida"] = method
	}
	return c.JSON(view)
}

// HandleChoosePayment stores the payment method; card details are validated
// before the session accepts them.
func (h *CheckoutHandler) HandleChoosePayment(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	if _, ok := sess.Get(middleware.KeyAddress).(models.Address); !ok {
		return c.Redirect("/checkout/endereco", fiber.StatusSeeOther)
	}

	method := c.FormValue("forma")
	switch method {
	case models.PaymentBoleto:
		sess.Set(middleware.KeyPayment, method)
		sess.Delete(middleware.KeyCard)
	case models.PaymentCard:
		installments, _ := strconv.Atoi(c.FormValue("parcelas"))
		card := models.CardDetails{
			Number:       c.FormValue("numeroCartao"),
			SecurityCode: c.FormValue("codigoVerificador"),
			HolderName:   c.FormValue("nomeCompleto"),
			Expiry:       c.FormValue("dataVencimento"),
			Installments: installments,
		}
		if err := services.ValidateCardDetails(card); err != nil {
			return failRedirect(c, "/checkout/pagamento", err)
		}
		sess.Set(middleware.KeyPayment, method)
		sess.Set(middleware.KeyCard, card)
	default:
		return redirectError(c, "/checkout/pagamento", "Forma de pagamento inválida")
	}

	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/checkout/resumo", fiber.StatusSeeOther)
}

// checkoutSession assembles the explicit checkout state from the browser
// session.
func checkoutSession(sess *session.Session) services.CheckoutSession {
	cs := services.CheckoutSession{Cart: cartFromSession(sess)}
	if address, ok := sess.Get(middleware.KeyAddress).(models.Address); ok {
		cs.Address = &address
	}
	if method, ok := sess.Get(middleware.KeyPayment).(string); ok {
		cs.PaymentMethod = method
	}
	if card, ok := sess.Get(middleware.KeyCard).(models.CardDetails); ok {
		cs.Card = &card
	}
	if fee, ok := sess.Get(middleware.KeyShippingFee).(float64); ok {
		cs.ShippingFee = fee
		cs.ShippingChosen = true
	}
	return cs
}

// HandleSummary shows the order review priced against the live catalog.
// Skipping a step sends the browser back to it.
func (h *CheckoutHandler) HandleSummary(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	if _, ok := sess.Get(middleware.KeyAddress).(models.Address); !ok {
		return c.Redirect("/checkout/endereco", fiber.StatusSeeOther)
	}
	if method, ok := sess.Get(middleware.KeyPayment).(string); !ok || method == "" {
		return c.Redirect("/checkout/pagamento", fiber.StatusSeeOther)
	}

	summary, err := h.checkout.Summary(checkoutSession(sess))
	if err != nil {
		if services.IsRule(err) {
			return redirectError(c, "/loja/carrinho", err.Error())
		}
		return internalError(c, err)
	}

	view := fiber.Map{
		"itens":           summary.Items,
		"endereco":        summary.Address,
		"forma_pagamento": summary.Payment,
		"subtotal":        summary.Subtotal,
		"frete":           summary.ShippingFee,
		"total":           summary.Total,
	}
	if summary.Card != nil {
		masked := summary.Card.Masked()
		view["cartao"] = masked
	}
	return c.JSON(view)
}

// HandleBack returns from the summary to the payment step.
func (h *CheckoutHandler) HandleBack(c *fiber.Ctx) error {
	return c.Redirect("/checkout/pagamento", fiber.StatusSeeOther)
}

// HandleFinalize creates the order and clears the cart and checkout state.
func (h *CheckoutHandler) HandleFinalize(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}

	order, err := h.checkout.Finalize(checkoutSession(sess), customerID(sess))
	if err != nil {
		if services.IsRule(err) {
			return redirectError(c, "/checkout/resumo", err.Error())
		}
		return internalError(c, err)
	}

	sess.Delete(middleware.KeyCart)
	sess.Delete(middleware.KeyAddress)
	sess.Delete(middleware.KeyPayment)
	sess.Delete(middleware.KeyCard)
	sess.Delete(middleware.KeyShippingFee)
	sess.Delete(middleware.KeyShippingManual)
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}

	return c.Redirect("/checkout/confirmacao?numero="+strconv.FormatUint(order.Number, 10),
		fiber.StatusSeeOther)
}

// HandleConfirmation shows the created order's number and total.
func (h *CheckoutHandler) HandleConfirmation(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	number, err := strconv.ParseUint(c.Query("numero"), 10, 64)
	if err != nil {
		return redirectError(c, "/loja", "Pedido não encontrado")
	}

	order, err := h.orders.GetByNumber(number)
	if err != nil || order.CustomerID != customerID(sess) {
		return redirectError(c, "/loja", "Pedido não encontrado")
	}

	return c.JSON(fiber.Map{
		"numero": order.Number,
		"total":  order.Total,
		"status": order.StatusLabel(),
	})
}
