package handlers

import (
	"errors"
	"strconv"

	"drogaria/internal/middleware"
	"drogaria/internal/models"
	"drogaria/internal/services"
	"drogaria/pkg/viacep"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// CustomerHandler handles customer registration, login and self-service.
type CustomerHandler struct {
	customers *services.CustomerService
	orders    *services.OrderService
	cepClient viacep.Client
	store     *session.Store
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(
	customers *services.CustomerService,
	orders *services.OrderService,
	cepClient viacep.Client,
	store *session.Store,
) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		orders:    orders,
		cepClient: cepClient,
		store:     store,
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cadastro", h.HandleRegisterForm)
	router.Post("/cadastro", h.HandleRegister)
	router.Get("/login", h.HandleLoginForm)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
	router.Get("/api/cep/:cep", h.HandleCEPLookup)

	cliente := router.Group("/cliente", middleware.CustomerRequired(h.store))
	cliente.Get("/perfil", h.HandleProfile)
	cliente.Post("/dados", h.HandleUpdateProfile)
	cliente.Post("/senha", h.HandleChangePassword)
	cliente.Post("/enderecos", h.HandleAddAddress)
	cliente.Post("/enderecos/padrao", h.HandleSetDefaultAddress)
	cliente.Get("/meus-pedidos", h.HandleMyOrders)
	cliente.Get("/pedido/:numero", h.HandleMyOrderDetail)
}

// HandleRegisterForm echoes any form messages back to the signup page.
func (h *CustomerHandler) HandleRegisterForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"erro":    c.Query("erro"),
		"sucesso": c.Query("sucesso"),
		"generos": []string{"masculino", "feminino", "outro", "não informado"},
	})
}

// HandleRegister processes the signup form.
func (h *CustomerHandler) HandleRegister(c *fiber.Ctx) error {
	reg := services.Registration{
		Name:            c.FormValue("nome"),
		CPF:             c.FormValue("cpf"),
		Email:           c.FormValue("email"),
		BirthDate:       c.FormValue("dataNascimento"),
		Gender:          c.FormValue("genero"),
		Password:        c.FormValue("senha"),
		PasswordConfirm: c.FormValue("confirmarSenha"),
		PostalCode:      c.FormValue("cep"),
		Number:          c.FormValue("numero"),
		Complement:      c.FormValue("complemento"),
	}

	if _, err := h.customers.Register(c.Context(), reg); err != nil {
		return failRedirect(c, "/cadastro", err)
	}
	return redirectSuccess(c, "/login", "Cliente cadastrado com sucesso")
}

// HandleLoginForm echoes any messages back to the login page.
func (h *CustomerHandler) HandleLoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"erro":    c.Query("erro"),
		"sucesso": c.Query("sucesso"),
	})
}

// HandleLogin authenticates a customer and resumes any interrupted flow.
func (h *CustomerHandler) HandleLogin(c *fiber.Ctx) error {
	customer, err := h.customers.Authenticate(c.FormValue("email"), c.FormValue("senha"))
	if err != nil {
		return failRedirect(c, "/login", err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	sess.Set(middleware.KeyCustomerID, customer.ID)

	target := "/loja"
	if returnTo, ok := sess.Get(middleware.KeyReturnTo).(string); ok && returnTo != "" {
		target = returnTo
		sess.Delete(middleware.KeyReturnTo)
	}
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

// HandleLogout ends the customer session.
func (h *CustomerHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	if err := sess.Destroy(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/loja", fiber.StatusSeeOther)
}

// HandleCEPLookup proxies a postal code lookup for address forms.
func (h *CustomerHandler) HandleCEPLookup(c *fiber.Ctx) error {
	address, err := h.cepClient.Lookup(c.Context(), c.Params("cep"))
	if err != nil {
		if errors.Is(err, viacep.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"erro": "CEP inválido ou não encontrado",
			})
		}
		return internalError(c, err)
	}
	return c.JSON(address)
}

func (h *CustomerHandler) sessionCustomer(c *fiber.Ctx) (*session.Session, *models.Customer, error) {
	sess, err := h.store.Get(c)
	if err != nil {
		return nil, nil, err
	}
	customer, err := h.customers.GetByID(customerID(sess))
	if err != nil {
		return nil, nil, err
	}
	return sess, customer, nil
}

// HandleProfile shows the customer's own data and addresses.
func (h *CustomerHandler) HandleProfile(c *fiber.Ctx) error {
	_, customer, err := h.sessionCustomer(c)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"nome":            customer.Name,
		"email":           customer.Email,
		"cpf":             customer.CPF,
		"data_nascimento": customer.BirthDate.Format("2006-01-02"),
		"genero":          customer.Gender,
		"faturamento":     customer.BillingAddress,
		"entrega":         customer.DeliveryAddresses,
		"erro":            c.Query("erro"),
		"sucesso":         c.Query("sucesso"),
	})
}

// HandleUpdateProfile changes name, birth date and gender.
func (h *CustomerHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	err = h.customers.UpdateProfile(customerID(sess),
		c.FormValue("nome"), c.FormValue("dataNascimento"), c.FormValue("genero"))
	if err != nil {
		return failRedirect(c, "/cliente/perfil", err)
	}
	return redirectSuccess(c, "/cliente/perfil", "Dados alterados com sucesso")
}

// HandleChangePassword sets a new password.
func (h *CustomerHandler) HandleChangePassword(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	err = h.customers.ChangePassword(customerID(sess),
		c.FormValue("senha"), c.FormValue("confirmarSenha"))
	if err != nil {
		return failRedirect(c, "/cliente/perfil", err)
	}
	return redirectSuccess(c, "/cliente/perfil", "Senha alterada com sucesso")
}

// HandleAddAddress appends a delivery address. A new default address
// re-estimates shipping for the cart.
func (h *CustomerHandler) HandleAddAddress(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	isDefault := c.FormValue("padrao") == "true" || c.FormValue("padrao") == "on"

	address, err := h.customers.AddAddress(c.Context(), customerID(sess),
		c.FormValue("cep"), c.FormValue("numero"), c.FormValue("complemento"), isDefault)
	if err != nil {
		return failRedirect(c, "/cliente/perfil", err)
	}

	if isDefault {
		h.reestimateShipping(sess, address.PostalCode)
		if err := sess.Save(); err != nil {
			return internalError(c, err)
		}
	}
	return redirectSuccess(c, "/cliente/perfil", "Endereço adicionado com sucesso")
}

// HandleSetDefaultAddress marks one address default and re-estimates
// shipping for it.
func (h *CustomerHandler) HandleSetDefaultAddress(c *fiber.Ctx) error {
	sess, customer, err := h.sessionCustomer(c)
	if err != nil {
		return internalError(c, err)
	}

	addressID := c.FormValue("enderecoId")
	if err := h.customers.SetDefaultAddress(customer.ID, addressID); err != nil {
		return failRedirect(c, "/cliente/perfil", err)
	}

	if address := customer.AddressByID(addressID); address != nil {
		h.reestimateShipping(sess, address.PostalCode)
		if err := sess.Save(); err != nil {
			return internalError(c, err)
		}
	}
	return redirectSuccess(c, "/cliente/perfil", "Endereço padrão alterado com sucesso")
}

// reestimateShipping points the cart estimate at a new CEP. Any manual tier
// selection is dropped so the next cart view quotes fresh options.
func (h *CustomerHandler) reestimateShipping(sess *session.Session, cep string) {
	sess.Set(middleware.KeyShippingCEP, cep)
	sess.Delete(middleware.KeyShippingFee)
	sess.Delete(middleware.KeyShippingManual)
}

// HandleMyOrders lists the customer's own orders.
func (h *CustomerHandler) HandleMyOrders(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	orders, err := h.orders.ListByCustomer(customerID(sess))
	if err != nil {
		return internalError(c, err)
	}

	view := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		view = append(view, fiber.Map{
			"numero": o.Number,
			"data":   o.CreatedAt,
			"total":  o.Total,
			"status": o.StatusLabel(),
		})
	}
	return c.JSON(fiber.Map{"pedidos": view})
}

// HandleMyOrderDetail shows one order. Customers can only open their own.
func (h *CustomerHandler) HandleMyOrderDetail(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	number, err := strconv.ParseUint(c.Params("numero"), 10, 64)
	if err != nil {
		return redirectError(c, "/cliente/meus-pedidos", "Pedido não encontrado")
	}

	order, err := h.orders.GetByNumber(number)
	if err != nil {
		return failRedirect(c, "/cliente/meus-pedidos", err)
	}
	if order.CustomerID != customerID(sess) {
		return redirectError(c, "/cliente/meus-pedidos", "Pedido não encontrado")
	}

	return c.JSON(fiber.Map{
		"numero":           order.Number,
		"data":             order.CreatedAt,
		"status":           order.StatusLabel(),
		"itens":            order.Items,
		"endereco_entrega": order.DeliveryAddress,
		"forma_pagamento":  order.PaymentMethod,
		"cartao":           order.Card,
		"subtotal":         order.Subtotal,
		"frete":            order.ShippingFee,
		"total":            order.Total,
	})
}
