package handlers

import (
	"log"
	"strconv"

	"drogaria/internal/middleware"
	"drogaria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// StoreHandler serves the public storefront and the session cart.
type StoreHandler struct {
	catalog *services.CatalogService
	store   *session.Store
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(catalog *services.CatalogService, store *session.Store) *StoreHandler {
	return &StoreHandler{
		catalog: catalog,
		store:   store,
	}
}

// RegisterRoutes registers the storefront routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	loja := router.Group("/loja")
	loja.Get("/", h.HandleStorefront)
	loja.Get("/produto/:id", h.HandleProductDetail)
	loja.Get("/carrinho", h.HandleCart)
	loja.Post("/carrinho/adicionar/:id", h.HandleCartAdd)
	loja.Post("/carrinho/diminuir/:id", h.HandleCartDecrement)
	loja.Post("/carrinho/remover/:id", h.HandleCartRemove)
	loja.Post("/carrinho/calcular-frete", h.HandleCartShipping)
}

// HandleStorefront lists the active products with their primary image.
func (h *StoreHandler) HandleStorefront(c *fiber.Ctx) error {
	products, err := h.catalog.ListStorefront()
	if err != nil {
		return internalError(c, err)
	}

	items := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		items = append(items, fiber.Map{
			"id":        p.SequentialID,
			"nome":      p.Name,
			"preco":     p.Price,
			"avaliacao": p.Rating,
			"imagem":    h.catalog.PrimaryImage(p.SequentialID),
		})
	}

	cartCount := 0
	if sess, err := h.store.Get(c); err == nil {
		cartCount = cartFromSession(sess).Count()
	}

	return c.JSON(fiber.Map{
		"produtos":       items,
		"itens_carrinho": cartCount,
	})
}

// HandleProductDetail shows one product with all its images.
func (h *StoreHandler) HandleProductDetail(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/loja", "Produto não encontrado")
	}

	product, err := h.catalog.GetProduct(sequentialID)
	if err != nil || !product.Active {
		return redirectError(c, "/loja", "Produto não encontrado")
	}

	images, err := h.catalog.ImagesOf(sequentialID)
	if err != nil {
		return internalError(c, err)
	}
	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, img.Path)
	}

	return c.JSON(fiber.Map{
		"produto":          product,
		"imagens":          paths,
		"imagem_principal": h.catalog.PrimaryImage(sequentialID),
	})
}

// HandleCart renders the cart against live catalog prices. A failure while
// pricing a line degrades to an empty cart view instead of an error page.
func (h *StoreHandler) HandleCart(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	cart := cartFromSession(sess)

	lines := make([]fiber.Map, 0, len(cart))
	subtotal := 0.0
	for sequentialID, qty := range cart {
		product, err := h.catalog.GetProduct(sequentialID)
		if err != nil {
			log.Printf("cart line %d unresolvable: %v", sequentialID, err)
			continue
		}
		total := product.Price * float64(qty)
		subtotal += total
		lines = append(lines, fiber.Map{
			"id":         product.SequentialID,
			"nome":       product.Name,
			"quantidade": qty,
			"preco":      product.Price,
			"total":      total,
			"imagem":     h.catalog.PrimaryImage(product.SequentialID),
		})
	}

	view := fiber.Map{
		"itens":    lines,
		"subtotal": subtotal,
	}
	if cep, ok := sess.Get(middleware.KeyShippingCEP).(string); ok && cep != "" {
		view["cep"] = cep
		view["opcoes_frete"] = services.EstimateShipping(cep)
	}
	if fee, ok := sess.Get(middleware.KeyShippingFee).(float64); ok {
		view["frete"] = fee
		view["total"] = subtotal + fee
	}
	return c.JSON(view)
}

// HandleCartAdd puts one more unit of a product in the cart.
func (h *StoreHandler) HandleCartAdd(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/loja", "Produto não encontrado")
	}
	if _, err := h.catalog.GetProduct(sequentialID); err != nil {
		return redirectError(c, "/loja", "Produto não encontrado")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	cart := cartFromSession(sess)
	cart.Add(sequentialID)
	sess.Set(middleware.KeyCart, cart)
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/loja/carrinho", fiber.StatusSeeOther)
}

// HandleCartDecrement removes one unit, dropping the line at zero.
func (h *StoreHandler) HandleCartDecrement(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Redirect("/loja/carrinho", fiber.StatusSeeOther)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	cart := cartFromSession(sess)
	cart.Decrement(sequentialID)
	sess.Set(middleware.KeyCart, cart)
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/loja/carrinho", fiber.StatusSeeOther)
}

// HandleCartRemove drops a product line entirely.
func (h *StoreHandler) HandleCartRemove(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Redirect("/loja/carrinho", fiber.StatusSeeOther)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	cart := cartFromSession(sess)
	cart.Remove(sequentialID)
	sess.Set(middleware.KeyCart, cart)
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/loja/carrinho", fiber.StatusSeeOther)
}

// HandleCartShipping estimates shipping for a CEP typed on the cart page and
// stores the tier the customer picks.
func (h *StoreHandler) HandleCartShipping(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}

	cep := c.FormValue("cep")
	sess.Set(middleware.KeyShippingCEP, cep)

	if valor := c.FormValue("valor"); valor != "" {
		fee, err := strconv.ParseFloat(valor, 64)
		if err != nil {
			return redirectError(c, "/loja/carrinho", "Valor de frete inválido")
		}
		sess.Set(middleware.KeyShippingFee, fee)
		sess.Set(middleware.KeyShippingManual, true)
	} else {
		// A new CEP without a tier choice drops any previous selection.
		sess.Delete(middleware.KeyShippingFee)
		sess.Delete(middleware.KeyShippingManual)
	}

	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/loja/carrinho", fiber.StatusSeeOther)
}
