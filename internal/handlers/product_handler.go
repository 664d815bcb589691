package handlers

import (
	"strconv"

	"drogaria/internal/middleware"
	"drogaria/internal/models"
	"drogaria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// ProductHandler handles the backoffice product screens. Administrators
// manage the whole catalog; stock clerks may only adjust quantities.
type ProductHandler struct {
	catalog  *services.CatalogService
	store    *session.Store
	staff    *services.StaffService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService, staff *services.StaffService, store *session.Store) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		store:    store,
		staff:    staff,
		validate: services.NewValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Every
// route requires a staff session; the fine-grained role checks happen per
// handler so each denial carries its own message.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	produtos := router.Group("/produtos", middleware.StaffRequired(h.store, h.staff))
	produtos.Get("/", h.HandleList)
	produtos.Post("/cadastrar", h.HandleCreate)
	produtos.Get("/:id", h.HandleDetail)
	produtos.Post("/:id/alterar", h.HandleUpdate)
	produtos.Post("/:id/estoque", h.HandleUpdateStock)
	produtos.Post("/:id/status", h.HandleToggle)
	produtos.Post("/:id/imagens", h.HandleAttachImage)
	produtos.Post("/:id/imagens/:imageId/remover", h.HandleDetachImage)
}

// HandleList shows one page of products, optionally filtered by name.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("pagina", "0"))
	size, _ := strconv.Atoi(c.Query("tamanho", "10"))
	search := c.Query("busca")

	products, total, err := h.catalog.List(search, page, size)
	if err != nil {
		return internalError(c, err)
	}

	view := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		status := "Inativo"
		if p.Active {
			status = "Ativo"
		}
		view = append(view, fiber.Map{
			"id":      p.SequentialID,
			"nome":    p.Name,
			"preco":   p.Price,
			"estoque": p.Stock,
			"status":  status,
		})
	}
	return c.JSON(fiber.Map{
		"produtos": view,
		"total":    total,
		"pagina":   page,
		"busca":    search,
		"isAdmin":  staffUser(c).IsAdmin(),
		"erro":     c.Query("erro"),
		"sucesso":  c.Query("sucesso"),
	})
}

// parseProductForm reads the product fields from the request form.
func parseProductForm(c *fiber.Ctx) models.Product {
	rating, _ := strconv.ParseFloat(c.FormValue("avaliacao"), 64)
	price, _ := strconv.ParseFloat(c.FormValue("preco"), 64)
	stock, _ := strconv.Atoi(c.FormValue("quantidadeEstoque"))
	return models.Product{
		Name:        c.FormValue("nome"),
		Rating:      rating,
		Description: c.FormValue("descricao"),
		Price:       price,
		Stock:       stock,
	}
}

// productFormMessage maps a failed validation tag to the message shown on
// the form.
func productFormMessage(err validator.FieldError) string {
	switch err.Field() {
	case "Name":
		if err.Tag() == "max" {
			return "Nome do produto deve ter no máximo 200 caracteres"
		}
		return "Nome do produto é obrigatório"
	case "Rating":
		return "Avaliação deve ser entre 1 e 5"
	case "Description":
		if err.Tag() == "max" {
			return "Descrição detalhada deve ter no máximo 2000 caracteres"
		}
		return "Descrição detalhada é obrigatória"
	case "Price":
		return "Preço deve ser maior que zero"
	case "Stock":
		return "Quantidade em estoque deve ser maior ou igual a zero"
	}
	return "Dados do produto inválidos"
}

// HandleCreate registers a new product (administrators only).
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	if !staffUser(c).IsAdmin() {
		return redirectError(c, "/produtos", "Acesso negado. Apenas administradores podem cadastrar produtos")
	}

	product := parseProductForm(c)
	if err := h.validate.Struct(&product); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return redirectError(c, "/produtos", productFormMessage(errs[0]))
		}
		return internalError(c, err)
	}

	if err := h.catalog.Create(&product); err != nil {
		return failRedirect(c, "/produtos", err)
	}
	return redirectSuccess(c, "/produtos", "Produto cadastrado com sucesso")
}

// HandleDetail shows one product with its images.
func (h *ProductHandler) HandleDetail(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}

	product, err := h.catalog.GetProduct(sequentialID)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}
	images, err := h.catalog.ImagesOf(sequentialID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"produto": product,
		"imagens": images,
		"isAdmin": staffUser(c).IsAdmin(),
		"erro":    c.Query("erro"),
		"sucesso": c.Query("sucesso"),
	})
}

// HandleUpdate edits every product field (administrators only).
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	if !staffUser(c).IsAdmin() {
		return redirectError(c, "/produtos", "Acesso negado")
	}

	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}

	product := parseProductForm(c)
	if err := h.validate.Struct(&product); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return redirectError(c, "/produtos/"+c.Params("id"), productFormMessage(errs[0]))
		}
		return internalError(c, err)
	}

	if err := h.catalog.Update(sequentialID, product); err != nil {
		return failRedirect(c, "/produtos/"+c.Params("id"), err)
	}
	return redirectSuccess(c, "/produtos", "Produto alterado com sucesso")
}

// HandleUpdateStock adjusts only the stock quantity. This is the one write
// a stock clerk is allowed.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}
	stock, err := strconv.Atoi(c.FormValue("quantidadeEstoque"))
	if err != nil {
		return redirectError(c, "/produtos/"+c.Params("id"), "Quantidade em estoque deve ser maior ou igual a zero")
	}

	if err := h.catalog.UpdateStock(sequentialID, stock); err != nil {
		return failRedirect(c, "/produtos/"+c.Params("id"), err)
	}
	return redirectSuccess(c, "/produtos", "Quantidade em estoque alterada com sucesso")
}

// HandleToggle activates or deactivates a product (administrators only).
func (h *ProductHandler) HandleToggle(c *fiber.Ctx) error {
	if !staffUser(c).IsAdmin() {
		return redirectError(c, "/produtos", "Acesso negado. Apenas administradores podem alterar status")
	}

	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}

	if err := h.catalog.ToggleActive(sequentialID); err != nil {
		return failRedirect(c, "/produtos", err)
	}
	return redirectSuccess(c, "/produtos", "Status do produto alterado com sucesso")
}

// HandleAttachImage uploads one product image (administrators only).
func (h *ProductHandler) HandleAttachImage(c *fiber.Ctx) error {
	if !staffUser(c).IsAdmin() {
		return redirectError(c, "/produtos", "Acesso negado")
	}

	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}

	fileHeader, err := c.FormFile("imagem")
	if err != nil {
		return redirectError(c, "/produtos/"+c.Params("id"), "Arquivo não pode estar vazio")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, err)
	}
	defer file.Close()

	primary := c.FormValue("principal") == "true" || c.FormValue("principal") == "on"
	if _, err := h.catalog.AttachImage(sequentialID, fileHeader.Filename, file, primary); err != nil {
		return failRedirect(c, "/produtos/"+c.Params("id"), err)
	}
	return redirectSuccess(c, "/produtos/"+c.Params("id"), "Imagem salva com sucesso")
}

// HandleDetachImage removes one product image (administrators only).
func (h *ProductHandler) HandleDetachImage(c *fiber.Ctx) error {
	if !staffUser(c).IsAdmin() {
		return redirectError(c, "/produtos", "Acesso negado")
	}

	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/produtos", "Produto não encontrado")
	}

	if err := h.catalog.DetachImage(sequentialID, c.Params("imageId")); err != nil {
		return failRedirect(c, "/produtos/"+c.Params("id"), err)
	}
	return redirectSuccess(c, "/produtos/"+c.Params("id"), "Imagem deletada com sucesso")
}
