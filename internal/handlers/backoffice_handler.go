package handlers

import (
	"strconv"

	"drogaria/internal/middleware"
	"drogaria/internal/models"
	"drogaria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// BackofficeHandler handles staff login, the staff user administration and
// the order management screens.
type BackofficeHandler struct {
	staff  *services.StaffService
	orders *services.OrderService
	store  *session.Store
}

// NewBackofficeHandler creates a new BackofficeHandler.
func NewBackofficeHandler(staff *services.StaffService, orders *services.OrderService, store *session.Store) *BackofficeHandler {
	return &BackofficeHandler{
		staff:  staff,
		orders: orders,
		store:  store,
	}
}

// RegisterRoutes registers the backoffice routes with the Fiber app. User
// administration is restricted to administrators; order management is open
// to any staff member.
func (h *BackofficeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/backoffice/login", h.HandleLoginForm)
	router.Post("/backoffice/login", h.HandleLogin)
	router.Post("/backoffice/logout", h.HandleLogout)
	router.Get("/backoffice", middleware.StaffRequired(h.store, h.staff), h.HandleDashboard)

	usuarios := router.Group("/usuarios",
		middleware.StaffRequired(h.store, h.staff), middleware.AdminRequired())
	usuarios.Get("/", h.HandleListUsers)
	usuarios.Post("/cadastrar", h.HandleCreateUser)
	usuarios.Post("/:id/alterar", h.HandleUpdateUser)
	usuarios.Post("/:id/senha", h.HandleResetPassword)
	usuarios.Post("/:id/status", h.HandleToggleUser)

	pedidos := router.Group("/pedidos", middleware.StaffRequired(h.store, h.staff))
	pedidos.Get("/", h.HandleListOrders)
	pedidos.Get("/:numero", h.HandleOrderDetail)
	pedidos.Post("/:numero/status", h.HandleUpdateOrderStatus)
}

// HandleLoginForm echoes any messages back to the staff login page.
func (h *BackofficeHandler) HandleLoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"erro":    c.Query("erro"),
		"sucesso": c.Query("sucesso"),
	})
}

// HandleLogin authenticates a staff user.
func (h *BackofficeHandler) HandleLogin(c *fiber.Ctx) error {
	user, err := h.staff.Authenticate(c.FormValue("email"), c.FormValue("senha"))
	if err != nil {
		return failRedirect(c, "/backoffice/login", err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	sess.Set(middleware.KeyStaffID, user.ID)
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/backoffice", fiber.StatusSeeOther)
}

// HandleLogout ends the staff session.
func (h *BackofficeHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return internalError(c, err)
	}
	sess.Delete(middleware.KeyStaffID)
	if err := sess.Save(); err != nil {
		return internalError(c, err)
	}
	return c.Redirect("/backoffice/login", fiber.StatusSeeOther)
}

// HandleDashboard shows the backoffice landing page.
func (h *BackofficeHandler) HandleDashboard(c *fiber.Ctx) error {
	user := staffUser(c)
	return c.JSON(fiber.Map{
		"usuario": fiber.Map{
			"nome":  user.Name,
			"grupo": user.Role,
		},
		"isAdmin": user.IsAdmin(),
		"erro":    c.Query("erro"),
		"sucesso": c.Query("sucesso"),
	})
}

// HandleListUsers lists every staff user.
func (h *BackofficeHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.staff.List()
	if err != nil {
		return internalError(c, err)
	}

	view := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		status := "Inativo"
		if u.Active {
			status = "Ativo"
		}
		view = append(view, fiber.Map{
			"id":     u.SequentialID,
			"nome":   u.Name,
			"email":  u.Email,
			"grupo":  u.Role,
			"status": status,
		})
	}
	return c.JSON(fiber.Map{
		"usuarios": view,
		"erro":     c.Query("erro"),
		"sucesso":  c.Query("sucesso"),
	})
}

// HandleCreateUser registers a new staff user.
func (h *BackofficeHandler) HandleCreateUser(c *fiber.Ctx) error {
	role := models.StaffRole(c.FormValue("grupo"))
	if !role.Valid() {
		return redirectError(c, "/usuarios", "Grupo inválido")
	}

	_, err := h.staff.Create(
		c.FormValue("nome"), c.FormValue("cpf"), c.FormValue("email"),
		role, c.FormValue("senha"), c.FormValue("confirmarSenha"))
	if err != nil {
		return failRedirect(c, "/usuarios", err)
	}
	return redirectSuccess(c, "/usuarios", "Usuário cadastrado com sucesso")
}

// HandleUpdateUser changes a staff user's name, CPF and role.
func (h *BackofficeHandler) HandleUpdateUser(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/usuarios", "Usuário não encontrado")
	}
	role := models.StaffRole(c.FormValue("grupo"))
	if !role.Valid() {
		return redirectError(c, "/usuarios", "Grupo inválido")
	}

	err = h.staff.Update(sequentialID, c.FormValue("nome"), c.FormValue("cpf"), role)
	if err != nil {
		return failRedirect(c, "/usuarios", err)
	}
	return redirectSuccess(c, "/usuarios", "Usuário alterado com sucesso")
}

// HandleResetPassword sets a new password for a staff user.
func (h *BackofficeHandler) HandleResetPassword(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/usuarios", "Usuário não encontrado")
	}

	err = h.staff.ChangePassword(sequentialID, c.FormValue("senha"), c.FormValue("confirmarSenha"))
	if err != nil {
		return failRedirect(c, "/usuarios", err)
	}
	return redirectSuccess(c, "/usuarios", "Senha alterada com sucesso")
}

// HandleToggleUser activates or deactivates a staff user.
func (h *BackofficeHandler) HandleToggleUser(c *fiber.Ctx) error {
	sequentialID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return redirectError(c, "/usuarios", "Usuário não encontrado")
	}

	active, err := h.staff.ToggleActive(sequentialID)
	if err != nil {
		return failRedirect(c, "/usuarios", err)
	}
	if active {
		return redirectSuccess(c, "/usuarios", "Usuário ativado com sucesso")
	}
	return redirectSuccess(c, "/usuarios", "Usuário desativado com sucesso")
}

// HandleListOrders lists every order, newest first.
func (h *BackofficeHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll()
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
	return c.JSON(fiber.Map{
		"pedidos": view,
		"erro":    c.Query("erro"),
		"sucesso": c.Query("sucesso"),
	})
}

// HandleOrderDetail shows one order for editing.
func (h *BackofficeHandler) HandleOrderDetail(c *fiber.Ctx) error {
	number, err := strconv.ParseUint(c.Params("numero"), 10, 64)
	if err != nil {
		return redirectError(c, "/pedidos", "Pedido não encontrado")
	}

	order, err := h.orders.GetByNumber(number)
	if err != nil {
		return failRedirect(c, "/pedidos", err)
	}
	return c.JSON(fiber.Map{
		"pedido": order,
		"status": order.StatusLabel(),
		"erro":   c.Query("erro"),
	})
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *BackofficeHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	number, err := strconv.ParseUint(c.Params("numero"), 10, 64)
	if err != nil {
		return redirectError(c, "/pedidos", "Pedido não encontrado")
	}

	status := models.OrderStatus(c.FormValue("status"))
	if err := h.orders.UpdateStatus(number, status); err != nil {
		return failRedirect(c, "/pedidos/"+c.Params("numero"), err)
	}
	return redirectSuccess(c, "/pedidos", "Status atualizado com sucesso")
}
