package handlers

import (
	"log"
	"net/url"

	"drogaria/internal/middleware"
	"drogaria/internal/models"
	"drogaria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// redirectSuccess sends the browser to path with a success message in the
// query string.
func redirectSuccess(c *fiber.Ctx, path, message string) error {
	return c.Redirect(path+"?sucesso="+url.QueryEscape(message), fiber.StatusSeeOther)
}

// redirectError sends the browser to path with an error message in the
// query string.
func redirectError(c *fiber.Ctx, path, message string) error {
	return c.Redirect(path+"?erro="+url.QueryEscape(message), fiber.StatusSeeOther)
}

// failRedirect routes an operation failure: business-rule violations go back
// to the form with their message, anything else is logged and shown as a
// generic error.
func failRedirect(c *fiber.Ctx, path string, err error) error {
	if services.IsRule(err) {
		return redirectError(c, path, err.Error())
	}
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return redirectError(c, path, "Erro interno. Tente novamente")
}

// internalError logs an unexpected failure and answers with a generic body.
func internalError(c *fiber.Ctx, err error) error {
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"erro": "Erro interno. Tente novamente",
	})
}

// cartFromSession returns the session cart, recreating it empty when absent.
func cartFromSession(sess *session.Session) models.Cart {
	if cart, ok := sess.Get(middleware.KeyCart).(models.Cart); ok && cart != nil {
		return cart
	}
	return models.Cart{}
}

// customerID returns the logged-in customer's ID, or "".
func customerID(sess *session.Session) string {
	id, _ := sess.Get(middleware.KeyCustomerID).(string)
	return id
}

// staffUser returns the staff user loaded by the StaffRequired middleware.
func staffUser(c *fiber.Ctx) *models.StaffUser {
	user, _ := c.Locals(middleware.LocalStaffUser).(*models.StaffUser)
	return user
}
