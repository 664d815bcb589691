package middleware

import (
	"log"
	"time"

	"drogaria/internal/models"
	"drogaria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session keys shared between middleware and handlers.
const (
	KeyCustomerID     = "cliente_id"
	KeyStaffID        = "usuario_id"
	KeyCart           = "carrinho"
	KeyAddress        = "endereco_escolhido"
	KeyPayment        = "forma_pagamento"
	KeyCard           = "dados_cartao"
	KeyShippingFee    = "frete_escolhido"
	KeyShippingManual = "frete_manual"
	KeyShippingCEP    = "cep_frete"
	KeyReturnTo       = "redirecionar_apos_login"
)

// LocalStaffUser is the fiber.Ctx local under which StaffRequired stores the
// authenticated staff user.
const LocalStaffUser = "usuario"

// NewSessionStore builds the cookie session store. Custom types stored in
// the session must be registered here so they survive serialization.
func NewSessionStore(expiry time.Duration) *session.Store {
	store := session.New(session.Config{
		Expiration:     expiry,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	store.RegisterType(models.Cart{})
	store.RegisterType(models.Address{})
	store.RegisterType(models.CardDetails{})
	return store
}

// CustomerRequired gates customer self-service routes. Anonymous visitors
// are sent to the login page; the requested URL is remembered so login can
// resume the flow (checkout relies on this).
func CustomerRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("failed to load session: %v", err)
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		if id, ok := sess.Get(KeyCustomerID).(string); !ok || id == "" {
			sess.Set(KeyReturnTo, c.OriginalURL())
			if err := sess.Save(); err != nil {
				log.Printf("failed to save session: %v", err)
			}
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// StaffRequired gates backoffice routes. The authenticated staff user is
// loaded once and made available to handlers via Locals.
func StaffRequired(store *session.Store, staffService *services.StaffService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("failed to load session: %v", err)
			return c.Redirect("/backoffice/login", fiber.StatusSeeOther)
		}
		id, ok := sess.Get(KeyStaffID).(string)
		if !ok || id == "" {
			return c.Redirect("/backoffice/login", fiber.StatusSeeOther)
		}
		user, err := staffService.GetByID(id)
		if err != nil || !user.Active {
			return c.Redirect("/backoffice/login", fiber.StatusSeeOther)
		}
		c.Locals(LocalStaffUser, user)
		return c.Next()
	}
}

// AdminRequired restricts a route to administrators. It must run after
// StaffRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(LocalStaffUser).(*models.StaffUser)
		if !ok || !user.IsAdmin() {
			return c.Redirect("/backoffice?erro=Acesso negado", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
