package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"codexplain/internal/server/models"
)

const identityLocal = "identity"

// requireAuth resolves the caller's identity before any work happens. With
// enforcement disabled every caller becomes the shared guest identity; with
// enforcement on, a missing or unverifiable bearer token stops the request
// with 403 and no side effects.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.authRequired {
			c.Locals(identityLocal, models.GuestEmail)
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		}

		email, err := s.users.Authenticate(c.Context(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		}

		c.Locals(identityLocal, email)
		return c.Next()
	}
}

// identity returns the authenticated identity stored by requireAuth.
func identity(c *fiber.Ctx) string {
	if v, ok := c.Locals(identityLocal).(string); ok {
		return v
	}
	return models.GuestEmail
}
