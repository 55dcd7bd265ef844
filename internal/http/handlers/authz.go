package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	applog "shopshelf/internal/log"
)

// RequireAdminKey guards write endpoints with an X-Admin-Key header checked
// against a bcrypt hash. An empty hash disables the guard (local dev).
func RequireAdminKey(hash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hash == "" {
			return c.Next()
		}
		key := c.Get("X-Admin-Key")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
