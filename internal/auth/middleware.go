package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const ownerIDKey = "owner_id"

// Middleware rejects requests without a valid bearer credential and stores
// the verified owner id for handlers.
func Middleware(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		ownerID, err := v.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		c.Locals(ownerIDKey, ownerID)
		return c.Next()
	}
}

// OwnerID returns the owner id verified by Middleware.
func OwnerID(c *fiber.Ctx) (string, bool) {
	s, ok := c.Locals(ownerIDKey).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
