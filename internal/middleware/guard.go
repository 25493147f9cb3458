package middleware

import (
	"github.com/gofiber/fiber/v2"

	"mantenimiento-equipos/internal/domain"
)

// RequireRole guards a route group on the caller's resolved profile. Admin
// implies technician; an unauthenticated caller never reaches this handler
// when AuthRequired runs first.
func RequireRole(required domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile := GetCurrentProfile(c)
		if profile == nil {
			return Unauthorized("User not found")
		}

		if !profile.HasRole(required) {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
