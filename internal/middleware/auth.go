package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/service/auth"
)

const (
	ProfileContextKey = "profile"
	UserIDContextKey  = "user_id"
)

// AuthRequired validates the bearer token and resolves the caller's profile
// through the same gate the login path uses, so a mid-session deactivation
// locks the account out on its next request.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		profile, err := authService.ResolveProfile(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, auth.ErrAccountInactive) {
				return Forbidden("Account is inactive")
			}
			return Unauthorized("User not found")
		}

		c.Locals(ProfileContextKey, profile)
		c.Locals(UserIDContextKey, profile.UserID)

		return c.Next()
	}
}

func GetCurrentProfile(c *fiber.Ctx) *domain.Profile {
	profile, ok := c.Locals(ProfileContextKey).(*domain.Profile)
	if !ok {
		return nil
	}
	return profile
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, Unauthorized("User not found")
	}
	return userID, nil
}
