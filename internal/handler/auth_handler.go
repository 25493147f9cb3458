package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return middleware.Conflict("Email already registered")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	profile, tokens, err := h.authService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return middleware.Unauthorized("Invalid email or password")
		}
		if errors.Is(err, auth.ErrAccountInactive) {
			return middleware.Forbidden("Account is inactive")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"profile":       profile,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	tokens, err := h.authService.RefreshToken(c.Context(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUserNotFound) {
			return middleware.Unauthorized("Invalid refresh token")
		}
		if errors.Is(err, auth.ErrAccountInactive) {
			return middleware.Forbidden("Account is inactive")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.authService.Logout(c.Context(), input.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return middleware.Unauthorized("Invalid refresh token")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile := middleware.GetCurrentProfile(c)
	if profile == nil {
		return middleware.Unauthorized("User not found")
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}
