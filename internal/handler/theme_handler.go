package handler

import (
	"github.com/gofiber/fiber/v2"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/theme"
)

type ThemeHandler struct {
	themeService theme.Service
}

func NewThemeHandler(themeService theme.Service) *ThemeHandler {
	return &ThemeHandler{themeService: themeService}
}

func (h *ThemeHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"theme": h.themeService.Get(c.Context(), userID),
	})
}

func (h *ThemeHandler) Set(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input struct {
		Theme domain.Theme `json:"theme"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if !input.Theme.IsValid() {
		return middleware.BadRequest("Theme must be 'light' or 'dark'")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"theme": h.themeService.Set(c.Context(), userID, input.Theme),
	})
}

func (h *ThemeHandler) Toggle(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"theme": h.themeService.Toggle(c.Context(), userID),
	})
}
