package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	profiles, err := h.userService.List(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"users": profiles,
	})
}

func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	var input domain.AssignRoleInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if !input.Role.IsValid() {
		return middleware.BadRequest("Role must be 'admin' or 'technician'")
	}

	if err := h.userService.AssignRole(c.Context(), input); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	var input domain.SetStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.userService.SetStatus(c.Context(), input); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	if err := h.userService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return middleware.NotFound("User not found")
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
