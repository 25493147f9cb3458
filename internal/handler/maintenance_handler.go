package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/maintenance"
)

type MaintenanceHandler struct {
	maintenanceService maintenance.Service
}

func NewMaintenanceHandler(maintenanceService maintenance.Service) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	result, err := h.maintenanceService.List(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MaintenanceHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("maintenanceId"))
	if err != nil {
		return middleware.BadRequest("Invalid maintenance ID")
	}

	m, err := h.maintenanceService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			return middleware.NotFound("Scheduled maintenance not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	profile := middleware.GetCurrentProfile(c)
	if profile == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.CreateMaintenanceInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.ScheduledAt.IsZero() {
		return middleware.BadRequest("A scheduled date is required")
	}

	m, err := h.maintenanceService.Create(c.Context(), profile, input)
	if err != nil {
		if errors.Is(err, maintenance.ErrEquipmentNotFound) {
			return middleware.NotFound("Equipment not found")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *MaintenanceHandler) Complete(c *fiber.Ctx) error {
	profile := middleware.GetCurrentProfile(c)
	if profile == nil {
		return middleware.Unauthorized("User not found")
	}

	id, err := uuid.Parse(c.Params("maintenanceId"))
	if err != nil {
		return middleware.BadRequest("Invalid maintenance ID")
	}

	if err := h.maintenanceService.Complete(c.Context(), profile, id); err != nil {
		switch {
		case errors.Is(err, maintenance.ErrNotFound):
			return middleware.NotFound("Scheduled maintenance not found")
		case errors.Is(err, maintenance.ErrNotPending):
			return middleware.Conflict("Maintenance is not pending")
		case errors.Is(err, maintenance.ErrPermissionRequired):
			return middleware.Forbidden("Insufficient permissions for this operation")
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MaintenanceHandler) Cancel(c *fiber.Ctx) error {
	profile := middleware.GetCurrentProfile(c)
	if profile == nil {
		return middleware.Unauthorized("User not found")
	}

	id, err := uuid.Parse(c.Params("maintenanceId"))
	if err != nil {
		return middleware.BadRequest("Invalid maintenance ID")
	}

	if err := h.maintenanceService.Cancel(c.Context(), profile, id); err != nil {
		switch {
		case errors.Is(err, maintenance.ErrNotFound):
			return middleware.NotFound("Scheduled maintenance not found")
		case errors.Is(err, maintenance.ErrNotPending):
			return middleware.Conflict("Maintenance is not pending")
		case errors.Is(err, maintenance.ErrPermissionRequired):
			return middleware.Forbidden("Insufficient permissions for this operation")
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
