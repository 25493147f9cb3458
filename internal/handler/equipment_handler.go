package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/equipment"
)

type EquipmentHandler struct {
	equipmentService equipment.Service
}

func NewEquipmentHandler(equipmentService equipment.Service) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	result, err := h.equipmentService.List(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *EquipmentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("equipmentId"))
	if err != nil {
		return middleware.BadRequest("Invalid equipment ID")
	}

	eq, err := h.equipmentService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, equipment.ErrNotFound) {
			return middleware.NotFound("Equipment not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(eq)
}

func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateEquipmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Name == "" || input.IntervalDays < 1 {
		return middleware.BadRequest("Name and a positive maintenance interval are required")
	}

	eq, err := h.equipmentService.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(eq)
}

func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("equipmentId"))
	if err != nil {
		return middleware.BadRequest("Invalid equipment ID")
	}

	var input domain.UpdateEquipmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	eq, err := h.equipmentService.Update(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, equipment.ErrNotFound) {
			return middleware.NotFound("Equipment not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(eq)
}
