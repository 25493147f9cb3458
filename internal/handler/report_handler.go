package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/report"
)

type ReportHandler struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create accepts multipart form data: summary, equipment_id and an optional
// attachment file.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	equipmentID, err := uuid.Parse(c.FormValue("equipment_id"))
	if err != nil {
		return middleware.BadRequest("Invalid equipment ID")
	}

	summary := c.FormValue("summary")
	if summary == "" {
		return middleware.BadRequest("A summary is required")
	}

	var attachment *report.Attachment
	if fileHeader, err := c.FormFile("attachment"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return middleware.BadRequest("Could not read attachment")
		}
		defer file.Close()

		attachment = &report.Attachment{
			FileName: fileHeader.Filename,
			Size:     fileHeader.Size,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Reader:   file,
		}
	}

	created, err := h.reportService.Create(c.Context(), userID, equipmentID, summary, attachment)
	if err != nil {
		if errors.Is(err, report.ErrEquipmentNotFound) {
			return middleware.NotFound("Equipment not found")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return middleware.BadRequest("Invalid report ID")
	}

	r, err := h.reportService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return middleware.NotFound("Report not found")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(r)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	var equipmentID *uuid.UUID
	if raw := c.Query("equipment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.BadRequest("Invalid equipment ID")
		}
		equipmentID = &id
	}

	result, err := h.reportService.List(c.Context(), equipmentID, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
