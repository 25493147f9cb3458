package handler

import (
	"github.com/gofiber/fiber/v2"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Equipment    *EquipmentHandler
	Maintenance  *MaintenanceHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Dashboard    *DashboardHandler
	Theme        *ThemeHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Equipment:    NewEquipmentHandler(services.Equipment),
		Maintenance:  NewMaintenanceHandler(services.Maintenance),
		Notification: NewNotificationHandler(services.Notification),
		Report:       NewReportHandler(services.Report),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Theme:        NewThemeHandler(services.Theme),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Validate()
	return params
}
