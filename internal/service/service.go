package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/repository"
	"mantenimiento-equipos/internal/service/auth"
	"mantenimiento-equipos/internal/service/dashboard"
	"mantenimiento-equipos/internal/service/email"
	"mantenimiento-equipos/internal/service/equipment"
	"mantenimiento-equipos/internal/service/maintenance"
	"mantenimiento-equipos/internal/service/notification"
	"mantenimiento-equipos/internal/service/report"
	"mantenimiento-equipos/internal/service/theme"
	"mantenimiento-equipos/internal/service/user"
	"mantenimiento-equipos/internal/session"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Equipment    equipment.Service
	Maintenance  maintenance.Service
	Notification notification.Service
	Report       report.Service
	Dashboard    dashboard.Service
	Theme        theme.Service
	Email        email.Service
}

func NewServices(
	repos *repository.Repositories,
	rdb *redis.Client,
	minioClient *minio.Client,
	hub *session.Hub,
	cfg *config.Config,
	log *zap.Logger,
) *Services {
	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Profile, repos.Session, hub, emailService, cfg, log)
	equipmentService := equipment.NewService(repos.Equipment)
	maintenanceService := maintenance.NewService(repos.Maintenance, repos.Equipment)

	feed := notification.NewFeed(rdb)
	notificationService := notification.NewService(
		repos.Notification, repos.Equipment, repos.Maintenance,
		feed, emailService, cfg, log,
	)
	// Login events drive the engine's once-per-session generation pass;
	// logout events tear the session down.
	hub.Subscribe(notificationService.HandleSessionEvent)

	reportService := report.NewService(repos.Report, repos.Equipment, minioClient, cfg)
	dashboardService := dashboard.NewService(repos.Equipment, repos.Maintenance, rdb, cfg)
	themeService := theme.NewService(rdb, cfg, log)
	userService := user.NewService(repos.User, repos.Profile, repos.Session)

	return &Services{
		Auth:         authService,
		User:         userService,
		Equipment:    equipmentService,
		Maintenance:  maintenanceService,
		Notification: notificationService,
		Report:       reportService,
		Dashboard:    dashboardService,
		Theme:        themeService,
		Email:        emailService,
	}
}
