package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/handler"
	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/repository"
	"mantenimiento-equipos/internal/service"
	"mantenimiento-equipos/internal/service/auth"
	"mantenimiento-equipos/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zlog, err := config.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		zlog.Warn("Failed to connect to MinIO, report attachments disabled", zap.Error(err))
	}

	hub := session.NewHub()
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, minioClient, hub, cfg, zlog)
	handlers := handler.NewHandlers(services)

	go sweepExpiredSessions(repos, zlog)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	zlog.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

// sweepExpiredSessions clears stale refresh-token rows hourly.
func sweepExpiredSessions(repos *repository.Repositories, zlog *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repos.Session.DeleteExpired(context.Background()); err != nil {
			zlog.Warn("Failed to delete expired sessions", zap.Error(err))
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me", h.Auth.Me)
	users.Get("/me/theme", h.Theme.Get)
	users.Put("/me/theme", h.Theme.Set)
	users.Post("/me/theme/toggle", h.Theme.Toggle)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", h.Dashboard.GetStats)

	equipment := protected.Group("/equipment")
	equipment.Get("/", h.Equipment.List)
	equipment.Get("/:equipmentId", h.Equipment.Get)

	maintenance := protected.Group("/maintenance")
	maintenance.Get("/", h.Maintenance.List)
	maintenance.Get("/:maintenanceId", h.Maintenance.Get)
	maintenance.Post("/", h.Maintenance.Create)
	maintenance.Post("/:maintenanceId/complete", h.Maintenance.Complete)
	maintenance.Post("/:maintenanceId/cancel", h.Maintenance.Cancel)

	reports := protected.Group("/reports")
	reports.Post("/", h.Report.Create)
	reports.Get("/", h.Report.List)
	reports.Get("/:reportId", h.Report.Get)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.Get("/users", h.User.List)
	admin.Post("/users/assign-role", h.User.AssignRole)
	admin.Post("/users/set-status", h.User.SetStatus)
	admin.Delete("/users/:id", h.User.Delete)
	admin.Post("/equipment", h.Equipment.Create)
	admin.Put("/equipment/:equipmentId", h.Equipment.Update)
	admin.Get("/maintenance", h.Maintenance.List)
}
