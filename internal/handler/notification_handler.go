package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"mantenimiento-equipos/internal/middleware"
	"mantenimiento-equipos/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notifService.List(c.Context(), userID, unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAllAsRead(c.Context(), userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stream serves the live feed over server-sent events: one `data:` frame per
// delivery, each carrying the full list and unread count.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	// The fiber context dies when this handler returns; the stream writer
	// below outlives it, so the subscription gets its own context cancelled
	// on write failure (client gone).
	streamCtx, cancel := context.WithCancel(context.Background())

	updates, err := h.notifService.StreamUpdates(streamCtx, userID)
	if err != nil {
		cancel()
		if errors.Is(err, notification.ErrFeedUnavailable) {
			return middleware.NewError(fiber.StatusServiceUnavailable, "Live notifications unavailable")
		}
		return err
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for update := range updates {
			payload, err := json.Marshal(update)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
