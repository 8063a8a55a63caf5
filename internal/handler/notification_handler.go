package handler

import (
	"erp-backend/internal/middleware"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *usecase.NotificationUsecase
}

func NewNotificationHandler(notifications *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.notifications.List(c.UserContext(), middleware.UserID(c), c.QueryBool("unread", false))
	if err != nil {
		return err
	}
	return ok(c, "Notifications", list)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.UserContext(), middleware.UserID(c), id); err != nil {
		return err
	}
	return ok(c, "Notification marked as read", nil)
}
