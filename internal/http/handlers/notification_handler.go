package handlers

import (
	"verdantshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Notify *services.NotificationService
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	rows, err := h.Notify.List(u.ID, c.QueryInt("page", 1), c.QueryInt("page_size", 20))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	unread, err := h.Notify.UnreadCount(u.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"notifications": rows, "unread": unread})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	u := currentUser(c)
	n, err := h.Notify.UnreadCount(u.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"unread": n})
}

type markReadRequest struct {
	// Empty means mark everything read.
	IDs []string `json:"ids"`
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	u := currentUser(c)
	var req markReadRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	n, err := h.Notify.MarkRead(u.ID, req.IDs)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"marked": n})
}
