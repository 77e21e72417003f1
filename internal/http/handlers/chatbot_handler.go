package handlers

import (
	"errors"

	"verdantshop/internal/llm"
	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"
	"verdantshop/internal/vector"

	"github.com/gofiber/fiber/v2"
)

type ChatbotHandler struct {
	Bot  *services.ChatbotService
	Sync *services.SyncService
	Auth *services.AuthService
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

func (h *ChatbotHandler) Chat(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req chatRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	userID := ""
	if u, _ := h.Auth.CurrentUser(sid); u != nil {
		userID = u.ID
	}
	reply, err := h.Bot.Handle(c.Context(), sid, userID, req.Message)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Info(c, "chat.message", map[string]any{"intent": reply.Intent, "degraded": reply.Degraded})
	return c.JSON(reply)
}

func (h *ChatbotHandler) History(c *fiber.Ctx) error {
	sid := ensureSID(c)
	msgs, err := h.Bot.History(sid, c.QueryInt("limit", 50))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(msgs)
}

type feedbackRequest struct {
	MessageID string `json:"message_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=helpful not_helpful"`
	Comment   string `json:"comment" validate:"max=1000"`
}

func (h *ChatbotHandler) Feedback(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req feedbackRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if _, ok := validate.ID(req.MessageID); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid message id")
	}
	userID := ""
	if u, _ := h.Auth.CurrentUser(sid); u != nil {
		userID = u.ID
	}
	if err := h.Bot.Feedback(req.MessageID, userID, req.Type, req.Comment); err != nil {
		if errors.Is(err, services.ErrUnknownMessage) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *ChatbotHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.Bot.Health(c.Context()))
}

// SyncProducts triggers a vector index sync from the admin surface.
func (h *ChatbotHandler) SyncProducts(c *fiber.Ctx) error {
	force := c.QueryBool("force", false)
	rep, err := h.Sync.Run(c.Context(), force, c.QueryInt("batch_size", 0))
	if err != nil {
		if errors.Is(err, vector.ErrNotConfigured) || errors.Is(err, llm.ErrNotConfigured) {
			return fail(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "chat.sync", map[string]any{"force": force, "synced": rep.Synced, "skipped": rep.Skipped, "failed": rep.Failed})
	return c.JSON(rep)
}
