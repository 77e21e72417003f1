package handlers

import (
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

type wishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req wishlistRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Wish.Add(sid, req.ProductID); err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Wish.Remove(sid, id); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	rows, err := h.Wish.List(sid)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(rows)
}
