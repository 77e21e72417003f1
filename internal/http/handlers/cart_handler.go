package handlers

import (
	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartAddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req cartAddRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	if req.Qty < 1 {
		req.Qty = 1
	}
	if req.Qty > 50 {
		req.Qty = 50
	}
	if err := h.Cart.Add(sid, req.ProductID, req.Qty); err != nil {
		return fail(c, fiber.StatusConflict, err.Error())
	}
	applog.Info(c, "cart.add", map[string]any{"product": req.ProductID, "qty": req.Qty})
	return h.View(c)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(cv)
}
