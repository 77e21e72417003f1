package handlers

import (
	"database/sql"
	"errors"

	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
	Auth  *services.AuthService
}

type checkoutRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req checkoutRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if _, ok := validate.Email(req.Email); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid email")
	}
	if _, ok := validate.Name(req.Name); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid name")
	}
	orderID, total, err := h.Order.Place(sid, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusConflict, err.Error())
	}
	applog.Audit(c, "order.place", map[string]any{"order": orderID, "total": total})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": orderID, "total": total})
}

// Get returns an order to its owner: the logged-in user it belongs to, the
// session that placed it, or an admin.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	o, items, err := h.Order.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "order not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	sid := c.Cookies("sid")
	u, _ := h.Auth.CurrentUser(sid)
	owner := o.SessionID == sid || (u != nil && (u.ID == o.UserID || u.Role == "ADMIN"))
	if !owner {
		applog.Security(c, "order.access.denied", map[string]any{"order": id})
		return fail(c, fiber.StatusForbidden, "access denied")
	}
	return c.JSON(fiber.Map{"order": o, "items": items})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if u, _ := h.Auth.CurrentUser(sid); u != nil {
		orders, err := h.Order.ListForUser(u.ID)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(orders)
	}
	orders, err := h.Order.ListForSession(sid)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(orders)
}
