package handlers

import (
	"database/sql"
	"errors"

	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Order   *services.OrderService
	Notify  *services.NotificationService
	Monitor *services.StockMonitor
}

type setStockRequest struct {
	Qty int `json:"qty" validate:"min=0"`
}

func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req setStockRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Catalog.Prods.SetStock(id, req.Qty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "product not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "admin.stock.set", map[string]any{"product": id, "qty": req.Qty})
	return c.JSON(fiber.Map{"ok": true})
}

type setPriceRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// SetPrice updates a price and, on a decrease, notifies users who
// wishlisted the product.
func (h *AdminHandler) SetPrice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req setPriceRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "product not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := h.Catalog.Prods.SetPrice(id, req.Price); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	notified := 0
	if req.Price < p.Price {
		if notified, err = h.Notify.PriceDrop(p, p.Price, req.Price); err != nil {
			applog.Error(c, "admin.price.notify.fail", err, map[string]any{"product": id})
		}
	}
	applog.Audit(c, "admin.price.set", map[string]any{"product": id, "price": req.Price, "notified": notified})
	return c.JSON(fiber.Map{"ok": true, "notified": notified})
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) SetOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	var req orderStatusRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	status, ok := validate.OrderStatus(req.Status)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid status")
	}
	o, err := h.Order.UpdateStatus(id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "order not found")
		}
		if errors.Is(err, services.ErrBadTransition) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order": id, "status": status})
	return c.JSON(o)
}

type shipRequest struct {
	TrackingNumber    string `json:"tracking_number" validate:"required,max=64"`
	CourierService    string `json:"courier_service" validate:"required,max=64"`
	EstimatedDelivery string `json:"estimated_delivery" validate:"max=32"`
}

func (h *AdminHandler) ShipOrder(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	var req shipRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	o, err := h.Order.Ship(id, req.TrackingNumber, req.CourierService, req.EstimatedDelivery)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "order not found")
		}
		if errors.Is(err, services.ErrBadTransition) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "admin.order.ship", map[string]any{"order": id, "tracking": req.TrackingNumber})
	return c.JSON(o)
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Order.Orders.ListLatest(c.QueryInt("limit", 50))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(orders)
}

func (h *AdminHandler) StockReport(c *fiber.Ctx) error {
	rep, err := h.Monitor.Report()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(rep)
}

func (h *AdminHandler) LowStock(c *fiber.Ctx) error {
	prods, err := h.Monitor.LowStock(c.QueryInt("threshold", 5))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(prods)
}

// RunMonitor executes one stock-monitor pass on demand.
func (h *AdminHandler) RunMonitor(c *fiber.Ctx) error {
	rep, err := h.Monitor.Run(c.Context())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "admin.monitor.run", map[string]any{"sent": rep.NotificationsSent, "errors": len(rep.Errors)})
	return c.JSON(rep)
}
