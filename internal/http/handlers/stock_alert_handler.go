package handlers

import (
	"database/sql"
	"errors"
	"strconv"

	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type StockAlertHandler struct {
	Alerts *services.StockAlertService
}

type stockAlertRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Threshold int    `json:"threshold"`
}

func (h *StockAlertHandler) Subscribe(c *fiber.Ctx) error {
	u := currentUser(c)
	var req stockAlertRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	if _, ok := validate.Threshold(strconv.Itoa(req.Threshold)); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid threshold")
	}
	created, err := h.Alerts.Subscribe(u.ID, req.ProductID, req.Threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "product not found")
		}
		if errors.Is(err, services.ErrAlertInStock) {
			return fail(c, fiber.StatusConflict, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "stockalert.subscribe", map[string]any{"product": req.ProductID, "created": created})
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"created": created})
}

func (h *StockAlertHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	alerts, err := h.Alerts.List(u.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(alerts)
}
