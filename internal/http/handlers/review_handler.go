package handlers

import (
	"database/sql"
	"errors"

	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title" validate:"required,max=120"`
	Body   string `json:"body" validate:"required,max=4000"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req reviewRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	rv, err := h.Reviews.Create(u.ID, productID, req.Rating, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "product not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "review.create", map[string]any{"product": productID, "verified": rv.VerifiedPurchase})
	return c.Status(fiber.StatusCreated).JSON(rv)
}

func (h *ReviewHandler) VoteHelpful(c *fiber.Ctx) error {
	u := currentUser(c)
	reviewID, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	count, counted, err := h.Reviews.VoteHelpful(reviewID, u.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "review not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"helpful_count": count, "counted": counted})
}
