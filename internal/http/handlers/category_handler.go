package handlers

import (
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid category id")
	}
	page := c.QueryInt("page", 1)
	prods, err := h.Catalog.ListProductsByCategory(id, page, c.QueryInt("page_size", 12))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"products": prods, "page": page})
}
