package handlers

import (
	applog "verdantshop/internal/log"
	"verdantshop/internal/services"
	"verdantshop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid query")
	}
	category := c.Query("category")
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			return fail(c, fiber.StatusBadRequest, "invalid category")
		}
	}
	page := c.QueryInt("page", 1)
	prods, err := h.Catalog.Search(q, category, page, c.QueryInt("page_size", 12))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Info(c, "search", map[string]any{"q": q, "hits": len(prods)})
	return c.JSON(fiber.Map{"products": prods, "page": page, "q": q})
}
