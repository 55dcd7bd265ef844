package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
	"shopshelf/internal/services"
)

type ProductHandler struct {
	Products *services.ProductService
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req domain.CreateProductRequest
	if err := bind(c, &req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"resource": "product"})
		return fail(c, err)
	}

	release, err := parseDate(req.ReleaseDate)
	if err != nil {
		return fail(c, &domain.ValidationError{Violations: domain.ViolationList{
			{Field: "releaseDate", Message: "must be a date (YYYY-MM-DD)"},
		}})
	}

	stock := 1
	if req.Stock != nil {
		stock = *req.Stock
	}
	cand := domain.Candidate{
		Name:        strings.TrimSpace(req.Name),
		Brand:       strings.TrimSpace(req.Brand),
		SKU:         strings.TrimSpace(req.SKU),
		Category:    req.Category,
		Price:       req.Price,
		ReleaseDate: release,
		ImageURL:    req.ImageURL,
		Stock:       stock,
	}

	view, err := h.Products.Create(c.Context(), cand)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.created", map[string]any{"id": view.ID})
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	view, err := h.Products.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	views, err := h.Products.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": views, "count": len(views)})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req domain.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	view, err := h.Products.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.updated", map[string]any{"id": view.ID})
	return c.JSON(view)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Products.Delete(c.Context(), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.deleted", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// parseDate accepts YYYY-MM-DD or a full RFC3339 stamp; dates normalize to UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
