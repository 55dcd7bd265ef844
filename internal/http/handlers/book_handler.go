package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
	"shopshelf/internal/services"
)

type BookHandler struct {
	Books *services.BookService
}

func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req domain.CreateBookRequest
	if err := bind(c, &req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"resource": "book"})
		return fail(c, err)
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	b, err := h.Books.Create(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "book.created", map[string]any{"id": b.ID})
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BookHandler) Get(c *fiber.Ctx) error {
	b, err := h.Books.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(b)
}

func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.Books.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"books": books, "count": len(books)})
}

func (h *BookHandler) Search(c *fiber.Ctx) error {
	sortBy := c.Query("sortBy", "id")
	switch sortBy {
	case "title", "year", "id":
	default:
		return fail(c, &domain.ValidationError{Violations: domain.ViolationList{
			{Field: "sortBy", Message: "must be one of title, year, id"},
		}})
	}

	q := domain.BookQuery{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 12),
		Author:   strings.TrimSpace(c.Query("author")),
		Exact:    c.Query("match") == "exact",
		SortBy:   sortBy,
		Desc:     c.QueryBool("desc"),
	}
	books, err := h.Books.Search(c.Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"books": books, "count": len(books), "page": q.Page})
}

func (h *BookHandler) Update(c *fiber.Ctx) error {
	var req domain.UpdateBookRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	b, err := h.Books.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "book.updated", map[string]any{"id": b.ID})
	return c.JSON(b)
}

func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Books.Delete(c.Context(), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "book.deleted", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
