package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
)

var validate = validator.New()

// fail maps domain error kinds onto HTTP responses: violation lists 400,
// duplicates 409, business-rule rejections a generic 422, unknown errors a
// logged 500.
func fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "validation failed",
			"violations": verr.Violations,
		})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	var bre *domain.BusinessRuleError
	if errors.As(err, &bre) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": bre.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// bind parses the JSON body into dst and runs its validate tags. A non-nil
// return is always a *domain.ValidationError.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &domain.ValidationError{Violations: domain.ViolationList{
			{Field: "body", Message: "must be valid JSON"},
		}}
	}
	if err := validate.Struct(dst); err != nil {
		var vl domain.ViolationList
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) {
			for _, fe := range ferrs {
				vl.Add(jsonField(fe.Field()), tagMessage(fe))
			}
		} else {
			vl.Add("body", "invalid request")
		}
		return &domain.ValidationError{Violations: vl}
	}
	return nil
}

func jsonField(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be below " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
