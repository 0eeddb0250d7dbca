package utils

import (
	"errors"
	"strconv"

	"milkatm-backend/internal/config"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// FieldsError is rendered as 422 with per-field messages.
type FieldsError struct {
	Message string
	Fields  map[string]string
}

func (e *FieldsError) Error() string { return e.Message }

// BindJSON parses the request body into dst and validates it.
func BindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if fields := ValidateStruct(dst); fields != nil {
		return &FieldsError{Message: "validation failed", Fields: fields}
	}
	return nil
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// ErrorHandler renders every handler error as {"error": msg}. Unexpected
// failures are logged and hidden behind a 500.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		var fieldsErr *FieldsError
		if errors.As(err, &fieldsErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  fieldsErr.Message,
				"fields": fieldsErr.Fields,
			})
		}

		var invalid *entry.ValidationError
		if errors.As(err, &invalid) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "invalid entry",
				"fields": invalid.Fields,
			})
		}

		var mapping *entry.MappingError
		if errors.As(err, &mapping) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": mapping.Error()})
		}

		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		case errors.Is(err, store.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already exists"})
		}

		config.LogError(log, "http", "ErrorHandler", err, logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected server error",
		})
	}
}
