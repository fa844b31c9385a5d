package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/apperr"
)

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope with an explicit status.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// AppErrorResponse maps a core error to its HTTP status. Errors outside the
// taxonomy are internal; their text is still returned so operators can
// reconstruct the event, never swallowed.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case apperr.IsValidation(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	case apperr.IsNotFound(err):
		return ErrorResponse(c, fiber.StatusNotFound, "Not found", err)
	case apperr.IsConflict(err):
		return ErrorResponse(c, fiber.StatusConflict, "Conflict", err)
	case apperr.IsState(err):
		return ErrorResponse(c, fiber.StatusConflict, "Invalid state", err)
	case errors.Is(err, apperr.ErrSequenceExhausted):
		return ErrorResponse(c, fiber.StatusConflict, "Sequence exhausted", err)
	default:
		return ErrorResponse(c, fiber.StatusInternalServerError, "Internal error", err)
	}
}
