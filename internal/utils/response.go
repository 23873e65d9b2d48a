package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends a standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// ValidationErrorResponse sends a 400 with field-level detail
func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":    fiber.StatusBadRequest,
		"message":   "Validation failed",
		"ok":        false,
		"errors":    fields,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      "validation",
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// ForbiddenResponse sends a 403 with an audit type label
func ForbiddenResponse(c *fiber.Ctx, message, errorType string) error {
	return ErrorResponse(c, message, fiber.StatusForbidden, errorType)
}

// InternalErrorResponse sends an opaque 500. The underlying cause is logged
// by the caller, never exposed to the client.
func InternalErrorResponse(c *fiber.Ctx, errorType string) error {
	return ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, errorType)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Ok        bool              `json:"ok"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp string            `json:"timestamp"`
	URL       string            `json:"url"`
	Type      string            `json:"type,omitempty"`
}
