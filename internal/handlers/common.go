package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/middleware"
	"github.com/lehae/lehae-api/internal/models"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/types"
	"github.com/lehae/lehae-api/internal/utils"
)

// errMessages carries the per-endpoint denial wording for the shared error
// mapping.
type errMessages struct {
	notFound  string
	forbidden string
}

// respondServiceError maps service-layer errors onto the response envelope.
// Unexpected errors are logged and surfaced as an opaque 500.
func respondServiceError(c *fiber.Ctx, err error, errorType string, m errMessages) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return utils.ValidationErrorResponse(c, vErr.Fields)
	}
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, m.notFound)
	}
	if errors.Is(err, services.ErrForbidden) {
		actor := "anonymous"
		if user := middleware.CurrentUser(c); user != nil {
			actor = user.Username
		}
		log.Printf("User %q denied on %s", actor, c.OriginalURL())
		return utils.ForbiddenResponse(c, m.forbidden, errorType)
	}

	log.Printf("Unexpected error on %s: %v", c.OriginalURL(), err)
	return utils.InternalErrorResponse(c, errorType)
}

// requireUser returns the authenticated user. The auth middleware
// guarantees presence on protected routes; the nil check guards against
// misrouted handlers.
func requireUser(c *fiber.Ctx) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Authentication credentials were not provided",
			Type:    "authentication",
		}
	}
	return user, nil
}

// requesterID returns the authenticated user id, zero for anonymous.
func requesterID(c *fiber.Ctx) uint64 {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// idParam parses the :id path parameter.
func idParam(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NotFoundResponse(c, "Not found")
	}
	return id, nil
}
