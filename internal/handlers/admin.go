package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles user administration and reporting.
type AdminHandler struct {
	DB *gorm.DB
}

// ListUsers handles GET /api/users
// @Summary List all users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} object
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB)
	if err != nil {
		log.Printf("User list failed: %v", err)
		return utils.InternalErrorResponse(c, "admin.users")
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	admin, err := requireUser(c)
	if err != nil {
		return err
	}

	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "admin.users")
	}

	user, err := services.Register(h.DB, in)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return utils.ValidationErrorResponse(c, vErr.Fields)
		}
		log.Printf("User creation by admin %q failed: %v", admin.Username, err)
		return utils.InternalErrorResponse(c, "admin.users")
	}

	log.Printf("User %q created by admin %q", user.Username, admin.Username)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:id
// @Summary User detail
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	user, err := services.GetUser(h.DB, id)
	if err != nil {
		return respondServiceError(c, err, "admin.users", errMessages{notFound: "User not found"})
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateUser handles PUT/PATCH /api/users/:id
// @Summary Partially update a user
// @Description Nested profile fields are merged; a supplied password is re-hashed.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	admin, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var in services.UserUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "admin.users")
	}

	user, err := services.UpdateUser(h.DB, id, in)
	if err != nil {
		return respondServiceError(c, err, "admin.users", errMessages{notFound: "User not found"})
	}

	log.Printf("User %q updated by admin %q", user.Username, admin.Username)
	return c.Status(fiber.StatusOK).JSON(user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user
// @Description Cascades to the profile and all owned listings.
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	admin, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := services.DeleteUser(h.DB, id); err != nil {
		return respondServiceError(c, err, "admin.users", errMessages{notFound: "User not found"})
	}

	log.Printf("User %d deleted by admin %q", id, admin.Username)
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyUser handles PUT /api/users/:id/verify
// @Summary Toggle verification flags
// @Description Same partial-update path as UpdateUser, semantically scoped to verification.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/verify [put]
func (h *AdminHandler) VerifyUser(c *fiber.Ctx) error {
	admin, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var in services.UserUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "admin.verify")
	}

	user, err := services.UpdateUser(h.DB, id, in)
	if err != nil {
		return respondServiceError(c, err, "admin.verify", errMessages{notFound: "User not found"})
	}

	log.Printf("User %q verified by admin %q", user.Username, admin.Username)
	return c.Status(fiber.StatusOK).JSON(user)
}

// GetReport handles GET /api/reports
// @Summary Aggregate report
// @Description Recently updated listings plus property and user totals.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Report
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /reports [get]
func (h *AdminHandler) GetReport(c *fiber.Ctx) error {
	report, err := services.BuildReport(h.DB, c.BaseURL())
	if err != nil {
		log.Printf("Report build failed: %v", err)
		return utils.InternalErrorResponse(c, "admin.reports")
	}
	return c.Status(fiber.StatusOK).JSON(report)
}
