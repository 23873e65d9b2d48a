package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// UserHandler exposes the tenant directory to authenticated users.
type UserHandler struct {
	DB *gorm.DB
}

// ListTenants handles GET /api/tenants
// @Summary List tenant accounts
// @Description Users whose profile is not marked landlord, including users without a profile.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} object
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /tenants [get]
func (h *UserHandler) ListTenants(c *fiber.Ctx) error {
	tenants, err := services.ListTenants(h.DB)
	if err != nil {
		return utils.InternalErrorResponse(c, "tenants")
	}
	return c.Status(fiber.StatusOK).JSON(tenants)
}

// GetTenant handles GET /api/tenants/:id
// @Summary Tenant detail
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tenants/{id} [get]
func (h *UserHandler) GetTenant(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	tenant, err := services.GetTenant(h.DB, id)
	if err != nil {
		return respondServiceError(c, err, "tenants", errMessages{notFound: "Tenant not found"})
	}
	return c.Status(fiber.StatusOK).JSON(tenant)
}
