package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// DashboardHandler handles the role-specific stats view.
type DashboardHandler struct {
	DB *gorm.DB
}

// Get handles GET /api/dashboard
// @Summary Role-specific dashboard
// @Description Landlords get property counts, tenants get favorite counts; both get recent inquiries.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Dashboard
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	// Aggregation failures surface as an opaque 500; internals are only
	// logged.
	profile, err := services.EnsureProfile(h.DB, user)
	if err != nil {
		log.Printf("Dashboard error for user %q: %v", user.Username, err)
		return utils.InternalErrorResponse(c, "dashboard")
	}

	dashboard, err := services.BuildDashboard(h.DB, user, services.ResolveRole(profile))
	if err != nil {
		log.Printf("Dashboard error for user %q: %v", user.Username, err)
		return utils.InternalErrorResponse(c, "dashboard")
	}

	return c.Status(fiber.StatusOK).JSON(dashboard)
}
