package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// PropertyHandler handles the property catalog routes.
type PropertyHandler struct {
	DB *gorm.DB
}

// List handles GET /api/properties
// @Summary List properties
// @Description Filtered, ordered, limited listing. Public; landlord=self requires a token.
// @Tags Properties
// @Produce json
// @Param status query string false "Exact status, or 'all'"
// @Param district query string false "Case-insensitive substring"
// @Param area query string false "Case-insensitive substring"
// @Param min_amount query string false "Inclusive lower bound on rental_amount"
// @Param max_amount query string false "Inclusive upper bound on rental_amount"
// @Param landlord query string false "'self' restricts to own listings"
// @Param is_approved query string false "Boolean string"
// @Param ordering query string false "Field name, '-' prefix for descending"
// @Param limit query int false "Truncate to first N"
// @Success 200 {array} services.PropertyView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /properties [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	filters := services.ListFilters{
		Status:      c.Query("status"),
		District:    c.Query("district"),
		Area:        c.Query("area"),
		MinAmount:   c.Query("min_amount"),
		MaxAmount:   c.Query("max_amount"),
		Landlord:    c.Query("landlord"),
		IsApproved:  c.Query("is_approved"),
		Ordering:    c.Query("ordering", "created_at"),
		Limit:       c.Query("limit"),
		RequesterID: requesterID(c),
	}

	properties, err := services.ListProperties(h.DB, filters)
	if err != nil {
		log.Printf("Property list failed: %v", err)
		return utils.InternalErrorResponse(c, "properties.list")
	}

	ids := make([]uint64, 0, len(properties))
	for i := range properties {
		ids = append(ids, properties[i].ID)
	}
	favorited, err := services.FavoritedSet(h.DB, filters.RequesterID, ids)
	if err != nil {
		log.Printf("Favorite lookup failed: %v", err)
		return utils.InternalErrorResponse(c, "properties.list")
	}

	views := make([]services.PropertyView, 0, len(properties))
	for i := range properties {
		views = append(views, services.NewPropertyView(&properties[i], c.BaseURL(), favorited[properties[i].ID]))
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// Create handles POST /api/properties
// @Summary Create a listing
// @Description Landlords only. Ownership and approval are server-forced.
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PropertyInput true "Listing payload"
// @Success 201 {object} services.PropertyView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	profile, err := services.EnsureProfile(h.DB, user)
	if err != nil {
		log.Printf("Profile provisioning failed for user %d: %v", user.ID, err)
		return utils.InternalErrorResponse(c, "properties.create")
	}
	if services.ResolveRole(profile) != services.RoleLandlord {
		log.Printf("Non-landlord %q attempted to create a property", user.Username)
		return utils.ForbiddenResponse(c, "Only landlords can create properties", "properties.create")
	}

	var in services.PropertyInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "properties.create")
	}

	property, err := services.CreateProperty(h.DB, user.ID, in)
	if err != nil {
		return respondServiceError(c, err, "properties.create", errMessages{
			notFound: "Property not found",
		})
	}
	property.Landlord = user

	return c.Status(fiber.StatusCreated).JSON(services.NewPropertyView(property, c.BaseURL(), false))
}

// Get handles GET /api/properties/:id
// @Summary Property detail
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} services.PropertyView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	property, err := services.GetProperty(h.DB, id)
	if err != nil {
		return respondServiceError(c, err, "properties.detail", errMessages{
			notFound: "Property not found",
		})
	}

	favorited, err := services.IsFavorited(h.DB, requesterID(c), property.ID)
	if err != nil {
		log.Printf("Favorite lookup failed: %v", err)
		return utils.InternalErrorResponse(c, "properties.detail")
	}

	return c.Status(fiber.StatusOK).JSON(services.NewPropertyView(property, c.BaseURL(), favorited))
}

// Update handles PUT/PATCH /api/properties/:id
// @Summary Update a listing
// @Description Owner only; partial semantics, read-only fields ignored.
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param body body services.PropertyInput true "Fields to change"
// @Success 200 {object} services.PropertyView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [put]
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var in services.PropertyInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "properties.update")
	}

	property, err := services.UpdateProperty(h.DB, id, user.ID, in)
	if err != nil {
		return respondServiceError(c, err, "properties.update", errMessages{
			notFound:  "Property not found",
			forbidden: "You do not have permission to update this property",
		})
	}

	favorited, _ := services.IsFavorited(h.DB, user.ID, property.ID)
	return c.Status(fiber.StatusOK).JSON(services.NewPropertyView(property, c.BaseURL(), favorited))
}

// Delete handles DELETE /api/properties/:id
// @Summary Delete a listing
// @Description Owner only; cascades to images, favorites, and messages.
// @Tags Properties
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := services.DeleteProperty(h.DB, id, user.ID); err != nil {
		return respondServiceError(c, err, "properties.delete", errMessages{
			notFound:  "Property not found",
			forbidden: "You do not have permission to delete this property",
		})
	}

	log.Printf("Property %d deleted by %q", id, user.Username)
	return c.SendStatus(fiber.StatusNoContent)
}
