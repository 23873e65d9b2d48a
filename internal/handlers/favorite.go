package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/types"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// FavoriteHandler handles the favorites routes.
type FavoriteHandler struct {
	DB *gorm.DB
}

// favoriteRequest identifies the target property for add/remove.
type favoriteRequest struct {
	Property types.FlexID `json:"property"`
}

// favoriteView embeds the property detail alongside the join row.
type favoriteView struct {
	ID             uint64                `json:"id"`
	User           uint64                `json:"user"`
	PropertyDetail services.PropertyView `json:"property_detail"`
}

// List handles GET /api/favorites
// @Summary List favorites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} object
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	favorites, err := services.ListFavorites(h.DB, user.ID)
	if err != nil {
		log.Printf("Favorite list failed for user %d: %v", user.ID, err)
		return utils.InternalErrorResponse(c, "favorites.list")
	}

	views := make([]favoriteView, 0, len(favorites))
	for i := range favorites {
		view := favoriteView{ID: favorites[i].ID, User: favorites[i].UserID}
		if favorites[i].Property != nil {
			view.PropertyDetail = services.NewPropertyView(favorites[i].Property, c.BaseURL(), true)
		}
		views = append(views, view)
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// Add handles POST /api/favorites
// @Summary Favorite a property
// @Description Idempotent: favoriting twice is a soft success.
// @Tags Favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /favorites [post]
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req favoriteRequest
	if err := c.BodyParser(&req); err != nil || req.Property == 0 {
		log.Printf("Missing property id on favorite add by %q", user.Username)
		return utils.ValidationErrorResponse(c, map[string]string{"property": "This field is required."})
	}

	favorite, created, err := services.AddFavorite(h.DB, user.ID, req.Property.Uint64())
	if err != nil {
		return respondServiceError(c, err, "favorites.add", errMessages{
			notFound: "Property not found",
		})
	}

	if !created {
		log.Printf("Property %d already favorited by %q", req.Property.Uint64(), user.Username)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Already favorited"})
	}

	log.Printf("Favorite added by %q for property %d", user.Username, favorite.PropertyID)
	return c.Status(fiber.StatusCreated).JSON(favorite)
}

// Remove handles DELETE /api/favorites
// @Summary Remove a favorite
// @Tags Favorites
// @Accept json
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /favorites [delete]
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req favoriteRequest
	if err := c.BodyParser(&req); err != nil || req.Property == 0 {
		return utils.ValidationErrorResponse(c, map[string]string{"property": "This field is required."})
	}

	if err := services.RemoveFavorite(h.DB, user.ID, req.Property.Uint64()); err != nil {
		log.Printf("Favorite not found for %q, property %d", user.Username, req.Property.Uint64())
		return respondServiceError(c, err, "favorites.remove", errMessages{
			notFound: "Favorite not found",
		})
	}

	log.Printf("Favorite removed by %q for property %d", user.Username, req.Property.Uint64())
	return c.SendStatus(fiber.StatusNoContent)
}
