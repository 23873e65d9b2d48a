package services

import (
	"github.com/lehae/lehae-api/internal/models"
	"gorm.io/gorm"
)

// ListFavorites returns all favorites for userID with the property detail
// preloaded.
func ListFavorites(db *gorm.DB, userID uint64) ([]models.FavoriteProperty, error) {
	var favorites []models.FavoriteProperty
	err := db.Where("user_id = ?", userID).
		Preload("Property").
		Preload("Property.Images").
		Preload("Property.Landlord").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite bookmarks a property for userID. Idempotent: favoriting an
// already-favorited property reports created=false instead of an error.
// The composite unique index resolves concurrent duplicates.
func AddFavorite(db *gorm.DB, userID, propertyID uint64) (*models.FavoriteProperty, bool, error) {
	var propertyCount int64
	if err := db.Model(&models.Property{}).Where("id = ?", propertyID).Count(&propertyCount).Error; err != nil {
		return nil, false, err
	}
	if propertyCount == 0 {
		return nil, false, fieldError("property", "Invalid property.")
	}

	var existing models.FavoriteProperty
	err := db.Where("user_id = ? AND property_id = ?", userID, propertyID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	favorite := models.FavoriteProperty{UserID: userID, PropertyID: propertyID}
	if err := db.Create(&favorite).Error; err != nil {
		if isUniqueConstraintError(err) {
			// lost the race, the row exists now
			if err2 := db.Where("user_id = ? AND property_id = ?", userID, propertyID).First(&favorite).Error; err2 != nil {
				return nil, false, err2
			}
			return &favorite, false, nil
		}
		return nil, false, err
	}
	return &favorite, true, nil
}

// RemoveFavorite deletes the favorite of propertyID for userID.
func RemoveFavorite(db *gorm.DB, userID, propertyID uint64) error {
	result := db.Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.FavoriteProperty{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
