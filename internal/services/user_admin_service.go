package services

import (
	"strings"

	"github.com/lehae/lehae-api/internal/models"
	"gorm.io/gorm"
)

// ProfileUpdateInput is the nested partial profile patch.
type ProfileUpdateInput struct {
	IsLandlord *bool `json:"is_landlord"`
	IsVerified *bool `json:"is_verified"`
}

// UserUpdateInput is the admin partial-update payload. A supplied password
// is hashed before storage, never patched blindly.
type UserUpdateInput struct {
	Username *string             `json:"username"`
	Email    *string             `json:"email"`
	Password *string             `json:"password"`
	IsActive *bool               `json:"is_active"`
	Profile  *ProfileUpdateInput `json:"profile"`
}

// ListUsers returns all users with profiles preloaded.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Preload("Profile").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser loads one user with its profile.
func GetUser(db *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	err := db.Preload("Profile").First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update, merging a nested profile patch into
// the existing (ensured) profile. Verification toggling goes through the
// same path.
func UpdateUser(db *gorm.DB, id uint64, in UserUpdateInput) (*models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fieldError("username", "Username cannot be blank.")
		}
		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ? AND id <> ?", username, user.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fieldError("username", "A user with that username already exists.")
		}
		user.Username = username
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if in.Profile == nil {
			return nil
		}
		profile, err := EnsureProfile(tx, user)
		if err != nil {
			return err
		}
		if in.Profile.IsLandlord != nil {
			profile.IsLandlord = *in.Profile.IsLandlord
		}
		if in.Profile.IsVerified != nil {
			profile.IsVerified = *in.Profile.IsVerified
		}
		return tx.Save(profile).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fieldError("username", "A user with that username already exists.")
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user and cascades to its profile, properties (and
// their images, favorites, and messages), and favorites.
func DeleteUser(db *gorm.DB, id uint64) error {
	user, err := GetUser(db, id)
	if err != nil {
		return err
	}

	var propertyIDs []uint64
	if err := db.Model(&models.Property{}).Where("landlord_id = ?", user.ID).Pluck("id", &propertyIDs).Error; err != nil {
		return err
	}
	for _, propertyID := range propertyIDs {
		if err := deletePropertyCascade(db, propertyID); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.FavoriteProperty{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
}

// ListTenants returns the non-landlord users.
func ListTenants(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Preload("Profile").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("user_profiles.is_landlord = ? OR user_profiles.id IS NULL", false).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetTenant loads one non-landlord user.
func GetTenant(db *gorm.DB, id uint64) (*models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}
	if user.Profile != nil && user.Profile.IsLandlord {
		return nil, ErrNotFound
	}
	return user, nil
}

// CountUsers returns the total user count for reporting.
func CountUsers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}
