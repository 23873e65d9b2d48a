package helpers

import (
	"testing"

	"github.com/lehae/lehae-api/internal/models"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateTestUser creates an active user with a profile
func CreateTestUser(t *testing.T, db *gorm.DB, username, email, password string, landlord bool) *models.User {
	t.Helper()
	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Profile:      &models.UserProfile{IsLandlord: landlord},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

// CreateTestAdmin creates an active admin user
func CreateTestAdmin(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	user := CreateTestUser(t, db, username, username+"@lehae.test", password, false)
	user.IsAdmin = true
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("Failed to promote user %s: %v", username, err)
	}
	return user
}

// CreateTestProperty creates a vacant property owned by landlordID
func CreateTestProperty(t *testing.T, db *gorm.DB, landlordID uint64, area, district, rental string) *models.Property {
	t.Helper()
	amount, err := decimal.NewFromString(rental)
	if err != nil {
		t.Fatalf("Invalid rental amount %s: %v", rental, err)
	}
	property := models.Property{
		LandlordID:   landlordID,
		Area:         area,
		District:     district,
		RentalAmount: amount,
		Status:       models.StatusVacant,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}
	return &property
}

// CreateTestContactMessage creates an inquiry against a property
func CreateTestContactMessage(t *testing.T, db *gorm.DB, propertyID uint64, name, email, body string) *models.ContactMessage {
	t.Helper()
	message := models.ContactMessage{
		PropertyID:  propertyID,
		TenantName:  name,
		TenantEmail: email,
		Message:     body,
	}
	if err := db.Create(&message).Error; err != nil {
		t.Fatalf("Failed to create contact message: %v", err)
	}
	return &message
}

// CreateTestFavorite links a user to a property
func CreateTestFavorite(t *testing.T, db *gorm.DB, userID, propertyID uint64) *models.FavoriteProperty {
	t.Helper()
	favorite := models.FavoriteProperty{UserID: userID, PropertyID: propertyID}
	if err := db.Create(&favorite).Error; err != nil {
		t.Fatalf("Failed to create favorite: %v", err)
	}
	return &favorite
}
