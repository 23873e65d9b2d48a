package unit

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/handlers"
	"github.com/lehae/lehae-api/internal/models"
	"github.com/lehae/lehae-api/tests/helpers"
	"gorm.io/gorm"
)

// TestAddFavorite tests POST /api/favorites and its idempotency
func TestAddFavorite(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	landlord := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	tenant := helpers.CreateTestUser(t, db, "renter", "renter@lehae.test", helpers.GeneratePassword(), false)
	property := helpers.CreateTestProperty(t, db, landlord.ID, "Ha Abia", "Maseru", "1000")
	token := helpers.AccessToken(t, tenant.ID)

	resp := helpers.DoJSON(t, app, "POST", "/api/favorites", token, map[string]interface{}{
		"property": property.ID,
	})
	helpers.AssertStatus(t, resp, 201)

	// Same property again is a soft success, not a duplicate
	resp = helpers.DoJSON(t, app, "POST", "/api/favorites", token, map[string]interface{}{
		"property": property.ID,
	})
	helpers.AssertStatus(t, resp, 200)

	var result struct {
		Message string `json:"message"`
	}
	helpers.ParseJSON(t, resp, &result)
	if result.Message != "Already favorited" {
		t.Errorf("Expected 'Already favorited', got %q", result.Message)
	}

	var count int64
	db.Model(&models.FavoriteProperty{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one favorite row, found %d", count)
	}

	// String ids are accepted too
	other := helpers.CreateTestProperty(t, db, landlord.ID, "Hlotse", "Leribe", "2000")
	resp = helpers.DoJSON(t, app, "POST", "/api/favorites", token, map[string]interface{}{
		"property": strconv.FormatUint(other.ID, 10),
	})
	helpers.AssertStatus(t, resp, 201)
}

// TestAddFavoriteRejections covers missing and unknown property ids
func TestAddFavoriteRejections(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	tenant := helpers.CreateTestUser(t, db, "renter", "renter@lehae.test", helpers.GeneratePassword(), false)
	token := helpers.AccessToken(t, tenant.ID)

	resp := helpers.DoJSON(t, app, "POST", "/api/favorites", token, map[string]interface{}{})
	helpers.AssertStatus(t, resp, 400)

	resp = helpers.DoJSON(t, app, "POST", "/api/favorites", token, map[string]interface{}{
		"property": 9999,
	})
	helpers.AssertStatus(t, resp, 400)

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	helpers.ParseJSON(t, resp, &result)
	if result.Errors["property"] == "" {
		t.Error("Expected a property field error")
	}
}

// TestListFavorites tests GET /api/favorites
func TestListFavorites(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	landlord := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	tenant := helpers.CreateTestUser(t, db, "renter", "renter@lehae.test", helpers.GeneratePassword(), false)
	other := helpers.CreateTestUser(t, db, "other", "other@lehae.test", helpers.GeneratePassword(), false)

	property := helpers.CreateTestProperty(t, db, landlord.ID, "Ha Abia", "Maseru", "1000")
	helpers.CreateTestFavorite(t, db, tenant.ID, property.ID)
	helpers.CreateTestFavorite(t, db, other.ID, property.ID)

	resp := helpers.DoJSON(t, app, "GET", "/api/favorites", helpers.AccessToken(t, tenant.ID), nil)
	helpers.AssertStatus(t, resp, 200)

	var views []struct {
		ID             uint64 `json:"id"`
		User           uint64 `json:"user"`
		PropertyDetail struct {
			ID          uint64 `json:"id"`
			IsFavorited bool   `json:"is_favorited"`
			Area        string `json:"area"`
		} `json:"property_detail"`
	}
	helpers.ParseJSON(t, resp, &views)
	if len(views) != 1 {
		t.Fatalf("Expected 1 favorite, got %d", len(views))
	}
	if views[0].User != tenant.ID || views[0].PropertyDetail.ID != property.ID {
		t.Errorf("Unexpected favorite view: %+v", views[0])
	}
	if !views[0].PropertyDetail.IsFavorited {
		t.Error("Expected the embedded property to be marked favorited")
	}
}

// TestRemoveFavorite tests DELETE /api/favorites
func TestRemoveFavorite(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	landlord := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	tenant := helpers.CreateTestUser(t, db, "renter", "renter@lehae.test", helpers.GeneratePassword(), false)
	property := helpers.CreateTestProperty(t, db, landlord.ID, "Ha Abia", "Maseru", "1000")
	helpers.CreateTestFavorite(t, db, tenant.ID, property.ID)
	token := helpers.AccessToken(t, tenant.ID)

	resp := helpers.DoJSON(t, app, "DELETE", "/api/favorites", token, map[string]interface{}{
		"property": property.ID,
	})
	helpers.AssertStatus(t, resp, 204)

	// Removing again is a 404, not a silent success
	resp = helpers.DoJSON(t, app, "DELETE", "/api/favorites", token, map[string]interface{}{
		"property": property.ID,
	})
	helpers.AssertStatus(t, resp, 404)
}

// setupContactApp wires the contact route with a capturing mailer
func setupContactApp(t *testing.T, db *gorm.DB, mailer *recordingMailer) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	handler := &handlers.ContactHandler{
		DB:           db,
		Mailer:       mailer,
		MailFrom:     "noreply@lehae.test",
		ContactEmail: "info@lehae.test",
	}
	app.Post("/api/contact", handler.Create)
	return app
}

// TestCreateContactMessage tests POST /api/contact
func TestCreateContactMessage(t *testing.T) {
	db := setupTestDB(t)
	mailer := &recordingMailer{}
	app := setupContactApp(t, db, mailer)

	landlord := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	property := helpers.CreateTestProperty(t, db, landlord.ID, "Ha Abia", "Maseru", "1000")

	resp := helpers.DoJSON(t, app, "POST", "/api/contact", "", map[string]interface{}{
		"property":     property.ID,
		"tenant_name":  "Neo",
		"tenant_email": "neo@lehae.test",
		"message":      "Is this still available?",
	})
	helpers.AssertStatus(t, resp, 201)

	var message struct {
		ID         uint64 `json:"id"`
		TenantName string `json:"tenant_name"`
	}
	helpers.ParseJSON(t, resp, &message)
	if message.TenantName != "Neo" {
		t.Errorf("Unexpected message: %+v", message)
	}

	// The operator notification was sent
	if len(mailer.To) != 1 || mailer.To[0] != "info@lehae.test" {
		t.Errorf("Expected one notification to the operator, got %+v", mailer.To)
	}
	if len(mailer.Bodies) == 1 && !strings.Contains(mailer.Bodies[0], "Neo") {
		t.Errorf("Expected sender in notification body, got %q", mailer.Bodies[0])
	}
}

// TestContactMessageMailFailureSwallowed verifies mail errors never fail the request
func TestContactMessageMailFailureSwallowed(t *testing.T) {
	db := setupTestDB(t)
	mailer := &recordingMailer{Err: errors.New("relay down")}
	app := setupContactApp(t, db, mailer)

	landlord := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	property := helpers.CreateTestProperty(t, db, landlord.ID, "Ha Abia", "Maseru", "1000")

	resp := helpers.DoJSON(t, app, "POST", "/api/contact", "", map[string]interface{}{
		"property":     property.ID,
		"tenant_name":  "Neo",
		"tenant_email": "neo@lehae.test",
		"message":      "Hello",
	})
	helpers.AssertStatus(t, resp, 201)

	var count int64
	db.Model(&models.ContactMessage{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected message persisted despite mail failure, found %d", count)
	}
}

// TestContactMessageValidation covers required fields and unknown properties
func TestContactMessageValidation(t *testing.T) {
	db := setupTestDB(t)
	app := setupContactApp(t, db, &recordingMailer{})

	resp := helpers.DoJSON(t, app, "POST", "/api/contact", "", map[string]interface{}{})
	helpers.AssertStatus(t, resp, 400)

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	helpers.ParseJSON(t, resp, &result)
	for _, field := range []string{"property", "tenant_name", "tenant_email", "message"} {
		if result.Errors[field] == "" {
			t.Errorf("Expected a %s field error", field)
		}
	}

	resp = helpers.DoJSON(t, app, "POST", "/api/contact", "", map[string]interface{}{
		"property":     9999,
		"tenant_name":  "Neo",
		"tenant_email": "neo@lehae.test",
		"message":      "Hello",
	})
	helpers.AssertStatus(t, resp, 400)
}
