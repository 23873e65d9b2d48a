package unit

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/handlers"
	"github.com/lehae/lehae-api/internal/middleware"
	"github.com/lehae/lehae-api/internal/models"
	"github.com/lehae/lehae-api/tests/helpers"
	"gorm.io/gorm"
)

// setupImageApp wires just the image routes with a known media root
func setupImageApp(t *testing.T, db *gorm.DB, mediaRoot string) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	authRequired := middleware.AuthRequired(db, []byte(helpers.TestJWTSecret))
	handler := &handlers.ImageHandler{DB: db, MediaRoot: mediaRoot}
	app.Post("/api/property-images", authRequired, handler.Upload)
	app.Delete("/api/property-images/:id", authRequired, handler.Delete)
	return app
}

// uploadImage posts a multipart body with an explicit part content type
func uploadImage(t *testing.T, app *fiber.App, token string, propertyID uint64, filename, contentType string, payload []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("property_id", fmt.Sprintf("%d", propertyID)); err != nil {
		t.Fatalf("Failed to write field: %v", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("Failed to write payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/property-images", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

// TestUploadImage tests POST /api/property-images
func TestUploadImage(t *testing.T) {
	db := setupTestDB(t)
	mediaRoot := t.TempDir()
	app := setupImageApp(t, db, mediaRoot)

	owner := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	property := helpers.CreateTestProperty(t, db, owner.ID, "Ha Abia", "Maseru", "1000")
	token := helpers.AccessToken(t, owner.ID)

	resp := uploadImage(t, app, token, property.ID, "front.png", "image/png", []byte("png-bytes"))
	helpers.AssertStatus(t, resp, 201)

	var view struct {
		ID       uint64 `json:"id"`
		ImageURL string `json:"image_url"`
	}
	helpers.ParseJSON(t, resp, &view)
	if view.ID == 0 || view.ImageURL == "" {
		t.Errorf("Unexpected image view: %+v", view)
	}

	// The file must exist under the media root
	var image models.PropertyImage
	if err := db.First(&image, view.ID).Error; err != nil {
		t.Fatalf("Image row missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mediaRoot, image.Image)); err != nil {
		t.Errorf("Stored file missing: %v", err)
	}
	if filepath.Dir(image.Image) != "property_images" {
		t.Errorf("Expected file under property_images/, got %q", image.Image)
	}
}

// TestUploadImageRejections covers content type, size, ownership, and the cap
func TestUploadImageRejections(t *testing.T) {
	db := setupTestDB(t)
	mediaRoot := t.TempDir()
	app := setupImageApp(t, db, mediaRoot)

	owner := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	stranger := helpers.CreateTestUser(t, db, "stranger", "stranger@lehae.test", helpers.GeneratePassword(), true)
	property := helpers.CreateTestProperty(t, db, owner.ID, "Ha Abia", "Maseru", "1000")
	token := helpers.AccessToken(t, owner.ID)

	// Unsupported content type
	resp := uploadImage(t, app, token, property.ID, "doc.gif", "image/gif", []byte("gif"))
	helpers.AssertStatus(t, resp, 400)

	// Not the owner
	resp = uploadImage(t, app, helpers.AccessToken(t, stranger.ID), property.ID, "a.png", "image/png", []byte("x"))
	helpers.AssertStatus(t, resp, 403)

	// Unknown property
	resp = uploadImage(t, app, token, 9999, "a.png", "image/png", []byte("x"))
	helpers.AssertStatus(t, resp, 404)

	// Cap of three per property
	for i := 0; i < models.MaxImagesPerProperty; i++ {
		row := models.PropertyImage{PropertyID: property.ID, Image: fmt.Sprintf("property_images/%d.jpg", i)}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to seed image row: %v", err)
		}
	}
	resp = uploadImage(t, app, token, property.ID, "fourth.png", "image/png", []byte("x"))
	helpers.AssertStatus(t, resp, 400)

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	helpers.ParseJSON(t, resp, &result)
	if result.Errors["image"] == "" {
		t.Error("Expected an image field error for the cap")
	}

	var count int64
	db.Model(&models.PropertyImage{}).Where("property_id = ?", property.ID).Count(&count)
	if count != models.MaxImagesPerProperty {
		t.Errorf("Expected %d images, found %d", models.MaxImagesPerProperty, count)
	}
}

// TestDeleteImage tests DELETE /api/property-images/:id
func TestDeleteImage(t *testing.T) {
	db := setupTestDB(t)
	mediaRoot := t.TempDir()
	app := setupImageApp(t, db, mediaRoot)

	owner := helpers.CreateTestUser(t, db, "owner", "owner@lehae.test", helpers.GeneratePassword(), true)
	stranger := helpers.CreateTestUser(t, db, "stranger", "stranger@lehae.test", helpers.GeneratePassword(), true)
	property := helpers.CreateTestProperty(t, db, owner.ID, "Ha Abia", "Maseru", "1000")

	relPath := filepath.Join("property_images", "gone.jpg")
	if err := os.MkdirAll(filepath.Join(mediaRoot, "property_images"), 0o755); err != nil {
		t.Fatalf("Failed to create media dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(mediaRoot, relPath), []byte("jpg"), 0o644); err != nil {
		t.Fatalf("Failed to write media file: %v", err)
	}
	image := models.PropertyImage{PropertyID: property.ID, Image: relPath}
	if err := db.Create(&image).Error; err != nil {
		t.Fatalf("Failed to create image row: %v", err)
	}

	url := fmt.Sprintf("/api/property-images/%d", image.ID)

	resp := helpers.DoJSON(t, app, "DELETE", url, helpers.AccessToken(t, stranger.ID), nil)
	helpers.AssertStatus(t, resp, 403)

	resp = helpers.DoJSON(t, app, "DELETE", url, helpers.AccessToken(t, owner.ID), nil)
	helpers.AssertStatus(t, resp, 204)

	var count int64
	db.Model(&models.PropertyImage{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected image row removed, found %d", count)
	}
	if _, err := os.Stat(filepath.Join(mediaRoot, relPath)); !os.IsNotExist(err) {
		t.Error("Expected media file removed")
	}

	resp = helpers.DoJSON(t, app, "DELETE", url, helpers.AccessToken(t, owner.ID), nil)
	helpers.AssertStatus(t, resp, 404)
}
