package unit

import (
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/config"
	"github.com/lehae/lehae-api/internal/database"
	"github.com/lehae/lehae-api/internal/handlers"
	"github.com/lehae/lehae-api/internal/middleware"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/types"
	"github.com/lehae/lehae-api/tests/helpers"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// testConfig returns the config used by test apps
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:       helpers.TestJWTSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		MediaRoot:       t.TempDir(),
		MailFrom:        "noreply@lehae.test",
		ContactEmail:    "info@lehae.test",
	}
}

// newTestApp wires the full route surface against db, mirroring the server
// entrypoint. The contact route sends no mail.
func newTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	cfg := testConfig(t)

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})

	secret := []byte(cfg.JWTSecret)
	authRequired := middleware.AuthRequired(db, secret)
	authOptional := middleware.AuthOptional(db, secret)
	adminRequired := middleware.AdminRequired(db, secret)

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	propertyHandler := &handlers.PropertyHandler{DB: db}
	imageHandler := &handlers.ImageHandler{DB: db, MediaRoot: cfg.MediaRoot}
	favoriteHandler := &handlers.FavoriteHandler{DB: db}
	contactHandler := &handlers.ContactHandler{
		DB:           db,
		MailFrom:     cfg.MailFrom,
		ContactEmail: cfg.ContactEmail,
	}
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/token", authHandler.Login)
	api.Post("/token/refresh", authHandler.Refresh)
	api.Get("/profile", authRequired, authHandler.GetProfile)

	api.Get("/properties", authOptional, propertyHandler.List)
	api.Post("/properties", authRequired, propertyHandler.Create)
	api.Get("/properties/:id", authOptional, propertyHandler.Get)
	api.Put("/properties/:id", authRequired, propertyHandler.Update)
	api.Patch("/properties/:id", authRequired, propertyHandler.Update)
	api.Delete("/properties/:id", authRequired, propertyHandler.Delete)

	api.Post("/property-images", authRequired, imageHandler.Upload)
	api.Delete("/property-images/:id", authRequired, imageHandler.Delete)

	api.Get("/favorites", authRequired, favoriteHandler.List)
	api.Post("/favorites", authRequired, favoriteHandler.Add)
	api.Delete("/favorites", authRequired, favoriteHandler.Remove)

	api.Post("/contact", contactHandler.Create)

	api.Get("/dashboard", authRequired, dashboardHandler.Get)

	api.Get("/tenants", authRequired, userHandler.ListTenants)
	api.Get("/tenants/:id", authRequired, userHandler.GetTenant)

	api.Get("/users", adminRequired, adminHandler.ListUsers)
	api.Post("/users", adminRequired, adminHandler.CreateUser)
	api.Get("/users/:id", adminRequired, adminHandler.GetUser)
	api.Put("/users/:id", adminRequired, adminHandler.UpdateUser)
	api.Patch("/users/:id", adminRequired, adminHandler.UpdateUser)
	api.Delete("/users/:id", adminRequired, adminHandler.DeleteUser)
	api.Put("/users/:id/verify", adminRequired, adminHandler.VerifyUser)
	api.Get("/reports", adminRequired, adminHandler.GetReport)

	return app
}

// testErrorHandler mirrors the server's global error mapping
func testErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  code,
		"message": message,
		"ok":      false,
	})
}

// recordingMailer captures outbound mail for assertions
type recordingMailer struct {
	Subjects []string
	Bodies   []string
	To       []string
	Err      error
}

func (m *recordingMailer) Send(subject, body, from, to string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Subjects = append(m.Subjects, subject)
	m.Bodies = append(m.Bodies, body)
	m.To = append(m.To, to)
	return nil
}

var _ services.Mailer = (*recordingMailer)(nil)
