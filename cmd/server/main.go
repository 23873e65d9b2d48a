package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/lehae/lehae-api/internal/config"
	"github.com/lehae/lehae-api/internal/database"
	"github.com/lehae/lehae-api/internal/handlers"
	"github.com/lehae/lehae-api/internal/middleware"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/types"

	_ "github.com/lehae/lehae-api/docs/api" // Swagger docs
)

// @title Lehae API
// @version 1.0.0
// @description Property rental listing service for landlords and tenants
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email info@lehae.com

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the admin account when configured
	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    8 * 1024 * 1024, // uploads are capped below this in the image service
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("lehae")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Dev-only static serving of uploaded media
	if cfg.ServeMedia {
		app.Static("/media", cfg.MediaRoot)
	}

	secret := []byte(cfg.JWTSecret)
	authRequired := middleware.AuthRequired(db, secret)
	authOptional := middleware.AuthOptional(db, secret)
	adminRequired := middleware.AdminRequired(db, secret)

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	propertyHandler := &handlers.PropertyHandler{DB: db}
	imageHandler := &handlers.ImageHandler{DB: db, MediaRoot: cfg.MediaRoot}
	favoriteHandler := &handlers.FavoriteHandler{DB: db}
	contactHandler := &handlers.ContactHandler{
		DB:           db,
		Mailer:       mailerFor(cfg),
		MailFrom:     cfg.MailFrom,
		ContactEmail: cfg.ContactEmail,
	}
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}

	// API routes under /api
	api := app.Group("/api")

	// Auth routes
	api.Post("/register", authHandler.Register)
	api.Post("/token", authHandler.Login)
	api.Post("/token/refresh", authHandler.Refresh)
	api.Get("/profile", authRequired, authHandler.GetProfile)

	// Property routes (public browse, landlord-only writes)
	api.Get("/properties", authOptional, propertyHandler.List)
	api.Post("/properties", authRequired, propertyHandler.Create)
	api.Get("/properties/:id", authOptional, propertyHandler.Get)
	api.Put("/properties/:id", authRequired, propertyHandler.Update)
	api.Patch("/properties/:id", authRequired, propertyHandler.Update)
	api.Delete("/properties/:id", authRequired, propertyHandler.Delete)

	// Property image routes
	api.Post("/property-images", authRequired, imageHandler.Upload)
	api.Delete("/property-images/:id", authRequired, imageHandler.Delete)

	// Favorite routes
	api.Get("/favorites", authRequired, favoriteHandler.List)
	api.Post("/favorites", authRequired, favoriteHandler.Add)
	api.Delete("/favorites", authRequired, favoriteHandler.Remove)

	// Contact form (public)
	api.Post("/contact", contactHandler.Create)

	// Dashboard
	api.Get("/dashboard", authRequired, dashboardHandler.Get)

	// Tenant directory
	api.Get("/tenants", authRequired, userHandler.ListTenants)
	api.Get("/tenants/:id", authRequired, userHandler.GetTenant)

	// Admin-only user management and reporting
	api.Get("/users", adminRequired, adminHandler.ListUsers)
	api.Post("/users", adminRequired, adminHandler.CreateUser)
	api.Get("/users/:id", adminRequired, adminHandler.GetUser)
	api.Put("/users/:id", adminRequired, adminHandler.UpdateUser)
	api.Patch("/users/:id", adminRequired, adminHandler.UpdateUser)
	api.Delete("/users/:id", adminRequired, adminHandler.DeleteUser)
	api.Put("/users/:id/verify", adminRequired, adminHandler.VerifyUser)
	api.Get("/reports", adminRequired, adminHandler.GetReport)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// mailerFor returns the configured SMTP mailer, or nil when mail is disabled.
func mailerFor(cfg *config.Config) services.Mailer {
	m := services.NewSMTPMailer(cfg)
	if m == nil {
		log.Println("SMTP not configured, contact notifications disabled")
		return nil
	}
	return m
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
