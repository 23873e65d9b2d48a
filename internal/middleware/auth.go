package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/models"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/types"
	"gorm.io/gorm"
)

// CurrentUserKey is the Locals key under which the authenticated user is
// stored.
const CurrentUserKey = "currentUser"

// AuthRequired validates the bearer access token and loads the user into
// the request context.
func AuthRequired(db *gorm.DB, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, db, secret)
		if err != nil {
			return err
		}
		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// AuthOptional loads the user when a valid bearer token is present and
// continues anonymously otherwise.
func AuthOptional(db *gorm.DB, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if bearerToken(c) != "" {
			if user, err := authenticate(c, db, secret); err == nil {
				c.Locals(CurrentUserKey, user)
			}
		}
		return c.Next()
	}
}

// AdminRequired validates the token and additionally requires the admin
// flag. Denials are logged with the actor for audit.
func AdminRequired(db *gorm.DB, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, db, secret)
		if err != nil {
			return err
		}
		if !user.IsAdmin {
			log.Printf("User %q denied admin access to %s", user.Username, c.OriginalURL())
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "You do not have permission to perform this action",
				Type:    "authorization.admin",
			}
		}
		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user from the request context, or
// nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return header[len("Bearer "):]
}

func authenticate(c *fiber.Ctx, db *gorm.DB, secret []byte) (*models.User, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Authentication credentials were not provided",
			Type:    "authentication",
		}
	}

	userID, err := services.ParseAccessToken(secret, tokenString)
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Invalid or expired token",
			Type:    "authentication",
		}
	}

	var user models.User
	if err := db.Preload("Profile").First(&user, userID).Error; err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Invalid or expired token",
			Type:    "authentication",
		}
	}
	if !user.IsActive {
		log.Printf("Inactive user %q rejected on %s", user.Username, c.OriginalURL())
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Invalid or expired token",
			Type:    "authentication",
		}
	}

	return &user, nil
}
