package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/config"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login, token refresh, and the profile
// read.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func (h *AuthHandler) tokenPair(userID uint64) (services.TokenPair, error) {
	return services.IssueTokenPair([]byte(h.Cfg.JWTSecret), userID,
		h.Cfg.AccessTokenTTL, h.Cfg.RefreshTokenTTL)
}

// Register handles POST /api/register
// @Summary Register a new account
// @Description Creates a user and its profile atomically and returns a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration payload"
// @Success 201 {object} services.TokenPair
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.register")
	}

	user, err := services.Register(h.DB, in)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			log.Printf("Registration rejected for %q: %v", in.Username, err)
			return utils.ValidationErrorResponse(c, vErr.Fields)
		}
		log.Printf("Registration failed for %q: %v", in.Username, err)
		return utils.InternalErrorResponse(c, "auth.register")
	}

	pair, err := h.tokenPair(user.ID)
	if err != nil {
		log.Printf("Token issuance failed for user %d: %v", user.ID, err)
		return utils.InternalErrorResponse(c, "auth.register")
	}

	return c.Status(fiber.StatusCreated).JSON(pair)
}

// loginRequest is the login payload. The username field also accepts an
// email address.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/token
// @Summary Obtain a token pair
// @Description Authenticates by username or email and returns tokens plus an identity summary
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /token [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.login")
	}
	if req.Username == "" || req.Password == "" {
		return utils.ErrorResponse(c, "Please provide both username and password",
			fiber.StatusBadRequest, "auth.login")
	}

	user, err := services.Login(h.DB, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("Failed login for identifier %q", req.Username)
			return utils.ErrorResponse(c, "Invalid username or password",
				fiber.StatusUnauthorized, "auth.login")
		}
		log.Printf("Login failed for %q: %v", req.Username, err)
		return utils.InternalErrorResponse(c, "auth.login")
	}

	pair, err := h.tokenPair(user.ID)
	if err != nil {
		log.Printf("Token issuance failed for user %d: %v", user.ID, err)
		return utils.InternalErrorResponse(c, "auth.login")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"refresh": pair.Refresh,
		"access":  pair.Access,
		"user":    services.NewUserSummary(user),
	})
}

// Refresh handles POST /api/token/refresh
// @Summary Rotate a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} services.TokenPair
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /token/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return utils.ErrorResponse(c, "Refresh token required", fiber.StatusBadRequest, "auth.refresh")
	}

	userID, err := services.ParseRefreshToken([]byte(h.Cfg.JWTSecret), req.Refresh)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid or expired refresh token",
			fiber.StatusUnauthorized, "auth.refresh")
	}

	pair, err := h.tokenPair(userID)
	if err != nil {
		log.Printf("Token rotation failed for user %d: %v", userID, err)
		return utils.InternalErrorResponse(c, "auth.refresh")
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// GetProfile handles GET /api/profile
// @Summary Current identity summary
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.UserSummary
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if _, err := services.EnsureProfile(h.DB, user); err != nil {
		log.Printf("Profile provisioning failed for user %d: %v", user.ID, err)
		return utils.InternalErrorResponse(c, "auth.profile")
	}
	return c.Status(fiber.StatusOK).JSON(services.NewUserSummary(user))
}
