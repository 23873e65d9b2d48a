package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lehae/lehae-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role is the per-request role variant resolved once from the profile.
type Role int

const (
	RoleTenant Role = iota
	RoleLandlord
)

// ResolveRole maps a profile onto its role variant.
func ResolveRole(profile *models.UserProfile) Role {
	if profile != nil && profile.IsLandlord {
		return RoleLandlord
	}
	return RoleTenant
}

// TokenPair is the issued credential pair, in the same shape the previous
// backend returned.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// UserSummary is the denormalized identity summary returned by login and
// profile reads.
type UserSummary struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsLandlord bool   `json:"is_landlord"`
}

// NewUserSummary builds the identity summary for a user with a resolved
// profile.
func NewUserSummary(user *models.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsLandlord: user.Profile != nil && user.Profile.IsLandlord,
	}
}

// ProfileInput is the nested profile payload on registration.
type ProfileInput struct {
	IsLandlord bool `json:"is_landlord"`
	IsVerified bool `json:"is_verified"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Profile  ProfileInput `json:"profile"`
}

// Register creates a User and its UserProfile atomically.
func Register(db *gorm.DB, in RegisterInput) (*models.User, error) {
	fields := make(map[string]string)
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		fields["username"] = "This field is required."
	}
	if email == "" {
		fields["email"] = "This field is required."
	}
	if in.Password == "" {
		fields["password"] = "This field is required."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// optimistic pre-check, the unique index is the backstop
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fieldError("username", "A user with that username already exists.")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Profile: &models.UserProfile{
			IsLandlord: in.Profile.IsLandlord,
			IsVerified: in.Profile.IsVerified,
		},
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, fieldError("username", "A user with that username already exists.")
		}
		return nil, err
	}

	return &user, nil
}

// Login resolves the identity by username OR email and verifies the
// password. When the identifier matches multiple accounts the first match
// is kept, preserving the behavior existing clients rely on. A missing
// profile is provisioned on success.
func Login(db *gorm.DB, identifier, password string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ? OR email = ?", identifier, identifier).
		Order("id").
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if _, err := EnsureProfile(db, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// EnsureProfile provisions a missing profile with is_landlord=false.
// Idempotent; invoked at the start of any authenticated path that needs the
// role.
func EnsureProfile(db *gorm.DB, user *models.User) (*models.UserProfile, error) {
	if user.Profile != nil {
		return user.Profile, nil
	}

	profile := models.UserProfile{UserID: user.ID}
	err := db.Where("user_id = ?", user.ID).FirstOrCreate(&profile).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			// concurrent provision, re-read
			if err2 := db.Where("user_id = ?", user.ID).First(&profile).Error; err2 != nil {
				return nil, err2
			}
		} else {
			return nil, err
		}
	}

	user.Profile = &profile
	return &profile, nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// IssueTokenPair signs an access/refresh JWT pair for the user.
func IssueTokenPair(secret []byte, userID uint64, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	access, err := signToken(secret, userID, tokenTypeAccess, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := signToken(secret, userID, tokenTypeRefresh, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Refresh: refresh, Access: access}, nil
}

func signToken(secret []byte, userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseAccessToken validates an access token and returns the user id.
func ParseAccessToken(secret []byte, tokenString string) (uint64, error) {
	return parseToken(secret, tokenString, tokenTypeAccess)
}

// ParseRefreshToken validates a refresh token and returns the user id.
func ParseRefreshToken(secret []byte, tokenString string) (uint64, error) {
	return parseToken(secret, tokenString, tokenTypeRefresh)
}

func parseToken(secret []byte, tokenString, wantType string) (uint64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != wantType {
		return 0, fmt.Errorf("unexpected token type")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, fmt.Errorf("missing user_id claim")
	}
	return uint64(userID), nil
}
