package models

import (
	"time"
)

// User represents an account on the platform. The password hash is never
// serialized.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:254;index" json:"email"`
	PasswordHash string `gorm:"size:128" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Profile *UserProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"profile,omitempty"`
}

// UserProfile carries the role and verification flags attached 1:1 to a User.
// Missing profiles are provisioned lazily on first authenticated access.
type UserProfile struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     uint64 `gorm:"uniqueIndex;not null" json:"-"`
	IsLandlord bool   `gorm:"not null;default:false" json:"is_landlord"`
	IsVerified bool   `gorm:"not null;default:false" json:"is_verified"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}
