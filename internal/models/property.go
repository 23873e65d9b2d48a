package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Property status lifecycle values.
const (
	StatusInactive = "inactive"
	StatusVacant   = "vacant"
	StatusOccupied = "occupied"
)

// ValidStatus reports whether s is one of the recognized property statuses.
func ValidStatus(s string) bool {
	return s == StatusInactive || s == StatusVacant || s == StatusOccupied
}

// Property is a rental listing owned by exactly one landlord.
// Image holds the primary image as a media-relative path; absolute URLs
// are derived per request.
type Property struct {
	ID           uint64              `gorm:"primaryKey;autoIncrement" json:"id"`
	LandlordID   uint64              `gorm:"not null;index" json:"landlord"`
	Landlord     *User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Area         string              `gorm:"size:100;not null" json:"area"`
	District     string              `gorm:"size:100;not null" json:"district"`
	RentalAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"rental_amount"`
	Deposit      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"deposit"`
	ViewingFee   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"viewing_fee"`
	Status       string              `gorm:"size:20;not null;default:vacant" json:"status"`
	Description  string              `gorm:"type:text" json:"description"`
	Image        string              `gorm:"size:255" json:"-"`
	Amenities    datatypes.JSON      `gorm:"type:json" json:"amenities,omitempty"`
	IsApproved   bool                `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Images []PropertyImage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// PropertyImage is a secondary image attached to a Property. A property
// carries at most MaxImagesPerProperty of these.
type PropertyImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint64    `gorm:"not null;index" json:"property"`
	Image      string    `gorm:"size:255;not null" json:"-"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// MaxImagesPerProperty caps the secondary images per listing.
const MaxImagesPerProperty = 3

// FavoriteProperty joins a user to a bookmarked property. The composite
// unique index is the authoritative backstop for the at-most-once invariant.
type FavoriteProperty struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_user_property" json:"user"`
	PropertyID uint64    `gorm:"not null;uniqueIndex:idx_user_property" json:"-"`
	Property   *Property `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ContactMessage is an unauthenticated inquiry about a Property. The sender
// is free text and is not validated against a User.
type ContactMessage struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID  uint64    `gorm:"not null;index" json:"property"`
	Property    *Property `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TenantName  string    `gorm:"size:100;not null" json:"tenant_name"`
	TenantEmail string    `gorm:"size:254;not null" json:"tenant_email"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides the table name for Property
func (Property) TableName() string {
	return "properties"
}

// TableName overrides the table name for PropertyImage
func (PropertyImage) TableName() string {
	return "property_images"
}

// TableName overrides the table name for FavoriteProperty
func (FavoriteProperty) TableName() string {
	return "favorite_properties"
}

// TableName overrides the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}
