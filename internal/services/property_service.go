package services

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lehae/lehae-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListFilters are the raw, optional query parameters of the property list
// endpoint. RequesterID is zero for anonymous requests.
type ListFilters struct {
	Status     string
	District   string
	Area       string
	MinAmount  string
	MaxAmount  string
	Landlord   string
	IsApproved string
	Ordering   string
	Limit      string

	RequesterID uint64
}

// orderableColumns whitelists the fields accepted by the ordering parameter.
var orderableColumns = map[string]string{
	"id":            "id",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"rental_amount": "rental_amount",
	"area":          "area",
	"district":      "district",
	"status":        "status",
}

// orderClause resolves the ordering parameter to a SQL order clause.
// A leading '-' means descending. Unknown fields fall back to the default
// created_at ordering rather than leaking arbitrary SQL.
func orderClause(ordering string) string {
	desc := false
	field := strings.TrimSpace(ordering)
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}
	column, ok := orderableColumns[field]
	if !ok {
		column = "created_at"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// ListProperties applies the conjunctive filter set, then ordering, then the
// limit. Invalid numeric parameters are ignored rather than rejected.
func ListProperties(db *gorm.DB, f ListFilters) ([]models.Property, error) {
	q := db.Model(&models.Property{}).Preload("Images").Preload("Landlord")

	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.District != "" {
		q = q.Where("LOWER(district) LIKE ?", "%"+strings.ToLower(f.District)+"%")
	}
	if f.Area != "" {
		q = q.Where("LOWER(area) LIKE ?", "%"+strings.ToLower(f.Area)+"%")
	}
	if f.MinAmount != "" {
		if min, err := decimal.NewFromString(f.MinAmount); err == nil {
			q = q.Where("rental_amount >= ?", min)
		} else {
			log.Printf("Invalid min_amount parameter: %q", f.MinAmount)
		}
	}
	if f.MaxAmount != "" {
		if max, err := decimal.NewFromString(f.MaxAmount); err == nil {
			q = q.Where("rental_amount <= ?", max)
		} else {
			log.Printf("Invalid max_amount parameter: %q", f.MaxAmount)
		}
	}
	// landlord=self is silently ignored for anonymous requesters
	if f.Landlord == "self" && f.RequesterID != 0 {
		q = q.Where("landlord_id = ?", f.RequesterID)
	}
	if f.IsApproved != "" {
		q = q.Where("is_approved = ?", strings.EqualFold(f.IsApproved, "true"))
	}

	ordering := f.Ordering
	if ordering == "" {
		ordering = "created_at"
	}
	q = q.Order(orderClause(ordering))

	if f.Limit != "" {
		if n, err := strconv.Atoi(f.Limit); err == nil && n >= 0 {
			q = q.Limit(n)
		} else {
			log.Printf("Invalid limit parameter: %q", f.Limit)
		}
	}

	var properties []models.Property
	if err := q.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// PropertyInput is the create/update payload. Nil pointers mean "field not
// supplied" so updates keep prior values. Landlord, approval, and timestamps
// are read-only and have no input fields.
type PropertyInput struct {
	Area         *string          `json:"area"`
	District     *string          `json:"district"`
	RentalAmount *decimal.Decimal `json:"rental_amount"`
	Deposit      *decimal.Decimal `json:"deposit"`
	ViewingFee   *decimal.Decimal `json:"viewing_fee"`
	Status       *string          `json:"status"`
	Description  *string          `json:"description"`
	Amenities    json.RawMessage  `json:"amenities"`
}

// validatePropertyInput enforces the numeric and status invariants on every
// write.
func validatePropertyInput(in PropertyInput, creating bool) *ValidationError {
	fields := make(map[string]string)

	if creating {
		if in.Area == nil || strings.TrimSpace(*in.Area) == "" {
			fields["area"] = "This field is required."
		}
		if in.District == nil || strings.TrimSpace(*in.District) == "" {
			fields["district"] = "This field is required."
		}
		if in.RentalAmount == nil {
			fields["rental_amount"] = "This field is required."
		}
	}
	if in.RentalAmount != nil && !in.RentalAmount.IsPositive() {
		fields["rental_amount"] = "Rental amount must be greater than 0."
	}
	if in.Deposit != nil && in.Deposit.IsNegative() {
		fields["deposit"] = "Deposit cannot be negative."
	}
	if in.ViewingFee != nil && in.ViewingFee.IsNegative() {
		fields["viewing_fee"] = "Viewing fee cannot be negative."
	}
	if in.Status != nil && !models.ValidStatus(*in.Status) {
		fields["status"] = "Status must be one of inactive, vacant, occupied."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateProperty creates a listing owned by landlordID. The server forces
// ownership and leaves is_approved false regardless of the payload.
func CreateProperty(db *gorm.DB, landlordID uint64, in PropertyInput) (*models.Property, error) {
	if vErr := validatePropertyInput(in, true); vErr != nil {
		return nil, vErr
	}

	property := models.Property{
		LandlordID:   landlordID,
		Area:         strings.TrimSpace(*in.Area),
		District:     strings.TrimSpace(*in.District),
		RentalAmount: *in.RentalAmount,
		Status:       models.StatusVacant,
	}
	if in.Deposit != nil {
		property.Deposit = decimal.NewNullDecimal(*in.Deposit)
	}
	if in.ViewingFee != nil {
		property.ViewingFee = decimal.NewNullDecimal(*in.ViewingFee)
	}
	if in.Status != nil {
		property.Status = *in.Status
	}
	if in.Description != nil {
		property.Description = *in.Description
	}
	if len(in.Amenities) > 0 {
		property.Amenities = datatypes.JSON(in.Amenities)
	}

	if err := db.Create(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// GetProperty loads a listing with its images and landlord.
func GetProperty(db *gorm.DB, id uint64) (*models.Property, error) {
	var property models.Property
	err := db.Preload("Images").Preload("Landlord").First(&property, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// UpdateProperty applies a partial update. Only the owning landlord may
// mutate; unspecified fields keep their prior value.
func UpdateProperty(db *gorm.DB, id, requesterID uint64, in PropertyInput) (*models.Property, error) {
	property, err := GetProperty(db, id)
	if err != nil {
		return nil, err
	}
	if property.LandlordID != requesterID {
		return nil, ErrForbidden
	}
	if vErr := validatePropertyInput(in, false); vErr != nil {
		return nil, vErr
	}

	if in.Area != nil {
		property.Area = strings.TrimSpace(*in.Area)
	}
	if in.District != nil {
		property.District = strings.TrimSpace(*in.District)
	}
	if in.RentalAmount != nil {
		property.RentalAmount = *in.RentalAmount
	}
	if in.Deposit != nil {
		property.Deposit = decimal.NewNullDecimal(*in.Deposit)
	}
	if in.ViewingFee != nil {
		property.ViewingFee = decimal.NewNullDecimal(*in.ViewingFee)
	}
	if in.Status != nil {
		property.Status = *in.Status
	}
	if in.Description != nil {
		property.Description = *in.Description
	}
	if len(in.Amenities) > 0 {
		property.Amenities = datatypes.JSON(in.Amenities)
	}

	if err := db.Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty removes a listing and cascades to its images, favorites,
// and contact messages in one transaction.
func DeleteProperty(db *gorm.DB, id, requesterID uint64) error {
	property, err := GetProperty(db, id)
	if err != nil {
		return err
	}
	if property.LandlordID != requesterID {
		return ErrForbidden
	}

	return deletePropertyCascade(db, property.ID)
}

// deletePropertyCascade is shared by owner deletes and owning-user deletes.
func deletePropertyCascade(db *gorm.DB, propertyID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.FavoriteProperty{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.ContactMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, propertyID).Error
	})
}

// MediaURL builds the absolute URL for a media-relative path.
func MediaURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/media/" + path
}

// PropertyImageView is the serialized form of a PropertyImage.
type PropertyImageView struct {
	ID         uint64    `json:"id"`
	ImageURL   string    `json:"image_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PropertyView is the serialized form of a Property, including the
// per-request derived fields.
type PropertyView struct {
	ID               uint64              `json:"id"`
	Landlord         uint64              `json:"landlord"`
	LandlordUsername string              `json:"landlord_username"`
	Area             string              `json:"area"`
	District         string              `json:"district"`
	RentalAmount     decimal.Decimal     `json:"rental_amount"`
	Deposit          decimal.NullDecimal `json:"deposit"`
	ViewingFee       decimal.NullDecimal `json:"viewing_fee"`
	Status           string              `json:"status"`
	Description      string              `json:"description"`
	IsFavorited      bool                `json:"is_favorited"`
	ImageURL         string              `json:"image_url,omitempty"`
	Images           []PropertyImageView `json:"images"`
	Amenities        json.RawMessage     `json:"amenities,omitempty"`
	IsApproved       bool                `json:"is_approved"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// NewPropertyView serializes a property for the given request context.
func NewPropertyView(p *models.Property, baseURL string, favorited bool) PropertyView {
	view := PropertyView{
		ID:           p.ID,
		Landlord:     p.LandlordID,
		Area:         p.Area,
		District:     p.District,
		RentalAmount: p.RentalAmount,
		Deposit:      p.Deposit,
		ViewingFee:   p.ViewingFee,
		Status:       p.Status,
		Description:  p.Description,
		IsFavorited:  favorited,
		ImageURL:     MediaURL(baseURL, p.Image),
		Images:       make([]PropertyImageView, 0, len(p.Images)),
		Amenities:    json.RawMessage(p.Amenities),
		IsApproved:   p.IsApproved,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Landlord != nil {
		view.LandlordUsername = p.Landlord.Username
	}
	for _, img := range p.Images {
		view.Images = append(view.Images, PropertyImageView{
			ID:         img.ID,
			ImageURL:   MediaURL(baseURL, img.Image),
			UploadedAt: img.UploadedAt,
		})
	}
	return view
}

// FavoritedSet returns the subset of propertyIDs favorited by userID.
// Empty for anonymous requesters.
func FavoritedSet(db *gorm.DB, userID uint64, propertyIDs []uint64) (map[uint64]bool, error) {
	favorited := make(map[uint64]bool)
	if userID == 0 || len(propertyIDs) == 0 {
		return favorited, nil
	}

	var ids []uint64
	err := db.Model(&models.FavoriteProperty{}).
		Where("user_id = ? AND property_id IN ?", userID, propertyIDs).
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}
	return favorited, nil
}

// IsFavorited reports whether userID has favorited propertyID. False for
// anonymous requesters.
func IsFavorited(db *gorm.DB, userID, propertyID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&models.FavoriteProperty{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	return count > 0, err
}
