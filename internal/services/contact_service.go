package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/lehae/lehae-api/internal/models"
	"github.com/lehae/lehae-api/internal/types"
	"gorm.io/gorm"
)

// ContactInput is the unauthenticated inquiry payload.
type ContactInput struct {
	Property    types.FlexID `json:"property"`
	TenantName  string       `json:"tenant_name"`
	TenantEmail string       `json:"tenant_email"`
	Message     string       `json:"message"`
}

// CreateContactMessage persists an inquiry and fires a best-effort
// notification to the operator address. Email failures are logged and
// swallowed; they must never fail the request.
func CreateContactMessage(db *gorm.DB, mailer Mailer, from, operator string, in ContactInput) (*models.ContactMessage, error) {
	fields := make(map[string]string)
	if in.Property == 0 {
		fields["property"] = "This field is required."
	}
	if strings.TrimSpace(in.TenantName) == "" {
		fields["tenant_name"] = "This field is required."
	}
	if strings.TrimSpace(in.TenantEmail) == "" {
		fields["tenant_email"] = "This field is required."
	}
	if strings.TrimSpace(in.Message) == "" {
		fields["message"] = "This field is required."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var propertyCount int64
	if err := db.Model(&models.Property{}).Where("id = ?", in.Property.Uint64()).Count(&propertyCount).Error; err != nil {
		return nil, err
	}
	if propertyCount == 0 {
		return nil, fieldError("property", "Invalid property.")
	}

	message := models.ContactMessage{
		PropertyID:  in.Property.Uint64(),
		TenantName:  strings.TrimSpace(in.TenantName),
		TenantEmail: strings.TrimSpace(in.TenantEmail),
		Message:     in.Message,
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}

	if mailer != nil {
		body := fmt.Sprintf("From: %s (%s)\nProperty ID: %d\nMessage: %s\n",
			message.TenantName, message.TenantEmail, message.PropertyID, message.Message)
		if err := mailer.Send("New Contact Message", body, from, operator); err != nil {
			log.Printf("Contact notification for property %d not delivered: %v", message.PropertyID, err)
		}
	}

	return &message, nil
}
