package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// ContactHandler handles unauthenticated property inquiries.
type ContactHandler struct {
	DB           *gorm.DB
	Mailer       services.Mailer
	MailFrom     string
	ContactEmail string
}

// Create handles POST /api/contact
// @Summary Submit a property inquiry
// @Description No authentication; a notification email is sent best-effort.
// @Tags Contact
// @Accept json
// @Produce json
// @Param body body services.ContactInput true "Inquiry"
// @Success 201 {object} object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /contact [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in services.ContactInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "contact.create")
	}

	message, err := services.CreateContactMessage(h.DB, h.Mailer, h.MailFrom, h.ContactEmail, in)
	if err != nil {
		return respondServiceError(c, err, "contact.create", errMessages{
			notFound: "Property not found",
		})
	}

	log.Printf("Contact message %d sent by %q for property %d", message.ID, message.TenantName, message.PropertyID)
	return c.Status(fiber.StatusCreated).JSON(message)
}
