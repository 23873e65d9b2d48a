package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lehae/lehae-api/internal/services"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// ImageHandler handles property image upload and deletion.
type ImageHandler struct {
	DB        *gorm.DB
	MediaRoot string
}

// Upload handles POST /api/property-images
// @Summary Upload a property image
// @Description Owner only; at most 3 images per property, JPEG/PNG up to 5 MiB.
// @Tags PropertyImages
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param property_id formData int true "Property ID"
// @Param image formData file true "Image file"
// @Success 201 {object} services.PropertyImageView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /property-images [post]
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	propertyIDRaw := c.FormValue("property_id")
	if propertyIDRaw == "" {
		log.Printf("Missing property_id for image upload by %q", user.Username)
		return utils.ValidationErrorResponse(c, map[string]string{"property_id": "This field is required."})
	}
	propertyID, err := strconv.ParseUint(propertyIDRaw, 10, 64)
	if err != nil {
		return utils.ValidationErrorResponse(c, map[string]string{"property_id": "Invalid property id."})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return utils.ValidationErrorResponse(c, map[string]string{"image": "This field is required."})
	}

	image, err := services.AddPropertyImage(h.DB, h.MediaRoot, user.ID, propertyID, file)
	if err != nil {
		return respondServiceError(c, err, "images.upload", errMessages{
			notFound:  "Property not found",
			forbidden: "You do not have permission to add images to this property",
		})
	}

	log.Printf("Image %d uploaded for property %d by %q", image.ID, propertyID, user.Username)
	return c.Status(fiber.StatusCreated).JSON(services.PropertyImageView{
		ID:         image.ID,
		ImageURL:   services.MediaURL(c.BaseURL(), image.Image),
		UploadedAt: image.UploadedAt,
	})
}

// Delete handles DELETE /api/property-images/:id
// @Summary Delete a property image
// @Tags PropertyImages
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /property-images/{id} [delete]
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := services.DeletePropertyImage(h.DB, h.MediaRoot, user.ID, id); err != nil {
		return respondServiceError(c, err, "images.delete", errMessages{
			notFound:  "Image not found",
			forbidden: "You do not have permission to delete this image",
		})
	}

	log.Printf("Image %d deleted by %q", id, user.Username)
	return c.SendStatus(fiber.StatusNoContent)
}
