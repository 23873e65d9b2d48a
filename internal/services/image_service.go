package services

import (
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lehae/lehae-api/internal/models"
	"gorm.io/gorm"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MiB

// extensionsByContentType maps accepted upload content types to the stored
// file extension.
var extensionsByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// AddPropertyImage validates and stores an uploaded image for a property
// owned by requesterID. The image cap is re-checked inside the insert
// transaction so concurrent uploads cannot exceed it.
func AddPropertyImage(db *gorm.DB, mediaRoot string, requesterID, propertyID uint64, file *multipart.FileHeader) (*models.PropertyImage, error) {
	var property models.Property
	if err := db.First(&property, propertyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if property.LandlordID != requesterID {
		return nil, ErrForbidden
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := extensionsByContentType[contentType]
	if !ok {
		return nil, fieldError("image", "Only JPEG and PNG images are supported.")
	}
	if file.Size > maxImageSize {
		return nil, fieldError("image", "Image size must be less than 5MB.")
	}
	if e := strings.ToLower(filepath.Ext(file.Filename)); e == ".jpg" || e == ".jpeg" || e == ".png" {
		ext = e
	}

	relPath := filepath.Join("property_images", uuid.NewString()+ext)
	if err := saveUpload(file, filepath.Join(mediaRoot, relPath)); err != nil {
		return nil, err
	}

	image := models.PropertyImage{PropertyID: property.ID, Image: relPath}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PropertyImage{}).
			Where("property_id = ?", property.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= models.MaxImagesPerProperty {
			return fieldError("image", "Maximum 3 images allowed per property.")
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		removeMedia(mediaRoot, relPath)
		return nil, err
	}

	return &image, nil
}

// DeletePropertyImage removes an image owned (via its property) by
// requesterID. The file removal is best effort.
func DeletePropertyImage(db *gorm.DB, mediaRoot string, requesterID, imageID uint64) error {
	var image models.PropertyImage
	if err := db.First(&image, imageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	var property models.Property
	if err := db.First(&property, image.PropertyID).Error; err != nil {
		return err
	}
	if property.LandlordID != requesterID {
		return ErrForbidden
	}

	if err := db.Delete(&image).Error; err != nil {
		return err
	}
	removeMedia(mediaRoot, image.Image)
	return nil
}

func saveUpload(file *multipart.FileHeader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func removeMedia(mediaRoot, relPath string) {
	if relPath == "" {
		return
	}
	if err := os.Remove(filepath.Join(mediaRoot, relPath)); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove media file %s: %v", relPath, err)
	}
}
