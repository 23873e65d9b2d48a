package services

import (
	"github.com/lehae/lehae-api/internal/models"
	"gorm.io/gorm"
)

// Report is the admin aggregate view.
type Report struct {
	MostViewed      []PropertyView `json:"most_viewed"`
	TotalProperties int64          `json:"total_properties"`
	TotalUsers      int64          `json:"total_users"`
}

// BuildReport returns the 10 most-recently-updated properties plus totals.
// View counts are not tracked, so update recency stands in for "most
// viewed" until they are.
func BuildReport(db *gorm.DB, baseURL string) (*Report, error) {
	var properties []models.Property
	err := db.Preload("Images").Preload("Landlord").
		Order("updated_at DESC").
		Limit(10).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}

	report := &Report{MostViewed: make([]PropertyView, 0, len(properties))}
	for i := range properties {
		report.MostViewed = append(report.MostViewed, NewPropertyView(&properties[i], baseURL, false))
	}

	if err := db.Model(&models.Property{}).Count(&report.TotalProperties).Error; err != nil {
		return nil, err
	}
	totalUsers, err := CountUsers(db)
	if err != nil {
		return nil, err
	}
	report.TotalUsers = totalUsers

	return report, nil
}
