package services

import (
	"fmt"

	"github.com/lehae/lehae-api/internal/models"
	"gorm.io/gorm"
)

const (
	recentActivityLimit = 5
	activityBodyLength  = 50
)

// StatItem is a single dashboard statistic card.
type StatItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  int64  `json:"value"`
	Trend  string `json:"trend"`
	IconBg string `json:"iconBg"`
	Icon   string `json:"icon"`
}

// ActivityItem is a recent-activity feed entry.
type ActivityItem struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	IconBg      string `json:"iconBg"`
	Icon        string `json:"icon"`
}

// Dashboard is the role-specific stats payload.
type Dashboard struct {
	Stats          []StatItem     `json:"stats"`
	RecentActivity []ActivityItem `json:"recentActivity"`
	UpcomingTasks  []interface{}  `json:"upcomingTasks"`
}

// BuildDashboard computes the role-branched stats and recent-activity feed
// for the user. The role is resolved once by the caller from the ensured
// profile.
func BuildDashboard(db *gorm.DB, user *models.User, role Role) (*Dashboard, error) {
	dashboard := &Dashboard{
		Stats:          make([]StatItem, 0, 2),
		RecentActivity: make([]ActivityItem, 0, recentActivityLimit),
		UpcomingTasks:  []interface{}{},
	}

	switch role {
	case RoleLandlord:
		var total, vacant int64
		if err := db.Model(&models.Property{}).Where("landlord_id = ?", user.ID).Count(&total).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.Property{}).
			Where("landlord_id = ? AND status = ?", user.ID, models.StatusVacant).
			Count(&vacant).Error; err != nil {
			return nil, err
		}
		dashboard.Stats = append(dashboard.Stats,
			StatItem{ID: "properties", Label: "Total Properties", Value: total, Trend: "0", IconBg: "bg-blue-100", Icon: "house"},
			StatItem{ID: "vacant", Label: "Vacant Properties", Value: vacant, Trend: "0", IconBg: "bg-green-100", Icon: "house-vacant"},
		)

	default:
		var favorites int64
		if err := db.Model(&models.FavoriteProperty{}).Where("user_id = ?", user.ID).Count(&favorites).Error; err != nil {
			return nil, err
		}
		dashboard.Stats = append(dashboard.Stats,
			StatItem{ID: "favorites", Label: "Favorite Properties", Value: favorites, Trend: "0", IconBg: "bg-red-100", Icon: "heart"},
		)
	}

	messages, err := recentMessages(db, user, role)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		dashboard.RecentActivity = append(dashboard.RecentActivity, ActivityItem{
			ID:          msg.ID,
			Title:       fmt.Sprintf("Message from %s", msg.TenantName),
			Description: truncateBody(msg.Message, activityBodyLength),
			Time:        msg.CreatedAt.Format("2006-01-02 15:04"),
			IconBg:      "bg-purple-100",
			Icon:        "envelope",
		})
	}

	return dashboard, nil
}

// recentMessages scopes contact messages to the user: a landlord sees
// messages on any of their properties, a tenant sees messages whose sender
// email matches theirs (best-effort correlation, not a foreign key).
func recentMessages(db *gorm.DB, user *models.User, role Role) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	q := db.Model(&models.ContactMessage{})

	if role == RoleLandlord {
		q = q.Joins("JOIN properties ON properties.id = contact_messages.property_id").
			Where("properties.landlord_id = ?", user.ID)
	} else {
		q = q.Where("tenant_email = ?", user.Email)
	}

	err := q.Order("contact_messages.created_at DESC").
		Limit(recentActivityLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// truncateBody shortens a message body to n characters for the activity
// feed, marking the cut with an ellipsis. The cut counts runes, not bytes,
// so multibyte bodies stay valid UTF-8.
func truncateBody(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
