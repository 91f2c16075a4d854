package models

import "time"

// Notification types surfaced on the admin console.
const (
	NotificationTypeNewApplication   = "new_application"
	NotificationTypeComponentSupport = "component_support"
	NotificationTypeReview           = "application_review"
)

// Notification is an admin-facing message created as a side effect of public
// actions, e.g. a stranger registering to supply a listed component.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(30);not null;index" json:"type"`
	Title     string    `gorm:"size:160;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
