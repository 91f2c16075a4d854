package models

import "time"

// AdminUser is a console operator. Passwords are bcrypt hashes; the hash is
// never serialized.
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:60;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:120" json:"email"`
	Password  string    `gorm:"size:120;not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
