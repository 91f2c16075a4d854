package models

import (
	"encoding/json"
	"time"
)

// Well-known setting keys.
const (
	SettingAllowNewSignups = "allow_new_signups"
)

// AppSetting is a process-wide key -> JSON value store backing the admin
// settings screen.
type AppSetting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoolValue interprets the stored JSON as a boolean. Missing or malformed
// values fall back to def.
func (s *AppSetting) BoolValue(def bool) bool {
	if s == nil || s.Value == "" {
		return def
	}
	var v bool
	if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
		return def
	}
	return v
}
