package model

import "time"

// SettingContactEmails holds the comma-separated contact relay recipients.
const SettingContactEmails = "contact_emails"

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingRequest is the payload for setting a single key.
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"max=10000"`
}
