package model

import "time"

// Profile is the stored user profile row, created on first OAuth callback.
type Profile struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"-"`
	Provider    string     `json:"provider"` // "google" or "facebook"
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}
