package es

import "time"

// ProfileES 对应 profile_index 的文档结构
type ProfileES struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Vibe         string    `json:"vibe"`
	Discoverable bool      `json:"discoverable"`
	UpdatedAt    time.Time `json:"updated_at"`
}
