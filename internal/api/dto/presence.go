package dto

import "time"

// SetPresenceReq 上报在线状态
type SetPresenceReq struct {
	State string  `json:"state" binding:"required"`
	Vibe  *string `json:"vibe"`
}

// PresenceDTO 在线状态
type PresenceDTO struct {
	UID       string     `json:"uid"`
	State     string     `json:"state"`
	Vibe      string     `json:"vibe"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
}
