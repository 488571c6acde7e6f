package dto

import "time"

// ProfileDTO 用户资料
type ProfileDTO struct {
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	AvatarURL    string     `json:"avatar_url"`
	Bio          *string    `json:"bio,omitempty"`
	Gender       *uint8     `json:"gender,omitempty"`
	Birthday     *string    `json:"birthday,omitempty"`
	Vibe         string     `json:"vibe"`
	Discoverable bool       `json:"discoverable"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// SetupProfileDTO 首次建档
type SetupProfileDTO struct {
	Username    string  `json:"username" binding:"required"`
	DisplayName string  `json:"display_name" binding:"required" validate:"min=1,max=50"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio" validate:"omitempty,max=200"`
	Gender      *uint8  `json:"gender" validate:"omitempty,min=0,max=1"`
	Birthday    *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Vibe        *string `json:"vibe"`
}

// UpdateProfileDTO 修改资料, 只更新携带的字段
type UpdateProfileDTO struct {
	DisplayName  *string `json:"display_name" validate:"omitempty,min=1,max=50"`
	AvatarURL    *string `json:"avatar_url"`
	Bio          *string `json:"bio" validate:"omitempty,max=200"`
	Gender       *uint8  `json:"gender" validate:"omitempty,min=0,max=1"`
	Birthday     *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Vibe         *string `json:"vibe"`
	Discoverable *bool   `json:"discoverable"`
}

// CheckUsernameDTO 用户名查重
type CheckUsernameDTO struct {
	Username string `json:"username" binding:"required"`
}

// CheckUsernameResult 查重结果
type CheckUsernameResult struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// DiscoverUserDTO 发现页卡片
type DiscoverUserDTO struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Vibe        string `json:"vibe"`
}
