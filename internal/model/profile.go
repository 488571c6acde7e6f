package model

import (
	"time"
)

// Profile 完成引导后的用户资料, 未建档的用户不会出现在发现页
type Profile struct {
	UserID       string  `gorm:"type:varchar(64);primaryKey"`
	Username     string  `gorm:"type:varchar(25);uniqueIndex:idx_profile_username;not null"`
	DisplayName  string  `gorm:"type:varchar(50);not null"`
	AvatarURL    string  `gorm:"type:varchar(512);column:avatar_url;default:''"`
	Bio          *string `gorm:"type:varchar(255);default:''"`
	Gender       *uint8  `gorm:"type:tinyint;default:0"`
	Birthday     *string `gorm:"type:date"`
	Vibe         string  `gorm:"type:varchar(20);not null;default:'chillin'"`
	Discoverable bool    `gorm:"type:tinyint(1);default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Profile) TableName() string {
	return "user_profile"
}
