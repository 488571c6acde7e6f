package model

import (
	"time"
)

// User 身份服务同步过来的用户骨架, ID 由外部身份服务分配
type User struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	IsBan     bool   `gorm:"type:tinyint(1);default:0"`
	IsDelete  bool   `gorm:"type:tinyint(1);default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Profile Profile `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}
