package dto

import "time"

// SendVibeCheckReq 发起 Vibe Check
type SendVibeCheckReq struct {
	ToUID   string `json:"to_uid" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// VibeCheckDTO Vibe Check 明细
type VibeCheckDTO struct {
	ID        string         `json:"id"`
	FromUID   string         `json:"from_uid"`
	ToUID     string         `json:"to_uid"`
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	FromMeta  MemberMetaDTO  `json:"from_meta"`
	CreatedAt time.Time      `json:"createdAt"`
}

// MemberMetaDTO 成员冗余资料快照
type MemberMetaDTO struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
}

// AcceptVibeCheckResult 接受后的结果, 带上新会话 ID 方便客户端直接跳转
type AcceptVibeCheckResult struct {
	VibeCheck VibeCheckDTO `json:"vibe_check"`
	ChatID    string       `json:"chat_id"`
}
