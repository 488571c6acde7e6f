package dto

import "time"

// OpenDirectChatReq 打开/创建单聊，按对方用户名定位
type OpenDirectChatReq struct {
	TargetUsername string `json:"target_username" binding:"required"`
}

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	ChatID string `json:"chat_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderUID string    `json:"sender_uid"`
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatDTO 会话列表项响应
type ChatDTO struct {
	ChatID          string                   `json:"chat_id"`
	Type            string                   `json:"type"`
	PeerUID         string                   `json:"peer_uid"`
	MemberMeta      map[string]MemberMetaDTO `json:"member_meta"`
	LastMessageText string                   `json:"last_message_text"`
	LastSenderUID   string                   `json:"last_sender_uid"`
	LastMessageAt   *time.Time               `json:"lastMessageAt"`
}

// LivePushDTO WebSocket 下行推送帧
type LivePushDTO struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}
