package mongo

import (
	"sort"
	"time"
)

// MemberMeta 成员展示信息快照（发送/创建时冻结，不回溯刷新）
type MemberMeta struct {
	DisplayName string `bson:"display_name" json:"displayName"`
	Username    string `bson:"username,omitempty" json:"username,omitempty"`
	AvatarURL   string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
}

// Chat 会话文档。_id 由两个成员 UID 排序拼接而成，
// 同一对用户无论谁发起都落到同一个文档，创建天然幂等
type Chat struct {
	ID              string                `bson:"_id" json:"id"`
	Type            string                `bson:"type" json:"type"` // 目前仅 "dm"
	MemberUIDs      []string              `bson:"member_uids" json:"memberUids"`
	MemberMeta      map[string]MemberMeta `bson:"member_meta" json:"memberMeta"`
	LastMessageText string                `bson:"last_message_text" json:"lastMessageText"`
	LastSenderUID   string                `bson:"last_sender_uid,omitempty" json:"lastSenderUid,omitempty"`
	LastMessageAt   time.Time             `bson:"last_message_at" json:"lastMessageAt"`
	CreatedAt       time.Time             `bson:"created_at" json:"createdAt"`
}

// Message 消息文档。正常发送使用生成 ID；
// 由 Vibe Check 导入的首条消息使用请求 ID，重复导入直接去重
type Message struct {
	ID             string    `bson:"_id" json:"id"`
	ChatID         string    `bson:"chat_id" json:"chatId"`
	SenderUID      string    `bson:"sender_uid" json:"senderUid"`
	Type           string    `bson:"type" json:"type"`
	Text           string    `bson:"text" json:"text"`
	ViaVibeCheckID string    `bson:"via_vibe_check_id,omitempty" json:"viaVibeCheckId,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// DMChatID 计算两个用户的确定性会话 ID：UID 排序后拼接
func DMChatID(uidA, uidB string) string {
	pair := []string{uidA, uidB}
	sort.Strings(pair)
	return "dm_" + pair[0] + "_" + pair[1]
}

// OtherUID 取会话中对方的 UID。调用方不在成员列表时退回自身
func OtherUID(memberUIDs []string, myUID string) string {
	mine := false
	other := ""
	for _, u := range memberUIDs {
		if u == myUID {
			mine = true
		} else if other == "" {
			other = u
		}
	}
	if mine && other != "" {
		return other
	}
	return myUID
}
