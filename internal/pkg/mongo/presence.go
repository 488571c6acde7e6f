package mongo

import "time"

// Presence 在线状态文档，每个用户至多一条（按 UID upsert）。
// 状态是尽力而为的信号，离线以记录缺失或过期体现
type Presence struct {
	UID       string    `bson:"_id" json:"uid"`
	State     string    `bson:"state" json:"state"` // online / away / offline
	Vibe      string    `bson:"vibe" json:"vibe"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
	LastSeen  time.Time `bson:"last_seen" json:"lastSeen"`
}
