package mongo

import "time"

// VibeCheck 连接请求文档。_id 由有序对 (from, to) 计算，
// 同一方向最多存在一条记录，重发即覆盖
type VibeCheck struct {
	ID        string     `bson:"_id" json:"id"`
	FromUID   string     `bson:"from_uid" json:"fromUid"`
	ToUID     string     `bson:"to_uid" json:"toUid"`
	Status    string     `bson:"status" json:"status"` // pending / accepted / declined
	Message   string     `bson:"message" json:"message"`
	FromMeta  MemberMeta `bson:"from_meta" json:"fromMeta"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
}

// VibeCheckID 计算有序对的确定性请求 ID
func VibeCheckID(fromUID, toUID string) string {
	return "vc_" + fromUID + "_" + toUID
}
