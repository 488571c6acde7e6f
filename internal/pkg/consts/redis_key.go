package consts

// Redis Pub/Sub 频道前缀
const (
	IMUserKey        = "im:user:"        // 用户个人频道：消息推送 + 会话列表变更
	IMChatKey        = "im:chat:"        // 会话频道：消息流快照变更
	VibeCheckUserKey = "vibecheck:user:" // Vibe Check 收件箱变更
	VibeCheckSentKey = "vibecheck:sent:" // Vibe Check 发件箱变更
	PresenceUserKey  = "presence:user:"  // 用户在线状态变更
)

// Redis 缓存键前缀
const (
	UserCardKey = "user:card:" // 公开名片缓存，按用户名
)
