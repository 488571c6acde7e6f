package consts

// 在线状态
const (
	PresenceOnline  = "online"
	PresenceAway    = "away"
	PresenceOffline = "offline"
)

// VibeDefault 默认心情标签
const VibeDefault = "chillin"

// VibeTags 可选心情标签枚举
var VibeTags = map[string]struct{}{
	"chillin": {},
	"on_fire": {},
	"ghost":   {},
	"lowkey":  {},
	"afk":     {},
}

// Vibe Check 状态
const (
	VibeCheckPending  = "pending"
	VibeCheckAccepted = "accepted"
	VibeCheckDeclined = "declined"
)

// 消息类型
const (
	MessageTypeText = "text"
)

// 会话类型
const (
	ChatTypeDM = "dm"
)

const (
	// LastMessageMaxLen 会话摘要中最后一条消息的截断长度
	LastMessageMaxLen = 200
	// PresenceBatchLimit 单次批量查询在线状态的用户数上限
	PresenceBatchLimit = 25
	// DiscoverLimit 发现页返回的用户数上限
	DiscoverLimit = 30
)
