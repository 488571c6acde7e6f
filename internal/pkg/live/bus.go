package live

import "context"

// Event 总线上的一条变更通知
type Event struct {
	Channel string
	Payload []byte
}

// Listener 一条已建立的订阅，Close 后停止推送并释放底层连接
type Listener interface {
	C() <-chan Event
	Close() error
}

// Bus 实时变更通知总线。写路径 Publish 变更，订阅方收到通知后
// 重新查询并下发完整快照（快照语义由上层订阅流实现）
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channels ...string) Listener
}
