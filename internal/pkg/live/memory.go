package live

import (
	"context"
	"sync"
)

// MemoryBus 进程内总线实现，用于单机开发与测试
type MemoryBus struct {
	mu   sync.Mutex
	subs map[*memoryListener]map[string]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[*memoryListener]map[string]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for l, channels := range b.subs {
		if _, ok := channels[channel]; !ok {
			continue
		}
		// 订阅方消费过慢时丢弃通知，订阅流下一次变更仍会重查全量快照
		select {
		case l.ch <- Event{Channel: channel, Payload: payload}:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, channels ...string) Listener {
	l := &memoryListener{
		bus: b,
		ch:  make(chan Event, 64),
	}

	set := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		set[c] = struct{}{}
	}

	b.mu.Lock()
	b.subs[l] = set
	b.mu.Unlock()

	return l
}

type memoryListener struct {
	bus    *MemoryBus
	ch     chan Event
	closed bool
}

func (l *memoryListener) C() <-chan Event {
	return l.ch
}

func (l *memoryListener) Close() error {
	l.bus.mu.Lock()
	defer l.bus.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	delete(l.bus.subs, l)
	close(l.ch)
	return nil
}
