package live

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisBus 基于 Redis Pub/Sub 的总线实现
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.rdb.Publish(ctx, channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channels ...string) Listener {
	pubsub := b.rdb.Subscribe(ctx, channels...)

	l := &redisListener{
		pubsub: pubsub,
		ch:     make(chan Event, 16),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(l.ch)
		src := pubsub.Channel()
		for {
			select {
			case msg, ok := <-src:
				if !ok {
					return
				}
				select {
				case l.ch <- Event{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
				case <-l.done:
					return
				}
			case <-l.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return l
}

type redisListener struct {
	pubsub *redis.PubSub
	ch     chan Event
	done   chan struct{}
	closed bool
}

func (l *redisListener) C() <-chan Event {
	return l.ch
}

func (l *redisListener) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.done)
	return l.pubsub.Close()
}
