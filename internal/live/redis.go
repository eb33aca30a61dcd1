package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

// channelPrefix namespaces this service's Pub/Sub channels.
const channelPrefix = "cocktails:"

// RedisBroker fans out through Redis Pub/Sub so subscribers connected to any
// instance see writes made on every other instance.
type RedisBroker struct {
	rdb    *redis.Client
	buffer int

	mu     sync.Mutex
	closed bool
}

// NewRedisBroker wraps an existing client. The broker owns the client and
// closes it on Close.
func NewRedisBroker(rdb *redis.Client, buffer int) *RedisBroker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &RedisBroker{rdb: rdb, buffer: buffer}
}

// DialRedis connects and pings a Redis server.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (b *RedisBroker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Publish sends payload on the topic's channel.
func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	if b.isClosed() {
		return ErrClosed
	}
	if err := b.rdb.Publish(ctx, channelPrefix+topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe opens a Pub/Sub subscription for topic. Messages are forwarded
// without blocking; a full buffer drops the message.
func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	if b.isClosed() {
		return nil, nil, ErrClosed
	}
	ps := b.rdb.Subscribe(ctx, channelPrefix+topic)
	// Receive blocks until the subscription is confirmed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis subscribe %s: %w", topic, err)
	}
	observability.LiveSubscribers.Inc()

	out := make(chan []byte, b.buffer)
	done := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			close(done)
			if err := ps.Close(); err != nil {
				log.Debug().Err(err).Str("topic", topic).Msg("redis pubsub close")
			}
			observability.LiveSubscribers.Dec()
		})
	}

	go func() {
		defer close(out)
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				release()
				return
			case <-done:
				return
			case msg, ok := <-in:
				if !ok {
					release()
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					observability.LiveDropped.Inc()
				}
			}
		}
	}()
	return out, release, nil
}

// Close shuts the client down; open subscriptions end.
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()
	return b.rdb.Close()
}
