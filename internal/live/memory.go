package live

import (
	"context"
	"sync"

	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

type subscriber struct {
	ch   chan []byte
	done chan struct{}
	once sync.Once
}

// MemoryBroker is an in-process Broker. Publish never blocks: a subscriber
// whose buffer is full misses the message and the drop is counted.
type MemoryBroker struct {
	buffer int

	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

// NewMemoryBroker builds a broker with the given per-subscriber buffer
// (DefaultBuffer when <= 0).
func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &MemoryBroker{buffer: buffer, subs: make(map[string]map[*subscriber]struct{})}
}

// Publish delivers payload to every current subscriber of topic.
func (b *MemoryBroker) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for s := range b.subs[topic] {
		select {
		case s.ch <- payload:
		default:
			observability.LiveDropped.Inc()
		}
	}
	return nil
}

// Subscribe registers a subscriber on topic.
func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	s := &subscriber{ch: make(chan []byte, b.buffer), done: make(chan struct{})}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, nil, ErrClosed
	}
	set, ok := b.subs[topic]
	if !ok {
		set = make(map[*subscriber]struct{})
		b.subs[topic] = set
	}
	set[s] = struct{}{}
	b.mu.Unlock()
	observability.LiveSubscribers.Inc()

	release := func() {
		s.once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[topic]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(b.subs, topic)
				}
			}
			b.mu.Unlock()
			close(s.ch)
			close(s.done)
			observability.LiveSubscribers.Dec()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			release()
		case <-s.done:
		}
	}()
	return s.ch, release, nil
}

// Subscribers returns the number of subscribers on topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Close releases every subscriber. Further calls fail with ErrClosed.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var all []*subscriber
	for _, set := range b.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	b.subs = make(map[string]map[*subscriber]struct{})
	b.mu.Unlock()

	for _, s := range all {
		s.once.Do(func() {
			close(s.ch)
			close(s.done)
			observability.LiveSubscribers.Dec()
		})
	}
	return nil
}
