package live

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestDialRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := DialRedis(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Fatalf("expected dial error for closed port")
	}
}

func TestRedisBroker_ClosedRejects(t *testing.T) {
	b := NewRedisBroker(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0)
	if b.buffer != DefaultBuffer {
		t.Fatalf("buffer = %d", b.buffer)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Publish(context.Background(), "t", nil); err != ErrClosed {
		t.Fatalf("err = %v; want ErrClosed", err)
	}
	if _, _, err := b.Subscribe(context.Background(), "t"); err != ErrClosed {
		t.Fatalf("err = %v; want ErrClosed", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
