// Package live fans out state changes (favorites sets, rating histograms) to
// push subscribers. A Broker is either in-process (MemoryBroker) or backed by
// Redis Pub/Sub (RedisBroker) when several instances share subscribers.
package live

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed broker.
var ErrClosed = errors.New("live: broker closed")

// Broker publishes payloads on topics and hands out subscriptions.
//
// Subscribe returns a receive channel and a release function. The caller
// must call release when done; cancelling ctx releases as well. Release is
// idempotent and closes the channel.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
	Close() error
}

// FavoritesTopic is the topic carrying a user's favorites id list.
func FavoritesTopic(userID string) string { return "favorites:" + userID }

// RatingsTopic is the topic carrying a recipe's rating snapshot.
func RatingsTopic(recipeID string) string { return "ratings:" + recipeID }
