package services

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// publish pushes v to topic. Delivery is best effort: the write that caused
// the change has already succeeded, so failures are only logged.
func publish(ctx context.Context, pub Publisher, topic string, v any) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("live: encode failed")
		return
	}
	if err := pub.Publish(context.WithoutCancel(ctx), topic, payload); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("live: publish failed")
	}
}
