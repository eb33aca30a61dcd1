// Package services – RatingService
//
// RatingService records star votes against recipes and serves the resulting
// histograms. Votes accumulate: there is no per-user deduplication and no
// retraction. The store performs get-or-create plus increment atomically, so
// concurrent first votes on a recipe never lose an update.
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-cocktail-backend/internal/auth"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/live"
	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

// RatingService aggregates votes per recipe.
type RatingService struct {
	Store RatingStore
	Live  Publisher
}

// NewRatingService constructs a RatingService. pub may be nil.
func NewRatingService(st RatingStore, pub Publisher) *RatingService {
	return &RatingService{Store: st, Live: pub}
}

// RecordVote adds one vote of star to recipeID and publishes the new
// snapshot to live subscribers.
func (s *RatingService) RecordVote(ctx context.Context, sess auth.Session, recipeID string, star int) (domain.RatingSnapshot, error) {
	tr := otel.Tracer("services/RatingService")
	ctx, span := tr.Start(ctx, "RecordVote",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.Int("star", star),
		),
	)
	defer span.End()

	if !sess.Authenticated() {
		return domain.RatingSnapshot{}, ErrUnauthenticated
	}
	if !domain.ValidStar(star) {
		return domain.RatingSnapshot{}, ErrInvalidStar
	}
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return domain.RatingSnapshot{}, ErrRecipeNotFound
	}

	h, err := s.Store.IncrementRating(ctx, recipeID, star)
	if err != nil {
		return domain.RatingSnapshot{}, err
	}
	observability.Votes.WithLabelValues(strconv.Itoa(star)).Inc()

	snap := h.Snapshot()
	publish(ctx, s.Live, live.RatingsTopic(recipeID), snap)
	return snap, nil
}

// Get returns the current snapshot for recipeID. A recipe nobody has voted
// on has all buckets at zero.
func (s *RatingService) Get(ctx context.Context, recipeID string) (domain.RatingSnapshot, error) {
	tr := otel.Tracer("services/RatingService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("recipe.id", recipeID)),
	)
	defer span.End()

	recipeID = strings.TrimSpace(recipeID)
	h, err := s.Store.GetRating(ctx, recipeID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RatingHistogram{RecipeID: recipeID}.Snapshot(), nil
	}
	if err != nil {
		return domain.RatingSnapshot{}, err
	}
	return h.Snapshot(), nil
}
