package services

import (
	"context"
	"time"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// RatingStore persists per-recipe vote histograms. IncrementRating must
// create the histogram and add the vote in one atomic step.
type RatingStore interface {
	IncrementRating(ctx context.Context, recipeID string, star int) (*domain.RatingHistogram, error)
	GetRating(ctx context.Context, recipeID string) (*domain.RatingHistogram, error)
}

// FavoriteStore persists per-user favorites sets. Add and Remove are
// idempotent; ListFavorites returns most-recently-added first.
type FavoriteStore interface {
	HasFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	AddFavorite(ctx context.Context, userID, recipeID string) error
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
	ListFavorites(ctx context.Context, userID string) ([]string, error)
}

// SubmissionStore persists user-submitted recipes keyed by slug.
//
// CreateSubmission never overwrites: a numeric id collision reports
// domain.ErrDuplicateUniqueID and a slug collision domain.ErrDuplicateKey.
// SubmissionIDs returns the raw stored ids, which may be of any type.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, s *domain.Submission) error
	GetSubmission(ctx context.Context, slug string) (*domain.Submission, error)
	SubmissionNameExists(ctx context.Context, name string) (bool, error)
	ListSubmissions(ctx context.Context, offset, limit int) ([]domain.Submission, int64, error)
	SubmissionIDs(ctx context.Context) ([]any, error)
	SubmissionsStats(ctx context.Context) (int64, *time.Time, error)
}

// UserStore persists user profiles.
type UserStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpsertProfile(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error)
}

// IdempotencyStore records completed unsafe requests.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, userID, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// Store is everything a persistence backend provides.
type Store interface {
	RatingStore
	FavoriteStore
	SubmissionStore
	UserStore
	IdempotencyStore
	Ping(ctx context.Context) error
	Close() error
}

// Publisher is the write half of a live.Broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
