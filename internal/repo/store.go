package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// Store adapts the free functions of this package to the service-layer store
// interfaces over a single *gorm.DB.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) IncrementRating(ctx context.Context, recipeID string, star int) (*domain.RatingHistogram, error) {
	return IncrementRating(ctx, s.DB, recipeID, star)
}

func (s *Store) GetRating(ctx context.Context, recipeID string) (*domain.RatingHistogram, error) {
	return GetRating(ctx, s.DB, recipeID)
}

func (s *Store) HasFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	return HasFavorite(ctx, s.DB, userID, recipeID)
}

func (s *Store) AddFavorite(ctx context.Context, userID, recipeID string) error {
	return AddFavorite(ctx, s.DB, userID, recipeID)
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	return RemoveFavorite(ctx, s.DB, userID, recipeID)
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	return ListFavorites(ctx, s.DB, userID)
}

func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	return CreateSubmission(ctx, s.DB, sub)
}

func (s *Store) GetSubmission(ctx context.Context, slug string) (*domain.Submission, error) {
	return GetSubmission(ctx, s.DB, slug)
}

func (s *Store) SubmissionNameExists(ctx context.Context, name string) (bool, error) {
	return SubmissionNameExists(ctx, s.DB, name)
}

func (s *Store) ListSubmissions(ctx context.Context, offset, limit int) ([]domain.Submission, int64, error) {
	return ListSubmissions(ctx, s.DB, offset, limit)
}

func (s *Store) SubmissionIDs(ctx context.Context) ([]any, error) {
	return SubmissionIDs(ctx, s.DB)
}

func (s *Store) SubmissionsStats(ctx context.Context) (int64, *time.Time, error) {
	return SubmissionsStats(ctx, s.DB)
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return GetProfile(ctx, s.DB, userID)
}

func (s *Store) UpsertProfile(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	return UpsertProfile(ctx, s.DB, p)
}

func (s *Store) GetIdempotency(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, userID, scope, key, now)
}

func (s *Store) CreateIdempotency(ctx context.Context, userID, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, ttl)
}

// PurgeExpiredIdempotency drops idempotency records that expired at or before now.
func (s *Store) PurgeExpiredIdempotency(ctx context.Context, now time.Time) (int64, error) {
	return PurgeExpiredIdempotency(ctx, s.DB, now)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
