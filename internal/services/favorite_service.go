// Package services – FavoriteService
//
// FavoriteService maintains each user's favorites set. Add and Remove are
// idempotent set operations; Toggle reads membership first and applies the
// opposite. Every change publishes the updated id list (most recent first)
// on the user's favorites topic.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-cocktail-backend/internal/auth"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/live"
	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

// FavoriteService manages per-user favorites sets.
type FavoriteService struct {
	Store   FavoriteStore
	Recipes RecipeResolver
	Live    Publisher
}

// NewFavoriteService constructs a FavoriteService. pub may be nil.
func NewFavoriteService(st FavoriteStore, recipes RecipeResolver, pub Publisher) *FavoriteService {
	return &FavoriteService{Store: st, Recipes: recipes, Live: pub}
}

func (s *FavoriteService) start(ctx context.Context, op string, sess auth.Session, recipeID string) (context.Context, trace.Span) {
	return otel.Tracer("services/FavoriteService").Start(ctx, op,
		trace.WithAttributes(
			attribute.String("user.id", sess.UserID),
			attribute.String("recipe.id", recipeID),
		),
	)
}

// Toggle flips membership of recipeID and returns the new state.
func (s *FavoriteService) Toggle(ctx context.Context, sess auth.Session, recipeID string) (bool, error) {
	ctx, span := s.start(ctx, "Toggle", sess, recipeID)
	defer span.End()

	if !sess.Authenticated() {
		return false, ErrUnauthenticated
	}
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return false, ErrRecipeNotFound
	}

	member, err := s.Store.HasFavorite(ctx, sess.UserID, recipeID)
	if err != nil {
		return false, err
	}
	if member {
		return false, s.remove(ctx, sess.UserID, recipeID)
	}
	return true, s.add(ctx, sess.UserID, recipeID)
}

// Add inserts recipeID into the set. Adding an existing member is a no-op.
func (s *FavoriteService) Add(ctx context.Context, sess auth.Session, recipeID string) error {
	ctx, span := s.start(ctx, "Add", sess, recipeID)
	defer span.End()

	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return ErrRecipeNotFound
	}
	return s.add(ctx, sess.UserID, recipeID)
}

// Remove deletes recipeID from the set. Removing an absent member is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, sess auth.Session, recipeID string) error {
	ctx, span := s.start(ctx, "Remove", sess, recipeID)
	defer span.End()

	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return ErrRecipeNotFound
	}
	return s.remove(ctx, sess.UserID, recipeID)
}

// IDs returns the user's favorite ids, most recently added first.
func (s *FavoriteService) IDs(ctx context.Context, sess auth.Session) ([]string, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.Store.ListFavorites(ctx, sess.UserID)
}

// Materialize resolves the user's favorites to recipes in most-recent-first
// order. Ids that no longer resolve are dropped.
func (s *FavoriteService) Materialize(ctx context.Context, sess auth.Session) ([]domain.Recipe, error) {
	ctx, span := s.start(ctx, "Materialize", sess, "")
	defer span.End()

	ids, err := s.IDs(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := s.Recipes.ResolveMany(ctx, ids)
	span.SetAttributes(attribute.Int("favorites", len(ids)), attribute.Int("resolved", len(out)))
	return out, nil
}

// Snapshot returns the published view of the user's set.
func (s *FavoriteService) Snapshot(ctx context.Context, sess auth.Session) (domain.FavoritesSnapshot, error) {
	ids, err := s.IDs(ctx, sess)
	if err != nil {
		return domain.FavoritesSnapshot{}, err
	}
	return domain.FavoritesSnapshot{UserID: sess.UserID, IDs: ids}, nil
}

func (s *FavoriteService) add(ctx context.Context, userID, recipeID string) error {
	if err := s.Store.AddFavorite(ctx, userID, recipeID); err != nil {
		return err
	}
	observability.FavoriteChanges.WithLabelValues("add").Inc()
	s.announce(ctx, userID)
	return nil
}

func (s *FavoriteService) remove(ctx context.Context, userID, recipeID string) error {
	if err := s.Store.RemoveFavorite(ctx, userID, recipeID); err != nil {
		return err
	}
	observability.FavoriteChanges.WithLabelValues("remove").Inc()
	s.announce(ctx, userID)
	return nil
}

func (s *FavoriteService) announce(ctx context.Context, userID string) {
	if s.Live == nil {
		return
	}
	ids, err := s.Store.ListFavorites(ctx, userID)
	if err != nil {
		return
	}
	publish(ctx, s.Live, live.FavoritesTopic(userID), domain.FavoritesSnapshot{UserID: userID, IDs: ids})
}
