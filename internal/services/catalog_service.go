// Package services – CatalogService
//
// CatalogService answers every read over the recipe catalog: browsing with a
// text query and filters, recommendations over the full catalog, random
// picks, detail lookups with measure conversion, the popular and seasonal
// lists, the cocktail of the day and the ingredient directory.
//
// The catalog snapshot is loaded lazily on first use (once per process) and
// can be forced to reload with Refresh. Id resolution always checks the
// curated seasonal table first, then the snapshot, then the remote lookup.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-cocktail-backend/internal/catalog"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/measure"
	"github.com/tbourn/go-cocktail-backend/internal/search"
)

// RecipeSource is the remote half of the catalog (catalog.Client).
type RecipeSource interface {
	Lookup(ctx context.Context, id string) (*domain.Recipe, error)
	Ingredients(ctx context.Context) ([]string, error)
	Ingredient(ctx context.Context, name string) (*domain.IngredientInfo, error)
}

// RecipeCache is the in-process catalog snapshot (catalog.Cache).
type RecipeCache interface {
	Ensure(ctx context.Context) error
	Refresh(ctx context.Context) error
	All() []domain.Recipe
	Get(id string) (domain.Recipe, bool)
	Len() int
}

// DailyPicker memoizes one recipe per calendar day (daily.Store).
type DailyPicker interface {
	Today(ctx context.Context) (*domain.Recipe, error)
}

// RecipeResolver turns ids into recipes, dropping those that resolve to
// nothing.
type RecipeResolver interface {
	ResolveMany(ctx context.Context, ids []string) []domain.Recipe
}

// CatalogService coordinates the catalog cache, the remote client and the
// filter engine.
type CatalogService struct {
	Cache  RecipeCache
	Source RecipeSource
	Picker DailyPicker
	Engine *search.Engine

	// ResolveConcurrency bounds parallel lookups when resolving id lists.
	ResolveConcurrency int
}

// NewCatalogService wires a CatalogService with a default engine.
func NewCatalogService(cache RecipeCache, src RecipeSource, daily DailyPicker) *CatalogService {
	return &CatalogService{
		Cache:              cache,
		Source:             src,
		Picker:             daily,
		Engine:             search.NewEngine(),
		ResolveConcurrency: 4,
	}
}

func (s *CatalogService) tracer() trace.Tracer { return otel.Tracer("services/CatalogService") }

func (s *CatalogService) snapshot(ctx context.Context) ([]domain.Recipe, error) {
	if err := s.Cache.Ensure(ctx); err != nil {
		return nil, err
	}
	return s.Cache.All(), nil
}

// Browse narrows the catalog by name query, then applies the filters to the
// remaining candidates.
func (s *CatalogService) Browse(ctx context.Context, query string, sel search.Selection) ([]domain.Recipe, error) {
	ctx, span := s.tracer().Start(ctx, "Browse",
		trace.WithAttributes(attribute.String("query", query)),
	)
	defer span.End()

	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := s.Engine.Apply(s.Engine.Search(all, query), sel)
	span.SetAttributes(attribute.Int("results", len(out)))
	return out, nil
}

// Recommend applies the filters to the full catalog.
func (s *CatalogService) Recommend(ctx context.Context, sel search.Selection) ([]domain.Recipe, error) {
	ctx, span := s.tracer().Start(ctx, "Recommend")
	defer span.End()

	all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Engine.Apply(all, sel), nil
}

// Random returns the browse result in a uniformly shuffled order.
func (s *CatalogService) Random(ctx context.Context, query string, sel search.Selection) ([]domain.Recipe, error) {
	rs, err := s.Browse(ctx, query, sel)
	if err != nil {
		return nil, err
	}
	return s.Engine.Shuffle(rs), nil
}

// Reset returns the full name-sorted catalog.
func (s *CatalogService) Reset(ctx context.Context) ([]domain.Recipe, error) {
	return s.snapshot(ctx)
}

// Refresh forces a catalog reload and returns the new snapshot size.
func (s *CatalogService) Refresh(ctx context.Context) (int, error) {
	ctx, span := s.tracer().Start(ctx, "Refresh")
	defer span.End()

	if err := s.Cache.Refresh(ctx); err != nil {
		return 0, err
	}
	return s.Cache.Len(), nil
}

// Resolve finds a recipe by id in the seasonal table, the snapshot, or the
// remote catalog, in that order. The snapshot is consulted only when already
// loaded so a single detail view never triggers a full sweep.
func (s *CatalogService) Resolve(ctx context.Context, id string) (*domain.Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRecipeNotFound
	}
	if r, ok := catalog.SeasonalByID(id); ok {
		return &r, nil
	}
	if r, ok := s.Cache.Get(id); ok {
		return &r, nil
	}
	r, err := s.Source.Lookup(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	return r, err
}

// Detail resolves id and rescales its measures to unit and servings.
func (s *CatalogService) Detail(ctx context.Context, id, unit string, servings int) (*domain.Recipe, error) {
	ctx, span := s.tracer().Start(ctx, "Detail",
		trace.WithAttributes(
			attribute.String("recipe.id", id),
			attribute.String("unit", unit),
			attribute.Int("servings", servings),
		),
	)
	defer span.End()

	unit, servings, err := ConversionParams(unit, servings)
	if err != nil {
		return nil, err
	}
	r, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	out := measure.ConvertRecipe(*r, unit, servings)
	return &out, nil
}

// Popular resolves the fixed popular id list. Ids that resolve to nothing
// are dropped; order follows the list.
func (s *CatalogService) Popular(ctx context.Context) []domain.Recipe {
	ctx, span := s.tracer().Start(ctx, "Popular")
	defer span.End()
	return s.ResolveMany(ctx, catalog.PopularIDs)
}

// Seasonal returns the curated seasonal table.
func (s *CatalogService) Seasonal() []domain.Recipe { return catalog.Seasonal() }

// Daily returns the cocktail of the day.
func (s *CatalogService) Daily(ctx context.Context) (*domain.Recipe, error) {
	return s.Picker.Today(ctx)
}

// Ingredients lists ingredient names known to the catalog.
func (s *CatalogService) Ingredients(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer().Start(ctx, "Ingredients")
	defer span.End()
	return s.Source.Ingredients(ctx)
}

// Ingredient describes one ingredient by name.
func (s *CatalogService) Ingredient(ctx context.Context, name string) (*domain.IngredientInfo, error) {
	ctx, span := s.tracer().Start(ctx, "Ingredient",
		trace.WithAttributes(attribute.String("ingredient", name)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrIngredientNotFound
	}
	info, err := s.Source.Ingredient(ctx, name)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return info, err
}

// ResolveMany resolves ids with bounded concurrency, keeps their order and
// silently drops any that fail to resolve.
func (s *CatalogService) ResolveMany(ctx context.Context, ids []string) []domain.Recipe {
	slots := make([]*domain.Recipe, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.ResolveConcurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.Resolve(gctx, id)
			if err != nil {
				if !errors.Is(err, ErrRecipeNotFound) {
					log.Warn().Err(err).Str("recipe_id", id).Msg("resolve failed; dropping")
				}
				return nil
			}
			slots[i] = r
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.Recipe, 0, len(ids))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// ConversionParams validates a unit/servings pair for detail views.
func ConversionParams(unit string, servings int) (string, int, error) {
	u, n, err := measure.Validate(unit, servings)
	if err != nil {
		ve := &ValidationError{}
		switch {
		case errors.Is(err, measure.ErrUnit):
			ve.add("unit", err.Error())
		default:
			ve.add("servings", err.Error())
		}
		return "", 0, ve
	}
	return u, n, nil
}
