package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

// Letters iterated to enumerate the catalog.
const Letters = "abcdefghijklmnopqrstuvwxyz"

// ErrEmptyLoad is returned when every letter request failed.
var ErrEmptyLoad = errors.New("catalog: every letter failed to load")

// LetterSource is the subset of Client the cache needs.
type LetterSource interface {
	SearchByFirstLetter(ctx context.Context, letter string) ([]domain.Recipe, error)
}

// Cache holds the name-sorted catalog snapshot for the process lifetime.
// Reads are lock-protected; loads are collapsed so concurrent callers share
// one upstream sweep.
type Cache struct {
	src         LetterSource
	concurrency int

	mu       sync.RWMutex
	recipes  []domain.Recipe
	byID     map[string]int
	loadedAt time.Time

	sf singleflight.Group
}

// NewCache builds an empty cache. concurrency bounds parallel letter
// requests (default 4).
func NewCache(src LetterSource, concurrency int) *Cache {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Cache{src: src, concurrency: concurrency}
}

// Loaded reports whether a snapshot exists.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recipes != nil
}

// LoadedAt returns when the current snapshot was built (zero when none).
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Ensure loads the catalog once. Subsequent calls are no-ops.
func (c *Cache) Ensure(ctx context.Context) error {
	if c.Loaded() {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh rebuilds the snapshot. On failure the previous snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	// The sweep is shared; one caller giving up must not cancel it for the rest.
	shared := context.WithoutCancel(ctx)
	ch := c.sf.DoChan("load", func() (any, error) {
		return nil, c.load(shared)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// All returns the sorted snapshot. The slice is a copy; recipes must be
// treated as read-only.
func (c *Cache) All() []domain.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Recipe(nil), c.recipes...)
}

// Get looks a recipe up by id in the snapshot.
func (c *Cache) Get(id string) (domain.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return domain.Recipe{}, false
	}
	return c.recipes[i], true
}

// Len returns the snapshot size.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.recipes)
}

func (c *Cache) load(ctx context.Context) error {
	start := time.Now()
	perLetter := make([][]domain.Recipe, len(Letters))
	failed := make([]error, len(Letters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, l := range Letters {
		i, letter := i, string(l)
		g.Go(func() error {
			rs, err := c.src.SearchByFirstLetter(gctx, letter)
			if err != nil {
				failed[i] = err
				log.Warn().Err(err).Str("letter", letter).Msg("catalog letter failed; skipping")
				return nil
			}
			perLetter[i] = rs
			return nil
		})
	}
	_ = g.Wait()

	var lastErr error
	nFailed := 0
	for _, err := range failed {
		if err != nil {
			nFailed++
			lastErr = err
		}
	}
	if nFailed == len(Letters) {
		return fmt.Errorf("%w: %v", ErrEmptyLoad, lastErr)
	}

	merged := make([]domain.Recipe, 0, 512)
	seen := make(map[string]struct{}, 512)
	for _, rs := range perLetter {
		for _, r := range rs {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}
	sortByName(merged)

	byID := make(map[string]int, len(merged))
	for i, r := range merged {
		byID[r.ID] = i
	}

	c.mu.Lock()
	c.recipes = merged
	c.byID = byID
	c.loadedAt = time.Now()
	c.mu.Unlock()

	observability.CatalogSize.Set(float64(len(merged)))
	log.Info().
		Int("recipes", len(merged)).
		Int("failed_letters", nFailed).
		Dur("took", time.Since(start)).
		Msg("catalog loaded")
	return nil
}

// sortByName orders recipes by display name with a locale-aware collator,
// falling back to id for equal names so the order is total.
func sortByName(rs []domain.Recipe) {
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(rs, func(i, j int) bool {
		if c := col.CompareString(rs[i].Name, rs[j].Name); c != 0 {
			return c < 0
		}
		return rs[i].ID < rs[j].ID
	})
}
