// Package search implements the recipe filter engine: a declarative taxonomy
// (category → value → rule) consulted by one generic matcher.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options (Option pattern) for the random source
//   - Filtering is stable: catalog order is always preserved
//   - Matching is case-insensitive; empty ingredient slots are skipped
//   - Safe for concurrent use
package search

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	rnd *rand.Rand
}

func defaultConfig() config {
	return config{}
}

// WithRand makes Shuffle draw from r. Useful for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(c *config) {
		if r != nil {
			c.rnd = r
		}
	}
}

// ----------------------------------------------------------------------------
// Engine

// Engine applies selections and text search to recipe slices.
type Engine struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine builds an Engine. Without WithRand, Shuffle uses the global
// math/rand/v2 source.
func NewEngine(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{rnd: cfg.rnd}
}

// Apply returns the recipes of catalog matching every active category of sel,
// in catalog order. An empty selection returns a copy of catalog.
func (e *Engine) Apply(catalog []domain.Recipe, sel Selection) []domain.Recipe {
	if sel.IsEmpty() {
		return append([]domain.Recipe(nil), catalog...)
	}
	out := make([]domain.Recipe, 0, len(catalog))
	for _, r := range catalog {
		if Matches(r, sel) {
			out = append(out, r)
		}
	}
	return out
}

// Search narrows catalog to recipes whose name contains query, ignoring case.
// A blank query returns a copy of catalog.
func (e *Engine) Search(catalog []domain.Recipe, query string) []domain.Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]domain.Recipe(nil), catalog...)
	}
	out := make([]domain.Recipe, 0)
	for _, r := range catalog {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

// Shuffle returns a uniformly shuffled copy of recipes.
func (e *Engine) Shuffle(recipes []domain.Recipe) []domain.Recipe {
	out := append([]domain.Recipe(nil), recipes...)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if e.rnd == nil {
		rand.Shuffle(len(out), swap)
		return out
	}
	// *rand.Rand is not safe for concurrent use.
	e.mu.Lock()
	e.rnd.Shuffle(len(out), swap)
	e.mu.Unlock()
	return out
}

// Matches reports whether r satisfies every active category of sel.
func Matches(r domain.Recipe, sel Selection) bool {
	for _, cat := range Categories {
		v, ok := sel.Get(cat)
		if !ok {
			continue
		}
		if !matchCategory(r, cat, v) {
			return false
		}
	}
	return true
}

func matchCategory(r domain.Recipe, cat Category, value string) bool {
	switch cat {
	case CategoryType:
		return matchType(r, value)
	case CategoryCaffeine:
		has := evaluate(caffeineRule, r)
		if strings.EqualFold(value, CaffeineNo) {
			return !has
		}
		return has
	case CategoryGlassware:
		return strings.Contains(strings.ToLower(r.Glass), strings.ToLower(strings.TrimSpace(value)))
	default:
		rl, ok := lookupRule(cat, value)
		if !ok {
			return false
		}
		return evaluate(rl, r)
	}
}

func matchType(r domain.Recipe, value string) bool {
	switch {
	case strings.EqualFold(value, TypeShot):
		return strings.EqualFold(strings.TrimSpace(r.Glass), "shot glass")
	case strings.EqualFold(value, TypeMocktail):
		return !r.IsAlcoholic()
	default:
		return true
	}
}

// ingredientNames returns the lowercased, non-blank ingredient names held in
// slots 1..window, in slot order. Empty slots still count toward the window.
func ingredientNames(r domain.Recipe, window int) []string {
	names := make([]string, 0, len(r.Ingredients))
	for i, in := range r.Ingredients {
		if window < allSlots && r.SlotOf(i) > window {
			continue
		}
		n := strings.ToLower(strings.TrimSpace(in.Name))
		if n == "" {
			continue
		}
		names = append(names, n)
	}
	return names
}

func evaluate(rl rule, r domain.Recipe) bool {
	names := ingredientNames(r, rl.window)
	switch rl.mode {
	case modeEqualsName:
		return anyEquals(names, rl.value)
	case modeContainsAny:
		return anyContains(names, rl.keywords)
	case modeExcludesAll:
		return !anyContains(names, rl.keywords)
	case modeCompound:
		return anyEquals(names, rl.value) || anyContains(names, rl.keywords)
	default:
		return false
	}
}

func anyEquals(names []string, value string) bool {
	v := strings.ToLower(value)
	for _, n := range names {
		if n == v {
			return true
		}
	}
	return false
}

func anyContains(names, keywords []string) bool {
	for _, n := range names {
		for _, k := range keywords {
			if strings.Contains(n, k) {
				return true
			}
		}
	}
	return false
}
