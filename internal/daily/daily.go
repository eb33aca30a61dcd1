// Package daily memoizes one random catalog recipe per calendar day in a
// small badger key-value store, so the "cocktail of the day" survives
// restarts and stays stable for the whole day.
package daily

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// Storage keys.
const (
	KeyRecipe = "cocktailOfTheDay"
	KeyDate   = "cocktailDate"
)

// DateLayout renders a day the way the stored date key is compared
// ("Thu Oct 15 2026").
const DateLayout = "Mon Jan 02 2006"

// RandomSource yields one random recipe.
type RandomSource interface {
	Random(ctx context.Context) (*domain.Recipe, error)
}

// Open opens a badger database at path. An empty path keeps everything in
// memory.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open daily cache: %w", err)
	}
	return db, nil
}

// Store serves the recipe of the day.
type Store struct {
	db  *badger.DB
	src RandomSource
	now func() time.Time

	mu sync.Mutex
}

// New wires a Store over an open badger database.
func New(db *badger.DB, src RandomSource) *Store {
	return &Store{db: db, src: src, now: time.Now}
}

// Today returns the memoized recipe when it was stored today. Otherwise it
// fetches a fresh one and stores it. If the fetch fails, yesterday's recipe
// is served when available.
func (s *Store) Today(ctx context.Context) (*domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format(DateLayout)
	stored, date, err := s.read()
	if err != nil {
		log.Warn().Err(err).Msg("daily cache read failed")
	}
	if stored != nil && date == today {
		return stored, nil
	}

	fresh, ferr := s.src.Random(ctx)
	if ferr != nil {
		if stored != nil {
			log.Warn().Err(ferr).Str("stored_date", date).Msg("daily fetch failed; serving stale recipe")
			return stored, nil
		}
		return nil, ferr
	}
	if err := s.write(fresh, today); err != nil {
		log.Warn().Err(err).Msg("daily cache write failed")
	}
	return fresh, nil
}

func (s *Store) read() (*domain.Recipe, string, error) {
	var (
		r    *domain.Recipe
		date string
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(KeyRecipe))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			var out domain.Recipe
			if err := json.Unmarshal(val, &out); err != nil {
				return err
			}
			r = &out
			return nil
		}); err != nil {
			return err
		}
		if item, err = txn.Get([]byte(KeyDate)); err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			date = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return r, date, nil
	}
	return r, date, err
}

func (s *Store) write(r *domain.Recipe, date string) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(KeyRecipe), data); err != nil {
			return err
		}
		return txn.Set([]byte(KeyDate), []byte(date))
	})
}
