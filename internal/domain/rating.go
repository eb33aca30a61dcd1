package domain

import (
	"math"
	"strconv"
	"time"
)

// Star bounds of the fixed histogram domain.
const (
	MinStar = 1
	MaxStar = 5
)

// RatingHistogram counts votes per star value for one recipe. Buckets only
// ever grow; there is no vote retraction.
type RatingHistogram struct {
	RecipeID  string    `json:"recipe_id" gorm:"type:varchar(64);primaryKey"`
	Star1     int64     `json:"-"         gorm:"column:star_1;not null;default:0"`
	Star2     int64     `json:"-"         gorm:"column:star_2;not null;default:0"`
	Star3     int64     `json:"-"         gorm:"column:star_3;not null;default:0"`
	Star4     int64     `json:"-"         gorm:"column:star_4;not null;default:0"`
	Star5     int64     `json:"-"         gorm:"column:star_5;not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for RatingHistogram.
func (RatingHistogram) TableName() string { return "ratings" }

// ValidStar reports whether s is inside the 1..5 domain.
func ValidStar(s int) bool { return s >= MinStar && s <= MaxStar }

// StarColumn returns the column holding the bucket for star s.
func StarColumn(s int) string { return "star_" + strconv.Itoa(s) }

func (h *RatingHistogram) bucket(s int) *int64 {
	switch s {
	case 1:
		return &h.Star1
	case 2:
		return &h.Star2
	case 3:
		return &h.Star3
	case 4:
		return &h.Star4
	case 5:
		return &h.Star5
	}
	return nil
}

// Count returns the votes recorded for star s (0 outside the domain).
func (h RatingHistogram) Count(s int) int64 {
	if b := h.bucket(s); b != nil {
		return *b
	}
	return 0
}

// Add records one vote for star s in memory. Out-of-domain values are ignored.
func (h *RatingHistogram) Add(s int) {
	if b := h.bucket(s); b != nil {
		*b++
	}
}

// SetCount overwrites the bucket for star s.
func (h *RatingHistogram) SetCount(s int, n int64) {
	if b := h.bucket(s); b != nil {
		*b = n
	}
}

// Total is the number of votes across all buckets.
func (h RatingHistogram) Total() int64 {
	return h.Star1 + h.Star2 + h.Star3 + h.Star4 + h.Star5
}

// Average is the vote-weighted mean rounded to one decimal place, or 0 when
// no votes exist.
func (h RatingHistogram) Average() float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	var sum int64
	for s := MinStar; s <= MaxStar; s++ {
		sum += int64(s) * h.Count(s)
	}
	return math.Round(float64(sum)/float64(total)*10) / 10
}

// Counts returns the buckets keyed "1".."5", the document-store shape.
func (h RatingHistogram) Counts() map[string]int64 {
	out := make(map[string]int64, MaxStar)
	for s := MinStar; s <= MaxStar; s++ {
		out[strconv.Itoa(s)] = h.Count(s)
	}
	return out
}

// RatingSnapshot is the published and served view of a histogram.
type RatingSnapshot struct {
	RecipeID string           `json:"recipe_id" example:"11007"`
	Ratings  map[string]int64 `json:"ratings"`
	Total    int64            `json:"total"     example:"3"`
	Average  float64          `json:"average"   example:"4.3"`
}

// Snapshot builds the served view of h.
func (h RatingHistogram) Snapshot() RatingSnapshot {
	return RatingSnapshot{
		RecipeID: h.RecipeID,
		Ratings:  h.Counts(),
		Total:    h.Total(),
		Average:  h.Average(),
	}
}

// FavoritesSnapshot is the published view of a user's favorites set,
// most-recently-added first.
type FavoritesSnapshot struct {
	UserID string   `json:"user_id"`
	IDs    []string `json:"ids"`
}
