package docstore

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// Collection names.
const (
	UsersCollection       = "USERSinfo"
	RatingsCollection     = "Ratings"
	CocktailsCollection   = "cocktails"
	IdempotencyCollection = "idempotency"
)

const uniqueIDIndex = "ux_uniqueId"

// favoritesField is the capitalised array key existing USERSinfo documents use.
const favoritesField = "Favorites"

// userDoc is one USERSinfo document. Favorites is appended to in insertion
// order.
type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email,omitempty"`
	FullName  string    `bson:"fullName,omitempty"`
	IsOver18  bool      `bson:"isOver18"`
	Favorites []string  `bson:"Favorites,omitempty"`
	CreatedAt time.Time `bson:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}

func (d userDoc) profile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:        d.ID,
		Email:     d.Email,
		FullName:  d.FullName,
		IsOver18:  d.IsOver18,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ratingDoc is one Ratings document keyed by recipe id, with buckets "1".."5".
type ratingDoc struct {
	ID        string           `bson:"_id"`
	Ratings   map[string]int64 `bson:"ratings"`
	UpdatedAt time.Time        `bson:"updatedAt"`
}

func (d ratingDoc) histogram() *domain.RatingHistogram {
	h := &domain.RatingHistogram{RecipeID: d.ID, UpdatedAt: d.UpdatedAt}
	for k, n := range d.Ratings {
		if s, err := strconv.Atoi(k); err == nil {
			h.SetCount(s, n)
		}
	}
	return h
}

// ratingUpdate adds one vote to star. Every bucket is touched with $inc so a
// freshly upserted document starts with all five buckets present.
func ratingUpdate(star int, now time.Time) bson.M {
	inc := bson.M{}
	for s := domain.MinStar; s <= domain.MaxStar; s++ {
		var n int64
		if s == star {
			n = 1
		}
		inc["ratings."+strconv.Itoa(s)] = n
	}
	return bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": now},
	}
}

type rowDoc struct {
	Number     string `bson:"number"`
	Ingredient string `bson:"ingredient"`
}

// cocktailDoc is one submitted recipe keyed by slug.
type cocktailDoc struct {
	Slug         string    `bson:"_id"`
	UniqueID     *int64    `bson:"uniqueId,omitempty"`
	Name         string    `bson:"name"`
	Type         string    `bson:"type"`
	Recipe       []rowDoc  `bson:"recipe"`
	Instructions string    `bson:"instructions"`
	SubmittedBy  string    `bson:"submittedBy,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func cocktailFrom(s *domain.Submission) cocktailDoc {
	rows := make([]rowDoc, len(s.Recipe))
	for i, r := range s.Recipe {
		rows[i] = rowDoc{Number: r.Number, Ingredient: r.Ingredient}
	}
	return cocktailDoc{
		Slug:         s.Slug,
		UniqueID:     s.UniqueID,
		Name:         s.Name,
		Type:         s.Type,
		Recipe:       rows,
		Instructions: s.Instructions,
		SubmittedBy:  s.SubmittedBy,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (d cocktailDoc) submission() domain.Submission {
	rows := make([]domain.RecipeRow, len(d.Recipe))
	for i, r := range d.Recipe {
		rows[i] = domain.RecipeRow{Number: r.Number, Ingredient: r.Ingredient}
	}
	return domain.Submission{
		Slug:         d.Slug,
		UniqueID:     d.UniqueID,
		Name:         d.Name,
		Type:         d.Type,
		Recipe:       rows,
		Instructions: d.Instructions,
		SubmittedBy:  d.SubmittedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type idempotencyDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"userId"`
	Scope      string    `bson:"scope"`
	Key        string    `bson:"key"`
	ResourceID string    `bson:"resourceId"`
	Status     int       `bson:"status"`
	CreatedAt  time.Time `bson:"createdAt"`
	ExpiresAt  time.Time `bson:"expiresAt"`
}

func (d idempotencyDoc) record() *domain.Idempotency {
	return &domain.Idempotency{
		ID:         d.ID,
		UserID:     d.UserID,
		Scope:      d.Scope,
		Key:        d.Key,
		ResourceID: d.ResourceID,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		ExpiresAt:  d.ExpiresAt,
	}
}

// newestFirst returns ids in reverse insertion order.
func newestFirst(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// classifyWrite maps a duplicate key failure to the shared sentinels.
func classifyWrite(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if mentionsIndex(err, uniqueIDIndex) {
		return domain.ErrDuplicateUniqueID
	}
	return domain.ErrDuplicateKey
}

func mentionsIndex(err error, index string) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, index) {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), index)
}
