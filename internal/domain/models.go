// Package domain defines the cocktail read models and the persistence models
// for user profiles, favorites, rating histograms and user-submitted recipes.
// The persistence types are mapped with GORM; the document store backend
// converts them to and from its own BSON documents.
package domain

import (
	"strconv"
	"time"
)

// UserProfile is the per-user document created at sign-up.
//
// Fields:
//   - ID: external user identifier (subject of the auth token).
//   - IsOver18: must be true; profiles for minors are rejected upstream.
//   - CreatedAt: set once on first save.
type UserProfile struct {
	ID        string    `json:"id"          gorm:"type:varchar(128);primaryKey"`
	Email     string    `json:"email"       gorm:"type:varchar(255);not null;default:''"`
	FullName  string    `json:"full_name"   gorm:"type:varchar(255);not null"`
	IsOver18  bool      `json:"is_over_18"  gorm:"column:is_over18;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "users_info" }

// Favorite is one member of a user's favorites set. The (user_id, recipe_id)
// pair is unique so adding twice is a no-op; ID grows with insertion order
// and gives the most-recently-added-first listing.
type Favorite struct {
	ID        uint64    `json:"-"          gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(128);not null;uniqueIndex:ux_favorite_user_recipe,priority:1"`
	RecipeID  string    `json:"recipe_id"  gorm:"type:varchar(64);not null;uniqueIndex:ux_favorite_user_recipe,priority:2"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }

// RecipeRow is one line of a submitted recipe: a free-text amount and an
// ingredient name.
type RecipeRow struct {
	Number     string `json:"number"     example:"2"`
	Ingredient string `json:"ingredient" example:"Gin"`
}

// Complete reports whether both the amount and the ingredient are present.
func (r RecipeRow) Complete() bool {
	return trimmed(r.Number) != "" && trimmed(r.Ingredient) != ""
}

// Submission is a user-submitted recipe, keyed by a slug derived from its
// name. UniqueID is the sequential numeric identifier (>= 50); it is nullable
// so legacy rows without one are ignored by the allocator.
type Submission struct {
	Slug         string      `json:"slug"          gorm:"type:varchar(255);primaryKey"`
	UniqueID     *int64      `json:"unique_id"     gorm:"uniqueIndex:ux_cocktails_unique_id"`
	Name         string      `json:"name"          gorm:"type:varchar(255);not null;index"`
	Type         string      `json:"type"          gorm:"type:varchar(16);not null"`
	Recipe       []RecipeRow `json:"recipe"        gorm:"type:text;serializer:json"`
	Instructions string      `json:"instructions"  gorm:"type:text;not null"`
	SubmittedBy  string      `json:"submitted_by,omitempty" gorm:"type:varchar(128);index"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "cocktails" }

// ToRecipe converts the submission to the common read model.
func (s Submission) ToRecipe() Recipe {
	r := Recipe{
		ID:           s.Slug,
		Name:         s.Name,
		Category:     s.Type,
		Alcoholic:    "Alcoholic",
		Instructions: s.Instructions,
		Source:       SourceCommunity,
	}
	if s.UniqueID != nil {
		r.ID = strconv.FormatInt(*s.UniqueID, 10)
	}
	if s.Type == TypeMocktail {
		r.Alcoholic = "Non alcoholic"
	}
	if s.Type == TypeShot {
		r.Glass = "Shot glass"
	}
	r.Ingredients = make([]Ingredient, 0, len(s.Recipe))
	for i, row := range s.Recipe {
		if trimmed(row.Ingredient) == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, Ingredient{Name: trimmed(row.Ingredient), Measure: trimmed(row.Number), Slot: i + 1})
	}
	return r
}
