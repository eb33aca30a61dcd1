package domain

import "strings"

// MaxIngredients is the number of ingredient/measure slots a catalog record carries.
const MaxIngredients = 15

// Recipe sources.
const (
	SourceCatalog   = "catalog"
	SourceSeasonal  = "seasonal"
	SourceCommunity = "community"
)

// Recipe types accepted by the type filter and by submissions.
const (
	TypeCocktail = "Cocktail"
	TypeMocktail = "Mocktail"
	TypeShot     = "Shot"
)

// Ingredient is one (name, measure) pair. Measure is free text and may be empty.
// Slot is the 1-based source slot; gaps left by empty slots are preserved.
type Ingredient struct {
	Name    string `json:"name"              example:"Lime juice"`
	Measure string `json:"measure,omitempty" example:"1 oz"`
	Slot    int    `json:"slot,omitempty"    example:"2"`
}

// SlotOf returns the source slot of the i-th ingredient of r, falling back to
// its position when the slot was never recorded.
func (r Recipe) SlotOf(i int) int {
	if s := r.Ingredients[i].Slot; s > 0 {
		return s
	}
	return i + 1
}

// Recipe is the read model for a drink, whether it comes from the remote
// catalog, the curated seasonal table, or a user submission.
//
// Ingredients keep the order of the upstream slots with empty slots removed.
type Recipe struct {
	ID           string       `json:"id"                     example:"11007"`
	Name         string       `json:"name"                   example:"Margarita"`
	Category     string       `json:"category,omitempty"     example:"Ordinary Drink"`
	Alcoholic    string       `json:"alcoholic,omitempty"    example:"Alcoholic"`
	Glass        string       `json:"glass,omitempty"        example:"Cocktail glass"`
	Thumb        string       `json:"thumb,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Source       string       `json:"source"                 example:"catalog"`
}

// IsAlcoholic reports whether the alcoholic flag is exactly "Alcoholic"
// (case-insensitive). "Non alcoholic" and "Optional alcohol" are not.
func (r Recipe) IsAlcoholic() bool {
	return strings.EqualFold(strings.TrimSpace(r.Alcoholic), "alcoholic")
}

// Clone returns a copy whose ingredient slice can be modified independently.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(out.Ingredients, r.Ingredients)
	}
	return out
}

// IngredientInfo is the catalog's description of a single ingredient.
type IngredientInfo struct {
	ID          string `json:"id"                    example:"1"`
	Name        string `json:"name"                  example:"Vodka"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"        example:"Vodka"`
	Alcoholic   bool   `json:"alcoholic"`
	ABV         string `json:"abv,omitempty"         example:"40"`
}
