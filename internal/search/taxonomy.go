package search

import (
	"strings"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// Category names one filter dimension. A Selection holds at most one value
// per category.
type Category string

const (
	CategorySpirit    Category = "spirit"
	CategoryTaste     Category = "taste"
	CategoryType      Category = "type"
	CategoryCaffeine  Category = "caffeine"
	CategoryGlassware Category = "glassware"
	CategoryDietary   Category = "dietary"
	CategorySeason    Category = "season"
)

// Categories lists every category in the order they are evaluated.
var Categories = []Category{
	CategorySpirit,
	CategoryTaste,
	CategoryType,
	CategoryCaffeine,
	CategoryGlassware,
	CategoryDietary,
	CategorySeason,
}

// Type and caffeine values.
const (
	TypeCocktail = domain.TypeCocktail
	TypeMocktail = domain.TypeMocktail
	TypeShot     = domain.TypeShot

	CaffeineYes = "Yes"
	CaffeineNo  = "No"
)

// allSlots makes a rule consider every ingredient slot.
const allSlots = domain.MaxIngredients

type matchMode int

const (
	// modeEqualsName: some ingredient name equals the rule value.
	modeEqualsName matchMode = iota
	// modeContainsAny: some ingredient contains any keyword.
	modeContainsAny
	// modeExcludesAll: no ingredient contains any keyword.
	modeExcludesAll
	// modeCompound: modeEqualsName or modeContainsAny.
	modeCompound
)

// rule is the declarative description of one category value.
type rule struct {
	value    string
	mode     matchMode
	window   int
	keywords []string
}

var spiritRules = []rule{
	{value: "Vodka", mode: modeEqualsName, window: allSlots},
	{value: "Gin", mode: modeEqualsName, window: allSlots},
	{value: "Rum", mode: modeCompound, window: allSlots, keywords: []string{
		"light rum", "dark rum", "white rum", "spiced rum", "malibu rum",
	}},
	{value: "Tequila", mode: modeEqualsName, window: allSlots},
	{value: "Whiskey", mode: modeCompound, window: allSlots, keywords: []string{
		"whiskey", "whisky", "bourbon", "rye", "blended", "scotch", "irish", "malt",
	}},
	{value: "Brandy", mode: modeCompound, window: allSlots, keywords: []string{
		"brandy", "cherry brandy",
	}},
	{value: "Aperol", mode: modeEqualsName, window: allSlots},
}

var tasteRules = []rule{
	{value: "Sweet", mode: modeContainsAny, window: 9, keywords: []string{
		"simple syrup", "grenadine", "sugar", "condensed milk", "syrup", "sirup",
		"irish cream", "powdered sugar", "coconut milk",
	}},
	{value: "Sour", mode: modeContainsAny, window: 9, keywords: []string{
		"lemon juice", "lime juice", "lemon",
	}},
	{value: "Spicy", mode: modeContainsAny, window: 9, keywords: []string{
		"tabasco", "jalapeno",
	}},
	{value: "Fruity", mode: modeContainsAny, window: 9, keywords: []string{
		"cherry", "grenadine", "abricot", "strawberry", "passion fruit", "apple",
		"apple juice", "mango", "mango juice", "grapefruit", "grapefruit juice",
		"grape juice", "cranberry", "orange juice",
	}},
	{value: "Bitter", mode: modeContainsAny, window: 9, keywords: []string{
		"bitters", "campari",
	}},
	{value: "Herbal", mode: modeContainsAny, window: 9, keywords: []string{
		"mint", "basil", "rosemary",
	}},
}

var dietaryRules = []rule{
	{value: "Vegan", mode: modeExcludesAll, window: 5, keywords: []string{"egg", "milk"}},
	{value: "No Dairy", mode: modeExcludesAll, window: 5, keywords: []string{"milk", "cream"}},
	{value: "Gluten-Free", mode: modeExcludesAll, window: 5, keywords: []string{"wheat", "barley"}},
	{value: "Low-Calorie", mode: modeContainsAny, window: allSlots, keywords: []string{"diet", "soda"}},
}

var seasonRules = []rule{
	{value: "Winter", mode: modeContainsAny, window: 5, keywords: []string{"cinnamon", "nutmeg", "ginger"}},
	{value: "Summer", mode: modeContainsAny, window: 5, keywords: []string{"lemon", "lime", "mint"}},
	{value: "Spring", mode: modeContainsAny, window: 5, keywords: []string{"berry", "herb"}},
	{value: "Fall", mode: modeContainsAny, window: 5, keywords: []string{"apple", "pumpkin", "spice"}},
}

// caffeineRule is evaluated for presence; "No" inverts the outcome.
var caffeineRule = rule{
	mode:     modeContainsAny,
	window:   5,
	keywords: []string{"coffee", "espresso", "kahlua"},
}

var taxonomy = map[Category][]rule{
	CategorySpirit:  spiritRules,
	CategoryTaste:   tasteRules,
	CategoryDietary: dietaryRules,
	CategorySeason:  seasonRules,
}

var enumerated = map[Category][]string{
	CategoryType:     {TypeCocktail, TypeMocktail, TypeShot},
	CategoryCaffeine: {CaffeineYes, CaffeineNo},
}

// lookupRule returns the rule for a keyword-table category value.
func lookupRule(cat Category, value string) (rule, bool) {
	for _, r := range taxonomy[cat] {
		if strings.EqualFold(r.value, value) {
			return r, true
		}
	}
	return rule{}, false
}

// canonical maps a user-supplied value to the table's spelling. Glassware is
// free text and is returned trimmed.
func canonical(cat Category, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if cat == CategoryGlassware {
		return value, value != ""
	}
	if r, ok := lookupRule(cat, value); ok {
		return r.value, true
	}
	for _, v := range enumerated[cat] {
		if strings.EqualFold(v, value) {
			return v, true
		}
	}
	return "", false
}

// CategoryOptions describes one selectable category and its accepted values.
type CategoryOptions struct {
	Category Category `json:"category"        example:"taste"`
	Values   []string `json:"values"`
	FreeText bool     `json:"free_text,omitempty"`
}

// Options lists every category with its accepted values, in evaluation order.
func Options() []CategoryOptions {
	out := make([]CategoryOptions, 0, len(Categories))
	for _, cat := range Categories {
		o := CategoryOptions{Category: cat}
		switch {
		case cat == CategoryGlassware:
			o.FreeText = true
			o.Values = []string{}
		case len(enumerated[cat]) > 0:
			o.Values = append([]string(nil), enumerated[cat]...)
		default:
			for _, r := range taxonomy[cat] {
				o.Values = append(o.Values, r.value)
			}
		}
		out = append(out, o)
	}
	return out
}
