package catalog

import "github.com/tbourn/go-cocktail-backend/internal/domain"

// PopularIDs is the fixed, ordered list of catalog ids shown as popular.
var PopularIDs = []string{
	"11416", "178323", "17181", "11009", "11005",
	"11003", "17212", "11004", "11001", "17196",
	"11007", "11006", "17253", "11288", "17197",
}

// seasonal is the curated holiday table. Ids 21–28 sit below the submission
// id floor so they never collide with community recipes.
var seasonal = []domain.Recipe{
	seasonalRecipe("21", "Winter Wonderland", "Mix ingredients and serve chilled.",
		"Vodka", "1 oz", "Cranberry juice", "1 oz", "Lime juice", "0.5 oz"),
	seasonalRecipe("22", "Spiced Apple Cider", "Heat cider, mix with rum and garnish with cinnamon.",
		"Rum", "1 oz", "Apple cider", "4 oz", "Cinnamon stick", ""),
	seasonalRecipe("23", "Mistletoe Martini", "Stir with ice and strain into a chilled glass.",
		"Gin", "2 oz", "Vermouth", "1 oz", "Olive", ""),
	seasonalRecipe("24", "Frosty Fizz", "Pour champagne, add elderflower and garnish with lemon.",
		"Champagne", "1 oz", "Elderflower liqueur", "0.5 oz", "Lemon twist", ""),
	seasonalRecipe("25", "Gingerbread Mule", "Mix vodka, ginger beer, and lime juice. Serve in a mule cup.",
		"Vodka", "2 oz", "Ginger beer", "4 oz", "Lime juice", ""),
	seasonalRecipe("26", "Holiday Punch", "Mix ingredients in a punch bowl and serve over ice.",
		"Brandy", "1 oz", "Orange juice", "4 oz", "Cranberry juice", "2 oz"),
	seasonalRecipe("27", "Cranberry Cosmo", "Shake ingredients with ice and strain into a chilled glass.",
		"Vodka", "1 oz", "Triple sec", "1 oz", "Cranberry juice", "0.5 oz"),
	seasonalRecipe("28", "Snowy Night", "Mix bourbon and honey syrup. Garnish with lemon twist.",
		"Bourbon", "2 oz", "Honey syrup", "1 oz", "Lemon twist", ""),
}

var seasonalByID = func() map[string]domain.Recipe {
	m := make(map[string]domain.Recipe, len(seasonal))
	for _, r := range seasonal {
		m[r.ID] = r
	}
	return m
}()

// pairs alternates ingredient name and measure.
func seasonalRecipe(id, name, instructions string, pairs ...string) domain.Recipe {
	r := domain.Recipe{
		ID:           id,
		Name:         name,
		Alcoholic:    "Alcoholic",
		Instructions: instructions,
		Source:       domain.SourceSeasonal,
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Ingredients = append(r.Ingredients, domain.Ingredient{Name: pairs[i], Measure: pairs[i+1], Slot: i/2 + 1})
	}
	return r
}

// Seasonal returns a copy of the curated seasonal table in display order.
func Seasonal() []domain.Recipe {
	out := make([]domain.Recipe, len(seasonal))
	for i, r := range seasonal {
		out[i] = r.Clone()
	}
	return out
}

// SeasonalByID resolves an id against the curated table.
func SeasonalByID(id string) (domain.Recipe, bool) {
	r, ok := seasonalByID[id]
	if !ok {
		return domain.Recipe{}, false
	}
	return r.Clone(), true
}
