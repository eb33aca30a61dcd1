package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// envelope is the outer shape of every drinks/ingredients response. Drinks
// stays raw because the API answers with null, an array, or the string
// "no data found" depending on the endpoint.
type envelope struct {
	Drinks      json.RawMessage `json:"drinks"`
	Ingredients json.RawMessage `json:"ingredients"`
}

// drinkDTO is one upstream record. Values are read loosely since slot fields
// are frequently null.
type drinkDTO map[string]any

type ingredientDTO struct {
	ID          string  `json:"idIngredient"`
	Name        string  `json:"strIngredient"`
	Description *string `json:"strDescription"`
	Type        *string `json:"strType"`
	Alcohol     *string `json:"strAlcohol"`
	ABV         *string `json:"strABV"`
}

// decodeDrinks parses a drinks response. Null, absent and non-array payloads
// yield no records; malformed JSON is an error.
func decodeDrinks(body []byte) ([]drinkDTO, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode drinks: %w", err)
	}
	return decodeArray[drinkDTO](env.Drinks)
}

func decodeIngredientInfos(body []byte) ([]ingredientDTO, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return decodeArray[ingredientDTO](env.Ingredients)
}

func decodeArray[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	return out, nil
}

func (d drinkDTO) str(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// toRecipe maps an upstream record onto the read model. Blank ingredient
// names are dropped but each kept ingredient remembers its slot; a name
// without a measure keeps an empty measure.
func (d drinkDTO) toRecipe() domain.Recipe {
	r := domain.Recipe{
		ID:           strings.TrimSpace(d.str("idDrink")),
		Name:         strings.TrimSpace(d.str("strDrink")),
		Category:     d.str("strCategory"),
		Alcoholic:    d.str("strAlcoholic"),
		Glass:        d.str("strGlass"),
		Thumb:        d.str("strDrinkThumb"),
		Instructions: d.str("strInstructions"),
		Source:       domain.SourceCatalog,
		Ingredients:  make([]domain.Ingredient, 0, 4),
	}
	for i := 1; i <= domain.MaxIngredients; i++ {
		name := strings.TrimSpace(d.str("strIngredient" + strconv.Itoa(i)))
		if name == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, domain.Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(d.str("strMeasure" + strconv.Itoa(i))),
			Slot:    i,
		})
	}
	return r
}

func (d ingredientDTO) toInfo() domain.IngredientInfo {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}
	return domain.IngredientInfo{
		ID:          d.ID,
		Name:        strings.TrimSpace(d.Name),
		Description: deref(d.Description),
		Type:        deref(d.Type),
		Alcoholic:   strings.EqualFold(deref(d.Alcohol), "yes"),
		ABV:         deref(d.ABV),
	}
}
