// Package measure rescales free-text ingredient measures for display. Catalog
// measures are assumed to be fluid ounces.
package measure

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// Unit names accepted by Convert.
const (
	UnitOz = "oz"
	UnitMl = "ml"
	UnitCl = "cl"
)

// Factors maps a display unit to its multiplier from ounces.
var Factors = map[string]float64{
	UnitOz: 1,
	UnitMl: 30,
	UnitCl: 3,
}

// Servings lists the accepted serving multipliers.
var Servings = []int{1, 2, 4, 8}

var (
	// ErrUnit is returned for a unit outside Factors.
	ErrUnit = errors.New("unit must be oz, ml or cl")
	// ErrServings is returned for a servings count outside Servings.
	ErrServings = errors.New("servings must be 1, 2, 4 or 8")
)

// leadingNumber mirrors JavaScript parseFloat: leading whitespace, optional
// sign, digits with an optional fraction, optional exponent. Anything after
// is ignored.
var leadingNumber = regexp.MustCompile(`^\s*([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// Validate normalizes unit (default oz) and servings (default 1).
func Validate(unit string, servings int) (string, int, error) {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		unit = UnitOz
	}
	if _, ok := Factors[unit]; !ok {
		return "", 0, ErrUnit
	}
	if servings == 0 {
		servings = 1
	}
	for _, s := range Servings {
		if s == servings {
			return unit, servings, nil
		}
	}
	return "", 0, ErrServings
}

// Convert rescales the leading amount of measure. Measures without a leading
// number ("Dash", "Top up") come back unchanged.
//
//	Convert("1 1/2 oz", "ml", 2) == "60.0 ml"
func Convert(measure, unit string, servings int) string {
	m := leadingNumber.FindStringSubmatch(measure)
	if m == nil {
		return measure
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return measure
	}
	f, ok := Factors[unit]
	if !ok {
		return measure
	}
	return fmt.Sprintf("%.1f %s", v*f*float64(servings), unit)
}

// ConvertRecipe returns a copy of r with every measure rescaled. The default
// view (oz, one serving) leaves measures untouched.
func ConvertRecipe(r domain.Recipe, unit string, servings int) domain.Recipe {
	out := r.Clone()
	if unit == UnitOz && servings == 1 {
		return out
	}
	for i := range out.Ingredients {
		out.Ingredients[i].Measure = Convert(out.Ingredients[i].Measure, unit, servings)
	}
	return out
}
