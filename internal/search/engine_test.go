package search

import (
	"math/rand/v2"
	"net/url"
	"testing"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// ---------- helpers ----------
func recipe(id, name, alcoholic, glass string, ingredients ...string) domain.Recipe {
	r := domain.Recipe{ID: id, Name: name, Alcoholic: alcoholic, Glass: glass}
	for _, in := range ingredients {
		r.Ingredients = append(r.Ingredients, domain.Ingredient{Name: in})
	}
	return r
}

func ids(rs []domain.Recipe) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func mustSelect(t *testing.T, pairs map[Category]string) Selection {
	t.Helper()
	s, err := NewSelection(pairs)
	if err != nil {
		t.Fatalf("NewSelection(%v): %v", pairs, err)
	}
	return s
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleCatalog() []domain.Recipe {
	return []domain.Recipe{
		recipe("1", "Aviation", "Alcoholic", "Cocktail glass", "Gin", "Maraschino liqueur", "Lemon juice"),
		recipe("2", "B-52", "Alcoholic", "Shot glass", "Kahlua", "Baileys irish cream", "Grand Marnier"),
		recipe("3", "Virgin Mojito", "Non alcoholic", "Highball glass", "Mint", "Lime juice", "Soda water"),
		recipe("4", "Old Fashioned", "Alcoholic", "Old-fashioned glass", "Bourbon", "Angostura bitters", "Sugar"),
		recipe("5", "White Russian", "Alcoholic", "Old-fashioned glass", "Vodka", "Coffee liqueur", "Light cream"),
	}
}

// ---------- slot windows ----------
func TestApply_WindowCountsSlotsNotIngredients(t *testing.T) {
	e := NewEngine()
	r := domain.Recipe{ID: "g", Ingredients: []domain.Ingredient{
		{Name: "Vodka", Slot: 1},
		{Name: "Milk", Slot: 6},
		{Name: "Nutmeg", Slot: 7},
		{Name: "Tabasco", Slot: 10},
		{Name: "Diet soda", Slot: 15},
	}}
	cases := []struct {
		cat  Category
		val  string
		want bool
	}{
		{CategoryDietary, "Vegan", true},
		{CategoryDietary, "No Dairy", true},
		{CategorySeason, "Winter", false},
		{CategoryTaste, "Spicy", false},
		{CategoryDietary, "Low-Calorie", true},
	}
	for _, tc := range cases {
		sel := mustSelect(t, map[Category]string{tc.cat: tc.val})
		if got := len(e.Apply([]domain.Recipe{r}, sel)) == 1; got != tc.want {
			t.Fatalf("%s=%s included=%v; want %v", tc.cat, tc.val, got, tc.want)
		}
	}

	// Same ingredients packed into consecutive slots fall inside the window.
	packed := recipe("p", "Packed", "Alcoholic", "", "Vodka", "Milk", "Nutmeg")
	if got := e.Apply([]domain.Recipe{packed}, mustSelect(t, map[Category]string{CategoryDietary: "Vegan"})); len(got) != 0 {
		t.Fatalf("milk in slot 2 should fail Vegan")
	}
}

// ---------- empty slots and identity ----------
func TestApply_EmptySlotsNeverMatch(t *testing.T) {
	e := NewEngine()
	r := domain.Recipe{ID: "x", Ingredients: []domain.Ingredient{{Name: ""}, {Name: "   "}}}
	for _, cat := range []Category{CategoryTaste, CategorySeason, CategorySpirit} {
		for _, o := range Options() {
			if o.Category != cat {
				continue
			}
			for _, v := range o.Values {
				sel := mustSelect(t, map[Category]string{cat: v})
				if got := e.Apply([]domain.Recipe{r}, sel); len(got) != 0 {
					t.Fatalf("%s=%s matched a recipe with only blank slots", cat, v)
				}
			}
		}
	}
	// Exclusion rules pass: blank slots contain nothing disqualifying.
	sel := mustSelect(t, map[Category]string{CategoryDietary: "Vegan"})
	if got := e.Apply([]domain.Recipe{r}, sel); len(got) != 1 {
		t.Fatalf("Vegan should accept a recipe with blank slots")
	}
}

func TestApply_EmptySelectionIsIdentity(t *testing.T) {
	cat := sampleCatalog()
	got := NewEngine().Apply(cat, Selection{})
	if !sameIDs(ids(got), ids(cat)) {
		t.Fatalf("identity broken: %v vs %v", ids(got), ids(cat))
	}
	got[0].Name = "mutated"
	if cat[0].Name == "mutated" {
		t.Fatalf("Apply must not alias the input slice")
	}
}

// ---------- per-category ----------
func TestApply_Spirit(t *testing.T) {
	e := NewEngine()
	jack := recipe("1", "Jack & Coke", "Alcoholic", "Highball glass", "Jack Daniels Whiskey", "Coca-Cola")
	if got := e.Apply([]domain.Recipe{jack}, mustSelect(t, map[Category]string{CategorySpirit: "Whiskey"})); len(got) != 1 {
		t.Fatalf("Whiskey should match %q", "Jack Daniels Whiskey")
	}
	if got := e.Apply([]domain.Recipe{jack}, mustSelect(t, map[Category]string{CategorySpirit: "Rum"})); len(got) != 0 {
		t.Fatalf("Rum must not match a whiskey recipe")
	}

	// Generic spirits need an exact (case-insensitive) ingredient name.
	flavored := recipe("2", "Cosmo", "Alcoholic", "Cocktail glass", "Citrus Vodka")
	plain := recipe("3", "Screwdriver", "Alcoholic", "Highball glass", "vodka", "Orange juice")
	got := e.Apply([]domain.Recipe{flavored, plain}, mustSelect(t, map[Category]string{CategorySpirit: "vodka"}))
	if !sameIDs(ids(got), []string{"3"}) {
		t.Fatalf("Vodka: got %v; want [3]", ids(got))
	}

	rum := recipe("4", "Daiquiri", "Alcoholic", "Cocktail glass", "Light rum", "Lime")
	if got := e.Apply([]domain.Recipe{rum}, mustSelect(t, map[Category]string{CategorySpirit: "Rum"})); len(got) != 1 {
		t.Fatalf("Rum should match light rum")
	}
}

func TestApply_Dietary(t *testing.T) {
	e := NewEngine()
	milk := recipe("1", "A", "Alcoholic", "", "Vodka", "Milk")
	lime := recipe("2", "B", "Alcoholic", "", "Vodka", "Lime juice")
	for _, v := range []string{"Vegan", "No Dairy"} {
		got := e.Apply([]domain.Recipe{milk, lime}, mustSelect(t, map[Category]string{CategoryDietary: v}))
		if !sameIDs(ids(got), []string{"2"}) {
			t.Fatalf("%s: got %v; want [2]", v, ids(got))
		}
	}

	// Disqualifying ingredient beyond slot 5 is not inspected.
	late := recipe("3", "C", "Alcoholic", "", "a", "b", "c", "d", "e", "Milk")
	if got := e.Apply([]domain.Recipe{late}, mustSelect(t, map[Category]string{CategoryDietary: "Vegan"})); len(got) != 1 {
		t.Fatalf("Vegan window should stop at 5 slots")
	}

	// Low-Calorie looks at every slot.
	diet := recipe("4", "D", "Alcoholic", "", "a", "b", "c", "d", "e", "f", "Diet coke")
	if got := e.Apply([]domain.Recipe{diet}, mustSelect(t, map[Category]string{CategoryDietary: "Low-Calorie"})); len(got) != 1 {
		t.Fatalf("Low-Calorie should inspect all slots")
	}
}

func TestApply_MocktailAndTaste(t *testing.T) {
	e := NewEngine()
	virgin := recipe("1", "Mint Cooler", "Non alcoholic", "", "Mint", "Soda water")
	boozy := recipe("2", "Mint Cooler", "Alcoholic", "", "Mint", "Soda water")
	optional := recipe("3", "Maybe", "Optional alcohol", "", "Basil")
	sel := mustSelect(t, map[Category]string{CategoryType: "Mocktail", CategoryTaste: "Herbal"})
	got := e.Apply([]domain.Recipe{virgin, boozy, optional}, sel)
	if !sameIDs(ids(got), []string{"1", "3"}) {
		t.Fatalf("Mocktail+Herbal: got %v; want [1 3]", ids(got))
	}
}

func TestApply_TasteWindowIsNine(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "Sugar"}
	r := recipe("1", "Long", "Alcoholic", "", names...)
	if got := NewEngine().Apply([]domain.Recipe{r}, mustSelect(t, map[Category]string{CategoryTaste: "Sweet"})); len(got) != 0 {
		t.Fatalf("taste must only inspect the first 9 slots")
	}
}

func TestApply_TypeShotAndCocktail(t *testing.T) {
	e := NewEngine()
	cat := sampleCatalog()
	got := e.Apply(cat, mustSelect(t, map[Category]string{CategoryType: "Shot"}))
	if !sameIDs(ids(got), []string{"2"}) {
		t.Fatalf("Shot: got %v; want [2]", ids(got))
	}
	got = e.Apply(cat, mustSelect(t, map[Category]string{CategoryType: "Cocktail"}))
	if len(got) != len(cat) {
		t.Fatalf("Cocktail must impose no constraint, got %d", len(got))
	}
}

func TestApply_Caffeine(t *testing.T) {
	e := NewEngine()
	cat := sampleCatalog()
	yes := e.Apply(cat, mustSelect(t, map[Category]string{CategoryCaffeine: "Yes"}))
	if !sameIDs(ids(yes), []string{"2", "5"}) {
		t.Fatalf("caffeine Yes: got %v", ids(yes))
	}
	no := e.Apply(cat, mustSelect(t, map[Category]string{CategoryCaffeine: "no"}))
	if !sameIDs(ids(no), []string{"1", "3", "4"}) {
		t.Fatalf("caffeine No: got %v", ids(no))
	}
}

func TestApply_GlasswareAndSeason(t *testing.T) {
	e := NewEngine()
	cat := sampleCatalog()
	got := e.Apply(cat, mustSelect(t, map[Category]string{CategoryGlassware: "OLD-FASHIONED"}))
	if !sameIDs(ids(got), []string{"4", "5"}) {
		t.Fatalf("glassware: got %v", ids(got))
	}
	got = e.Apply(cat, mustSelect(t, map[Category]string{CategorySeason: "Summer"}))
	if !sameIDs(ids(got), []string{"1", "3"}) {
		t.Fatalf("Summer: got %v", ids(got))
	}
}

func TestApply_ConjunctionPreservesOrder(t *testing.T) {
	e := NewEngine()
	cat := sampleCatalog()
	sel := mustSelect(t, map[Category]string{
		CategoryGlassware: "glass",
		CategoryDietary:   "Gluten-Free",
	})
	got := e.Apply(cat, sel)
	if !sameIDs(ids(got), ids(cat)) {
		t.Fatalf("order not preserved: %v", ids(got))
	}
	sel = mustSelect(t, map[Category]string{CategorySpirit: "Whiskey", CategoryTaste: "Bitter"})
	if got := e.Apply(cat, sel); !sameIDs(ids(got), []string{"4"}) {
		t.Fatalf("Whiskey+Bitter: got %v", ids(got))
	}
}

// ---------- search / shuffle ----------
func TestSearch(t *testing.T) {
	e := NewEngine()
	cat := sampleCatalog()
	if got := e.Search(cat, "  RUSS "); !sameIDs(ids(got), []string{"5"}) {
		t.Fatalf("Search: got %v", ids(got))
	}
	if got := e.Search(cat, ""); len(got) != len(cat) {
		t.Fatalf("blank query should return everything")
	}
	if got := e.Search(cat, "zzz"); len(got) != 0 {
		t.Fatalf("expected no hits, got %v", ids(got))
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	e := NewEngine(WithRand(rand.New(rand.NewPCG(1, 2))))
	cat := sampleCatalog()
	got := e.Shuffle(cat)
	if len(got) != len(cat) {
		t.Fatalf("len = %d; want %d", len(got), len(cat))
	}
	seen := map[string]int{}
	for _, r := range got {
		seen[r.ID]++
	}
	for _, r := range cat {
		if seen[r.ID] != 1 {
			t.Fatalf("id %s appears %d times", r.ID, seen[r.ID])
		}
	}
	if cat[0].ID != "1" {
		t.Fatalf("Shuffle must not reorder its input")
	}

	// Same seed, same permutation.
	again := NewEngine(WithRand(rand.New(rand.NewPCG(1, 2)))).Shuffle(cat)
	if !sameIDs(ids(got), ids(again)) {
		t.Fatalf("seeded shuffle not deterministic")
	}
	if out := NewEngine().Shuffle(nil); len(out) != 0 {
		t.Fatalf("Shuffle(nil) = %v", out)
	}
}

// ---------- selection ----------
func TestSelection_Toggle(t *testing.T) {
	var s Selection
	on, err := s.Toggle(CategoryTaste, "sweet")
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	if v, _ := s.Get(CategoryTaste); v != "Sweet" {
		t.Fatalf("value not canonicalised: %q", v)
	}
	on, err = s.Toggle(CategoryTaste, "Sour")
	if err != nil || !on {
		t.Fatalf("switch toggle: on=%v err=%v", on, err)
	}
	on, err = s.Toggle(CategoryTaste, "Sour")
	if err != nil || on || !s.IsEmpty() {
		t.Fatalf("re-select should clear: on=%v err=%v sel=%v", on, err, s.Values())
	}
}

func TestSelection_Errors(t *testing.T) {
	var s Selection
	if err := s.Set(CategorySpirit, "Mezcal"); err != ErrUnknownValue {
		t.Fatalf("err = %v; want ErrUnknownValue", err)
	}
	if err := s.Set(Category("color"), "red"); err != ErrUnknownCategory {
		t.Fatalf("err = %v; want ErrUnknownCategory", err)
	}
	if _, err := s.Toggle(CategoryType, "Punch"); err != ErrUnknownValue {
		t.Fatalf("toggle err = %v; want ErrUnknownValue", err)
	}
	if _, err := NewSelection(map[Category]string{"color": "red"}); err != ErrUnknownCategory {
		t.Fatalf("NewSelection err = %v", err)
	}
	_ = s.Set(CategorySeason, "Fall")
	if err := s.Set(CategorySeason, " "); err != nil || !s.IsEmpty() {
		t.Fatalf("blank Set should clear: err=%v", err)
	}
}

func TestParseSelection(t *testing.T) {
	q := url.Values{}
	q.Set("spirit", "gin")
	q.Set("glassware", " Coupe ")
	q.Set("season", "")
	q.Set("q", "ignored")
	s, err := ParseSelection(q)
	if err != nil {
		t.Fatalf("ParseSelection: %v", err)
	}
	if v, _ := s.Get(CategorySpirit); v != "Gin" {
		t.Fatalf("spirit = %q", v)
	}
	if v, _ := s.Get(CategoryGlassware); v != "Coupe" {
		t.Fatalf("glassware = %q", v)
	}
	if _, ok := s.Get(CategorySeason); ok {
		t.Fatalf("empty season should be ignored")
	}

	q.Set("taste", "umami")
	if _, err := ParseSelection(q); err != ErrUnknownValue {
		t.Fatalf("err = %v; want ErrUnknownValue", err)
	}
}

func TestOptions_CoversEveryCategory(t *testing.T) {
	opts := Options()
	if len(opts) != len(Categories) {
		t.Fatalf("len = %d", len(opts))
	}
	for i, o := range opts {
		if o.Category != Categories[i] {
			t.Fatalf("order mismatch at %d: %s", i, o.Category)
		}
		if o.Category == CategoryGlassware {
			if !o.FreeText {
				t.Fatalf("glassware should be free text")
			}
			continue
		}
		if len(o.Values) == 0 {
			t.Fatalf("%s has no values", o.Category)
		}
	}
}
