package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/http/middleware"
	"github.com/tbourn/go-cocktail-backend/internal/live"
	"github.com/tbourn/go-cocktail-backend/internal/repo"
	"github.com/tbourn/go-cocktail-backend/internal/search"
	"github.com/tbourn/go-cocktail-backend/internal/services"
)

//
// Catalog stub
//

type stubCatalog struct {
	recipes   []domain.Recipe
	err       error
	refreshes int
}

func (s *stubCatalog) match(query string) []domain.Recipe {
	var out []domain.Recipe
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(query)) {
			out = append(out, r)
		}
	}
	return out
}

func (s *stubCatalog) Browse(_ context.Context, q string, _ search.Selection) ([]domain.Recipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.match(q), nil
}

func (s *stubCatalog) Recommend(_ context.Context, _ search.Selection) ([]domain.Recipe, error) {
	return s.recipes, s.err
}

func (s *stubCatalog) Random(ctx context.Context, q string, sel search.Selection) ([]domain.Recipe, error) {
	return s.Browse(ctx, q, sel)
}

func (s *stubCatalog) Refresh(context.Context) (int, error) {
	s.refreshes++
	return len(s.recipes), s.err
}

func (s *stubCatalog) Detail(_ context.Context, id, unit string, servings int) (*domain.Recipe, error) {
	if _, _, err := services.ConversionParams(unit, servings); err != nil {
		return nil, err
	}
	for _, r := range s.recipes {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, services.ErrRecipeNotFound
}

func (s *stubCatalog) Popular(context.Context) []domain.Recipe { return s.recipes[:1] }
func (s *stubCatalog) Seasonal() []domain.Recipe               { return nil }

func (s *stubCatalog) Daily(context.Context) (*domain.Recipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.recipes[0], nil
}

func (s *stubCatalog) Ingredients(context.Context) ([]string, error) {
	return []string{"Gin", "Vodka"}, s.err
}

func (s *stubCatalog) Ingredient(_ context.Context, name string) (*domain.IngredientInfo, error) {
	if !strings.EqualFold(name, "gin") {
		return nil, services.ErrIngredientNotFound
	}
	return &domain.IngredientInfo{ID: "1", Name: "Gin", Alcoholic: true}, nil
}

func (s *stubCatalog) ResolveMany(_ context.Context, ids []string) []domain.Recipe {
	var out []domain.Recipe
	for _, id := range ids {
		for _, r := range s.recipes {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out
}

//
// Test env
//

type testEnv struct {
	r       *gin.Engine
	catalog *stubCatalog
	broker  *live.MemoryBroker
	store   *repo.Store
}

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return repo.NewStore(db)
}

// newEnv wires real services over an in-memory store. Callers identify
// themselves with X-User-ID.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newStore(t)
	cat := &stubCatalog{recipes: []domain.Recipe{
		{ID: "11007", Name: "Margarita", Ingredients: []domain.Ingredient{{Name: "Tequila", Measure: "1 1/2 oz"}}, Source: domain.SourceCatalog},
		{ID: "11000", Name: "Mojito", Ingredients: []domain.Ingredient{{Name: "Light rum", Measure: "2 oz"}}, Source: domain.SourceCatalog},
	}}
	broker := live.NewMemoryBroker(8)
	t.Cleanup(func() { _ = broker.Close() })

	h := New(Deps{
		Catalog:     cat,
		Ratings:     services.NewRatingService(st, broker),
		Favorites:   services.NewFavoriteService(st, cat, broker),
		Submissions: services.NewSubmissionService(st, st, time.Hour),
		Profiles:    services.NewUserService(st),
		Live:        broker,
		LivePing:    time.Second,
	})

	r := gin.New()
	r.Use(middleware.Authenticate(middleware.AuthOptions{AllowHeader: true}))
	r.GET("/taxonomy", h.Taxonomy)
	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/daily", h.DailyRecipe)
	r.GET("/recipes/popular", h.PopularRecipes)
	r.GET("/recipes/:id", h.GetRecipe)
	r.POST("/catalog/refresh", h.RefreshCatalog)
	r.GET("/ingredients", h.ListIngredients)
	r.GET("/ingredients/:name", h.GetIngredient)
	r.GET("/ratings/:id", h.GetRating)
	r.POST("/ratings/:id", h.Vote)
	r.GET("/ratings/:id/live", h.RatingsLive)
	r.GET("/me/favorites", h.ListFavorites)
	r.GET("/me/favorites/ids", h.FavoriteIDs)
	r.GET("/me/favorites/live", h.FavoritesLive)
	r.POST("/me/favorites/:recipeId/toggle", h.ToggleFavorite)
	r.PUT("/me/favorites/:recipeId", h.AddFavorite)
	r.DELETE("/me/favorites/:recipeId", h.RemoveFavorite)
	r.GET("/me/profile", h.GetProfile)
	r.PUT("/me/profile", h.PutProfile)
	r.GET("/cocktails", h.ListCocktails)
	r.POST("/cocktails", middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil), h.CreateCocktail)
	r.GET("/cocktails/:slug", h.GetCocktail)

	return &testEnv{r: r, catalog: cat, broker: broker, store: st}
}

func (e *testEnv) do(method, path, user string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("json: %v (body=%s)", err, w.Body.String())
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
}

func wantCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	wantStatus(t, w, status)
	var er ErrorResponse
	decode(t, w, &er)
	if er.Code != code {
		t.Fatalf("code=%q want %q", er.Code, code)
	}
}
