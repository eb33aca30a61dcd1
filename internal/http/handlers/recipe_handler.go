// Package handlers exposes the recipe catalog: search and filters over the
// cached catalog, the curated lists (daily, popular, seasonal), recipe detail
// with measure conversion, and ingredient lookups.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/search"
	"github.com/tbourn/go-cocktail-backend/internal/utils"
)

//
// DTOs
//

// RecipeListResponse wraps a page of recipes, the active filters and
// pagination information.
type RecipeListResponse struct {
	Recipes    []domain.Recipe  `json:"recipes"`
	Filters    search.Selection `json:"filters" swaggertype:"object,string"`
	Pagination Pagination       `json:"pagination"`
}

// RecipesResponse wraps an unpaginated recipe list.
type RecipesResponse struct {
	Recipes []domain.Recipe `json:"recipes"`
}

// RefreshResponse reports the catalog size after a forced reload.
type RefreshResponse struct {
	Recipes int `json:"recipes" example:"412"`
}

// IngredientsResponse lists ingredient names.
type IngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
}

func pageOf(c *gin.Context, all []domain.Recipe, sel search.Selection) RecipeListResponse {
	page, pageSize := clampPagination(c)
	return RecipeListResponse{
		Recipes:    utils.Paginate(all, page, pageSize),
		Filters:    sel,
		Pagination: newPagination(page, pageSize, int64(len(all))),
	}
}

// Taxonomy godoc
// @ID          getTaxonomy
// @Summary     Filter options
// @Description Lists every filter category with its accepted values. Glassware is free text.
// @Tags        Recipes
// @Produce     json
// @Success     200  {array}  search.CategoryOptions
// @Router      /taxonomy [get]
func (h *Handlers) Taxonomy(c *gin.Context) {
	ok(c, http.StatusOK, search.Options())
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     Search and filter recipes
// @Description Case-insensitive name search defines the candidates, then the filters narrow them. Catalog order (by name) is kept.
// @Tags        Recipes
// @Produce     json
//
// @Param       q          query  string  false "Name search"      example(mar)
// @Param       spirit     query  string  false "Spirit filter"    example(Tequila)
// @Param       taste      query  string  false "Taste filter"     example(Sour)
// @Param       type       query  string  false "Cocktail, Mocktail or Shot"
// @Param       caffeine   query  string  false "Yes or No"
// @Param       glassware  query  string  false "Glass substring"  example(coupe)
// @Param       dietary    query  string  false "Dietary filter"   example(Vegan)
// @Param       season     query  string  false "Season filter"    example(Summer)
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.RecipeListResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown filter value"
// @Failure     503  {object}  handlers.ErrorResponse  "Catalog unavailable"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	sel, valid := selection(c)
	if !valid {
		return
	}
	all, err := h.catalog.Browse(c.Request.Context(), c.Query("q"), sel)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(c, all, sel))
}

// Recommendations godoc
// @ID          recommendRecipes
// @Summary     Recommendations
// @Description Applies the filters to the full catalog, ignoring any search text.
// @Tags        Recipes
// @Produce     json
// @Param       spirit     query  string  false "Spirit filter"
// @Param       taste      query  string  false "Taste filter"
// @Param       type       query  string  false "Cocktail, Mocktail or Shot"
// @Param       caffeine   query  string  false "Yes or No"
// @Param       glassware  query  string  false "Glass substring"
// @Param       dietary    query  string  false "Dietary filter"
// @Param       season     query  string  false "Season filter"
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.RecipeListResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /recipes/recommendations [get]
func (h *Handlers) Recommendations(c *gin.Context) {
	sel, valid := selection(c)
	if !valid {
		return
	}
	all, err := h.catalog.Recommend(c.Request.Context(), sel)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(c, all, sel))
}

// RandomRecipes godoc
// @ID          randomRecipes
// @Summary     Shuffled recipes
// @Description Same candidates as GET /recipes in a random order.
// @Tags        Recipes
// @Produce     json
// @Param       q          query  string  false "Name search"
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.RecipeListResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /recipes/random [get]
func (h *Handlers) RandomRecipes(c *gin.Context) {
	sel, valid := selection(c)
	if !valid {
		return
	}
	all, err := h.catalog.Random(c.Request.Context(), c.Query("q"), sel)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, pageOf(c, all, sel))
}

// DailyRecipe godoc
// @ID          dailyRecipe
// @Summary     Cocktail of the day
// @Description The same recipe all day; a new one is drawn on the first request of each day.
// @Tags        Recipes
// @Produce     json
// @Success     200  {object}  domain.Recipe
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /recipes/daily [get]
func (h *Handlers) DailyRecipe(c *gin.Context) {
	r, err := h.catalog.Daily(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// PopularRecipes godoc
// @ID          popularRecipes
// @Summary     Popular recipes
// @Description A fixed list of well-known recipes. Entries that cannot be resolved are left out.
// @Tags        Recipes
// @Produce     json
// @Success     200  {object}  handlers.RecipesResponse
// @Router      /recipes/popular [get]
func (h *Handlers) PopularRecipes(c *gin.Context) {
	ok(c, http.StatusOK, RecipesResponse{Recipes: h.catalog.Popular(c.Request.Context())})
}

// SeasonalRecipes godoc
// @ID          seasonalRecipes
// @Summary     Seasonal recipes
// @Tags        Recipes
// @Produce     json
// @Success     200  {object}  handlers.RecipesResponse
// @Router      /recipes/seasonal [get]
func (h *Handlers) SeasonalRecipes(c *gin.Context) {
	ok(c, http.StatusOK, RecipesResponse{Recipes: h.catalog.Seasonal()})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Recipe detail
// @Description Resolves seasonal ids, then the cached catalog, then the upstream API. Measures are rescaled to unit and servings.
// @Tags        Recipes
// @Produce     json
// @Param       id        path   string  true  "Recipe ID"  example(11007)
// @Param       unit      query  string  false "oz, ml or cl"  default(oz)
// @Param       servings  query  int     false "1, 2, 4 or 8"  default(1)
// @Success     200  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	unit, servings := conversion(c)
	r, err := h.catalog.Detail(c.Request.Context(), c.Param("id"), unit, servings)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// RefreshCatalog godoc
// @ID          refreshCatalog
// @Summary     Reload the catalog
// @Description Forces a full reload from the upstream API. On failure the previous snapshot keeps serving.
// @Tags        Recipes
// @Produce     json
// @Success     200  {object}  handlers.RefreshResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /catalog/refresh [post]
func (h *Handlers) RefreshCatalog(c *gin.Context) {
	if !session(c).Authenticated() {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	n, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, RefreshResponse{Recipes: n})
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     Ingredient names
// @Tags        Ingredients
// @Produce     json
// @Success     200  {object}  handlers.IngredientsResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	names, err := h.catalog.Ingredients(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, IngredientsResponse{Ingredients: names})
}

// GetIngredient godoc
// @ID          getIngredient
// @Summary     Ingredient detail
// @Tags        Ingredients
// @Produce     json
// @Param       name  path  string  true  "Ingredient name"  example(Vodka)
// @Success     200  {object}  domain.IngredientInfo
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /ingredients/{name} [get]
func (h *Handlers) GetIngredient(c *gin.Context) {
	info, err := h.catalog.Ingredient(c.Request.Context(), strings.TrimSpace(c.Param("name")))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}
