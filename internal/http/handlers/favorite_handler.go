package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// ToggleResponse reports the favorite state after a toggle.
type ToggleResponse struct {
	RecipeID  string `json:"recipe_id" example:"11007"`
	Favorited bool   `json:"favorited" example:"true"`
}

// FavoriteIDsResponse lists favorite ids, most recently added first.
type FavoriteIDsResponse struct {
	IDs []string `json:"ids"`
}

// ListFavorites godoc
// @ID          listFavorites
// @Summary     Favorite recipes
// @Description Resolves each favorite id to a recipe, most recently added first. Ids that no longer resolve are left out.
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.RecipesResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/favorites [get]
func (h *Handlers) ListFavorites(c *gin.Context) {
	rs, err := h.favorites.Materialize(c.Request.Context(), session(c))
	if err != nil {
		failErr(c, err)
		return
	}
	if rs == nil {
		rs = []domain.Recipe{}
	}
	ok(c, http.StatusOK, RecipesResponse{Recipes: rs})
}

// FavoriteIDs godoc
// @ID          favoriteIDs
// @Summary     Favorite ids
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.FavoriteIDsResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/favorites/ids [get]
func (h *Handlers) FavoriteIDs(c *gin.Context) {
	ids, err := h.favorites.IDs(c.Request.Context(), session(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, FavoriteIDsResponse{IDs: ids})
}

// ToggleFavorite godoc
// @ID          toggleFavorite
// @Summary     Toggle a favorite
// @Description Adds the recipe if absent, removes it if present, and returns the new state.
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Param       recipeId  path  string  true  "Recipe ID"  example(11007)
// @Success     200  {object}  handlers.ToggleResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/favorites/{recipeId}/toggle [post]
func (h *Handlers) ToggleFavorite(c *gin.Context) {
	id := c.Param("recipeId")
	on, err := h.favorites.Toggle(c.Request.Context(), session(c), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ToggleResponse{RecipeID: id, Favorited: on})
}

// AddFavorite godoc
// @ID          addFavorite
// @Summary     Add a favorite
// @Description Idempotent.
// @Tags        Favorites
// @Security    BearerAuth
// @Param       recipeId  path  string  true  "Recipe ID"
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/favorites/{recipeId} [put]
func (h *Handlers) AddFavorite(c *gin.Context) {
	if err := h.favorites.Add(c.Request.Context(), session(c), c.Param("recipeId")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// RemoveFavorite godoc
// @ID          removeFavorite
// @Summary     Remove a favorite
// @Description Idempotent.
// @Tags        Favorites
// @Security    BearerAuth
// @Param       recipeId  path  string  true  "Recipe ID"
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /me/favorites/{recipeId} [delete]
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), session(c), c.Param("recipeId")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
