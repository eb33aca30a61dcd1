// Package handlers serves user-submitted cocktails.
//
// Idempotency:
// A client that supplies an Idempotency-Key header on POST /cocktails and
// retries gets the originally created cocktail back with status 201 and
// `Idempotency-Replayed: true`, instead of a duplicate-name conflict.
//
// Conditional GET:
// The list carries a weak ETag built from the row count and the latest
// update time, so unchanged pages answer 304.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/http/middleware"
	"github.com/tbourn/go-cocktail-backend/internal/services"
)

// SubmissionListResponse wraps a page of submitted cocktails.
type SubmissionListResponse struct {
	Cocktails  []domain.Submission `json:"cocktails"`
	Pagination Pagination          `json:"pagination"`
}

// CreateCocktail godoc
// @ID          createCocktail
// @Summary     Submit a cocktail
// @Description Validates and stores a user recipe under the next free numeric id. Only rows with both a quantity and an ingredient are kept.
// @Description Supports idempotency via the Idempotency-Key header (same key, same result).
// @Tags        Cocktails
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string                    false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    services.SubmissionDraft  true  "Cocktail"
//
// @Success     201  {object}  domain.Submission
// @Header      201  {string}  Location              "URL of the created cocktail"
// @Header      201  {string}  Idempotency-Replayed  "true when served from an earlier request"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate name"
// @Failure     503  {object}  handlers.ErrorResponse  "Id allocation failed"
// @Router      /cocktails [post]
func (h *Handlers) CreateCocktail(c *gin.Context) {
	var draft services.SubmissionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)

	sub, replayed, err := h.submissions.Submit(c.Request.Context(), session(c), draft, key)
	if err != nil {
		failErr(c, err)
		return
	}
	if replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
	}
	c.Header("Location", c.FullPath()+"/"+sub.Slug)
	ok(c, http.StatusCreated, sub)
}

// ListCocktails godoc
// @ID          listCocktails
// @Summary     List submitted cocktails
// @Description Sorted by name. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Cocktails
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.SubmissionListResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /cocktails [get]
func (h *Handlers) ListCocktails(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.submissions.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		if weakETag(c, fmt.Sprintf(`W/"cocktails:%d:%d:%d:%d"`, count, ts, page, pageSize)) {
			return
		}
	}

	items, total, err := h.submissions.List(ctx, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Submission{}
	}
	ok(c, http.StatusOK, SubmissionListResponse{
		Cocktails:  items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetCocktail godoc
// @ID          getCocktail
// @Summary     Submitted cocktail detail
// @Description Returns the cocktail in recipe form with measures rescaled to unit and servings.
// @Tags        Cocktails
// @Produce     json
// @Param       slug      path   string  true  "Cocktail slug"  example(paloma)
// @Param       unit      query  string  false "oz, ml or cl"   default(oz)
// @Param       servings  query  int     false "1, 2, 4 or 8"   default(1)
// @Success     200  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /cocktails/{slug} [get]
func (h *Handlers) GetCocktail(c *gin.Context) {
	unit, servings := conversion(c)
	r, err := h.submissions.Detail(c.Request.Context(), c.Param("slug"), unit, servings)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}
