// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them. Generic
// codes mirror HTTP status semantics; domain codes name what went wrong in
// the cocktail API when the status alone is ambiguous (a 409 can be a
// duplicate name or a duplicate slug, a 503 means the upstream catalog is
// down).
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "duplicate_name",
//	  "message": "cocktail with this name already exists"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cocktail-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeValidation         = "validation_failed"
	ErrCodeDuplicateName      = "duplicate_name"
	ErrCodeDuplicateSlug      = "duplicate_slug"
	ErrCodeUnderage           = "underage"
	ErrCodeCatalogUnavailable = "catalog_unavailable"
	ErrCodeIDAllocation       = "id_allocation_failed"
	ErrCodeLiveUnavailable    = "live_unavailable"
)

// failErr maps a service error to its status and code. Unknown errors become
// 500 internal_error; their text is logged, not returned.
func failErr(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if code == ErrCodeInternal {
		_ = c.Error(err)
		msg = "internal error"
	}
	fail(c, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case services.IsValidation(err), errors.Is(err, services.ErrInvalidStar):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, services.ErrUnderage):
		return http.StatusForbidden, ErrCodeUnderage
	case errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrIngredientNotFound),
		errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, services.ErrDuplicateName):
		return http.StatusConflict, ErrCodeDuplicateName
	case errors.Is(err, services.ErrDuplicateSlug):
		return http.StatusConflict, ErrCodeDuplicateSlug
	case errors.Is(err, services.ErrIDAllocation):
		return http.StatusServiceUnavailable, ErrCodeIDAllocation
	case errors.Is(err, services.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, ErrCodeCatalogUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
