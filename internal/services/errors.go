// Package services defines the business logic for recipes, ratings,
// favorites, submissions and user profiles. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"strings"

	"github.com/tbourn/go-cocktail-backend/internal/catalog"
)

var (
	// ErrUnauthenticated is returned by every user-scoped write or read when
	// the caller has no session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidStar is returned when a vote is outside 1..5.
	ErrInvalidStar = errors.New("star must be between 1 and 5")

	// ErrRecipeNotFound indicates the id resolves to nothing in the seasonal
	// table, the catalog or the submissions.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrIngredientNotFound indicates the catalog has no such ingredient.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrSubmissionNotFound indicates no submission with the given slug exists.
	ErrSubmissionNotFound = errors.New("cocktail not found")

	// ErrDuplicateName is returned when a submission with exactly the same
	// name already exists.
	ErrDuplicateName = errors.New("cocktail with this name already exists")

	// ErrDuplicateSlug is returned when a different name maps to a slug that
	// is already taken. The existing document is never overwritten.
	ErrDuplicateSlug = errors.New("cocktail key already taken")

	// ErrIDAllocation is returned when every allocation attempt collided on
	// the numeric id.
	ErrIDAllocation = errors.New("could not allocate a cocktail id")

	// ErrProfileNotFound indicates the caller has not saved a profile yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUnderage is returned when a profile does not confirm the user is
	// over 18.
	ErrUnderage = errors.New("you must be over 18 to sign up")

	// ErrCatalogUnavailable reports that the remote catalog could not be
	// reached or the circuit breaker is open.
	ErrCatalogUnavailable = catalog.ErrUnavailable
)

// ValidationError carries one or more user-facing messages describing why an
// input was rejected. Field names follow the JSON payload.
type ValidationError struct {
	Fields   []string
	Messages []string
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, field)
	e.Messages = append(e.Messages, msg)
}

func (e *ValidationError) empty() bool { return len(e.Messages) == 0 }

// Error joins the messages in the order they were found.
func (e *ValidationError) Error() string {
	if e.empty() {
		return "validation failed"
	}
	return strings.Join(e.Messages, " ")
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
