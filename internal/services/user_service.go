package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-cocktail-backend/internal/auth"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// ProfileInput is the sign-up profile payload.
type ProfileInput struct {
	Email    string `json:"email"     validate:"omitempty,email"`
	FullName string `json:"fullName"  validate:"required"`
	IsOver18 bool   `json:"isOver18"`
}

var profileMessages = map[string]messageFunc{
	"email":    func(validator.FieldError) string { return "Please provide a valid email address." },
	"fullName": func(validator.FieldError) string { return "Please provide your full name." },
}

// UserService stores the profile created at sign-up.
type UserService struct {
	Store UserStore
}

// NewUserService constructs a UserService.
func NewUserService(st UserStore) *UserService { return &UserService{Store: st} }

// Save creates or updates the caller's profile. Minors are rejected and the
// creation time is kept across updates.
func (s *UserService) Save(ctx context.Context, sess auth.Session, in ProfileInput) (*domain.UserProfile, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if !in.IsOver18 {
		return nil, ErrUnderage
	}
	if ve := validateStruct(in, profileMessages); ve != nil {
		return nil, ve
	}
	return s.Store.UpsertProfile(ctx, &domain.UserProfile{
		ID:       sess.UserID,
		Email:    in.Email,
		FullName: in.FullName,
		IsOver18: true,
	})
}

// Get returns the caller's profile.
func (s *UserService) Get(ctx context.Context, sess auth.Session) (*domain.UserProfile, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}
	p, err := s.Store.GetProfile(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}
