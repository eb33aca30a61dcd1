// Package services – SubmissionService
//
// SubmissionService accepts user-authored recipes ("community" cocktails),
// assigns each one a sequential numeric id starting at 50, and serves the
// paginated, name-sorted list.
//
// Id allocation scans the stored ids and takes max+1. Two concurrent
// submitters can compute the same id; the store rejects the second insert on
// its unique index and Submit re-runs allocation, so an id is never handed
// out twice and an existing document is never overwritten.
//
// Submit honors an optional idempotency key: a retry with the same key
// returns the submission produced by the first request.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-cocktail-backend/internal/auth"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/measure"
	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

const (
	// FirstSubmissionID is the id given to the first submission.
	FirstSubmissionID int64 = 50

	// IdempotencyScope names submissions in the idempotency table.
	IdempotencyScope = "cocktails"

	anonymousUser = "anonymous"
)

// SubmissionDraft is the user input for a new recipe.
type SubmissionDraft struct {
	Name         string             `json:"name"         validate:"required"`
	Type         string             `json:"type"         validate:"oneof=Cocktail Mocktail Shot"`
	Recipe       []domain.RecipeRow `json:"recipe"       validate:"min=2,max=10"`
	Instructions string             `json:"instructions" validate:"required"`
}

var draftMessages = map[string]messageFunc{
	"name": func(validator.FieldError) string { return "Please enter the cocktail name." },
	"type": func(validator.FieldError) string { return "Type must be Cocktail, Mocktail or Shot." },
	"recipe": func(validator.FieldError) string {
		return "A recipe must have between 2 and 10 ingredient rows."
	},
	"instructions": func(validator.FieldError) string {
		return "Please enter at least one character in the instructions."
	},
}

// normalize trims the free-text fields and applies the default type.
func (d SubmissionDraft) normalize() SubmissionDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	if d.Type == "" {
		d.Type = domain.TypeCocktail
	}
	d.Instructions = strings.TrimSpace(d.Instructions)
	return d
}

// Validate checks d and returns a *ValidationError listing every problem,
// or nil.
func (d SubmissionDraft) Validate() error {
	d = d.normalize()
	ve := validateStruct(d, draftMessages)
	if ve == nil {
		ve = &ValidationError{}
	}
	if completeRows(d.Recipe) < 2 {
		ve.add("recipe", "Please fill in at least 2 rows of ingredients with quantities.")
	}
	if d.Name != "" && domain.Slugify(d.Name) == "" {
		ve.add("name", "The cocktail name must contain at least one letter or digit.")
	}
	if ve.empty() {
		return nil
	}
	return ve
}

func completeRows(rows []domain.RecipeRow) int {
	n := 0
	for _, r := range rows {
		if r.Complete() {
			n++
		}
	}
	return n
}

// SubmissionService manages user-submitted recipes.
type SubmissionService struct {
	Store       SubmissionStore
	Idempotency IdempotencyStore

	// MaxAttempts caps allocation retries after a numeric id collision.
	MaxAttempts int
	// IdempotencyTTL is how long a completed request can be replayed.
	IdempotencyTTL time.Duration

	now func() time.Time
}

// NewSubmissionService constructs a SubmissionService. idem may be nil to
// disable replay.
func NewSubmissionService(st SubmissionStore, idem IdempotencyStore, ttl time.Duration) *SubmissionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SubmissionService{
		Store:          st,
		Idempotency:    idem,
		MaxAttempts:    5,
		IdempotencyTTL: ttl,
		now:            time.Now,
	}
}

// NextID returns one more than the largest stored numeric id, never less
// than FirstSubmissionID. Non-numeric and missing ids are ignored. If the
// scan fails the floor is returned.
func (s *SubmissionService) NextID(ctx context.Context) int64 {
	ids, err := s.Store.SubmissionIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("submission id scan failed; using floor")
		return FirstSubmissionID
	}
	next := FirstSubmissionID
	for _, v := range ids {
		if n, ok := domain.NumericID(v); ok && n+1 > next {
			next = n + 1
		}
	}
	return next
}

// Submit validates draft and stores it under a fresh numeric id. The second
// return value reports whether the result is a replay of an earlier request
// with the same idempotency key.
func (s *SubmissionService) Submit(ctx context.Context, sess auth.Session, draft SubmissionDraft, idemKey string) (*domain.Submission, bool, error) {
	tr := otel.Tracer("services/SubmissionService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("user.id", sess.UserID),
			attribute.Bool("idempotent", idemKey != ""),
		),
	)
	defer span.End()

	owner := sess.UserID
	if !sess.Authenticated() {
		owner = anonymousUser
	}

	if prev := s.replay(ctx, owner, idemKey); prev != nil {
		observability.Submissions.WithLabelValues("replayed").Inc()
		return prev, true, nil
	}

	if err := draft.Validate(); err != nil {
		observability.Submissions.WithLabelValues("invalid").Inc()
		return nil, false, err
	}
	d := draft.normalize()

	exists, err := s.Store.SubmissionNameExists(ctx, d.Name)
	if err != nil {
		observability.Submissions.WithLabelValues("error").Inc()
		return nil, false, err
	}
	if exists {
		observability.Submissions.WithLabelValues("duplicate").Inc()
		return nil, false, ErrDuplicateName
	}

	rows := make([]domain.RecipeRow, 0, len(d.Recipe))
	for _, r := range d.Recipe {
		if r.Complete() {
			rows = append(rows, domain.RecipeRow{Number: strings.TrimSpace(r.Number), Ingredient: strings.TrimSpace(r.Ingredient)})
		}
	}
	sub := &domain.Submission{
		Slug:         domain.Slugify(d.Name),
		Name:         d.Name,
		Type:         d.Type,
		Recipe:       rows,
		Instructions: d.Instructions,
	}
	if sess.Authenticated() {
		sub.SubmittedBy = sess.UserID
	}

	if err := s.insert(ctx, sub); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateSlug):
			observability.Submissions.WithLabelValues("duplicate").Inc()
		default:
			observability.Submissions.WithLabelValues("error").Inc()
		}
		return nil, false, err
	}
	observability.Submissions.WithLabelValues("created").Inc()
	span.SetAttributes(attribute.Int64("submission.unique_id", *sub.UniqueID))

	s.remember(ctx, owner, idemKey, sub.Slug)
	return sub, false, nil
}

// insert allocates an id and writes sub, retrying on id collisions.
func (s *SubmissionService) insert(ctx context.Context, sub *domain.Submission) error {
	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		id := s.NextID(ctx)
		sub.UniqueID = &id
		err := s.Store.CreateSubmission(ctx, sub)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrDuplicateUniqueID):
			log.Debug().Int64("unique_id", id).Int("attempt", i+1).Msg("submission id collision; reallocating")
			continue
		case errors.Is(err, domain.ErrDuplicateKey):
			return ErrDuplicateSlug
		default:
			return err
		}
	}
	return ErrIDAllocation
}

func (s *SubmissionService) replay(ctx context.Context, owner, key string) *domain.Submission {
	if s.Idempotency == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	rec, err := s.Idempotency.GetIdempotency(ctx, owner, IdempotencyScope, key, s.now().UTC())
	if err != nil {
		return nil
	}
	prev, err := s.Store.GetSubmission(ctx, rec.ResourceID)
	if err != nil {
		return nil
	}
	return prev
}

// Replayable reports whether key already completed a submission for userID.
// An empty userID is the anonymous owner.
func (s *SubmissionService) Replayable(ctx context.Context, userID, key string, now time.Time) (bool, error) {
	if s.Idempotency == nil || strings.TrimSpace(key) == "" {
		return false, nil
	}
	owner := userID
	if strings.TrimSpace(owner) == "" {
		owner = anonymousUser
	}
	_, err := s.Idempotency.GetIdempotency(ctx, owner, IdempotencyScope, key, now)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *SubmissionService) remember(ctx context.Context, owner, key, slug string) {
	if s.Idempotency == nil || strings.TrimSpace(key) == "" {
		return
	}
	if _, err := s.Idempotency.CreateIdempotency(ctx, owner, IdempotencyScope, key, slug, 201, s.IdempotencyTTL); err != nil &&
		!errors.Is(err, domain.ErrDuplicateKey) {
		log.Warn().Err(err).Str("slug", slug).Msg("idempotency record not stored")
	}
}

// List returns one page of submissions sorted by name, plus the total count.
func (s *SubmissionService) List(ctx context.Context, page, pageSize int) ([]domain.Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.Store.ListSubmissions(ctx, (page-1)*pageSize, pageSize)
}

// Get returns the submission stored under slug.
func (s *SubmissionService) Get(ctx context.Context, slug string) (*domain.Submission, error) {
	sub, err := s.Store.GetSubmission(ctx, strings.TrimSpace(slug))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrSubmissionNotFound
	}
	return sub, err
}

// Detail returns the submission as a recipe with measures rescaled.
func (s *SubmissionService) Detail(ctx context.Context, slug, unit string, servings int) (*domain.Recipe, error) {
	unit, servings, err := ConversionParams(unit, servings)
	if err != nil {
		return nil, err
	}
	sub, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	r := measure.ConvertRecipe(sub.ToRecipe(), unit, servings)
	return &r, nil
}

// Stats returns the count and latest update time used for ETags.
func (s *SubmissionService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return s.Store.SubmissionsStats(ctx)
}
