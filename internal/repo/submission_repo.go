package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// CreateSubmission inserts s. A collision on the numeric id returns
// domain.ErrDuplicateUniqueID; a collision on the slug returns ErrDuplicate.
// Existing rows are never overwritten.
func CreateSubmission(ctx context.Context, db *gorm.DB, s *domain.Submission) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	err := db.WithContext(ctx).Create(s).Error
	if isDuplicate(err) {
		if strings.Contains(strings.ToLower(err.Error()), "unique_id") {
			return domain.ErrDuplicateUniqueID
		}
		return ErrDuplicate
	}
	return err
}

// GetSubmission fetches one submission by slug.
func GetSubmission(ctx context.Context, db *gorm.DB, slug string) (*domain.Submission, error) {
	var s domain.Submission
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// SubmissionNameExists reports whether a submission with exactly name exists.
func SubmissionNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Submission{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

// ListSubmissions returns one page of submissions ordered by name, plus the
// total row count.
func ListSubmissions(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Submission, int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Submission{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]domain.Submission, 0)
	if total == 0 {
		return items, 0, nil
	}
	err := db.WithContext(ctx).
		Order("name ASC").Order("slug ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	return items, total, err
}

// SubmissionIDs returns every stored numeric id. Rows without one are
// skipped.
func SubmissionIDs(ctx context.Context, db *gorm.DB) ([]any, error) {
	var ids []int64
	if err := db.WithContext(ctx).Model(&domain.Submission{}).
		Where("unique_id IS NOT NULL").
		Pluck("unique_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out, nil
}
