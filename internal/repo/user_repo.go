package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// GetProfile fetches a user profile by id.
func GetProfile(ctx context.Context, db *gorm.DB, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := db.WithContext(ctx).Where("id = ?", userID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpsertProfile creates or updates a profile. CreatedAt is set on first
// write only.
func UpsertProfile(ctx context.Context, db *gorm.DB, p *domain.UserProfile) (*domain.UserProfile, error) {
	now := time.Now().UTC()
	row := *p
	row.CreatedAt = now
	row.UpdatedAt = now
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "is_over18", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, p.ID)
}
