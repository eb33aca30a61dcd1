package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// IncrementRating adds one vote to the star bucket of recipeID. The
// histogram row is created on first vote; creation and increment happen in a
// single INSERT .. ON CONFLICT DO UPDATE so concurrent voters never lose
// updates. The row after the increment is returned.
func IncrementRating(ctx context.Context, db *gorm.DB, recipeID string, star int) (*domain.RatingHistogram, error) {
	if !domain.ValidStar(star) {
		return nil, fmt.Errorf("star %d out of range", star)
	}
	col := domain.StarColumn(star)
	now := time.Now().UTC()

	var out domain.RatingHistogram
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := domain.RatingHistogram{RecipeID: recipeID, UpdatedAt: now}
		row.SetCount(star, 1)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "recipe_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				col:          gorm.Expr(col + " + 1"),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("recipe_id = ?", recipeID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRating returns the histogram for recipeID or ErrNotFound.
func GetRating(ctx context.Context, db *gorm.DB, recipeID string) (*domain.RatingHistogram, error) {
	var h domain.RatingHistogram
	if err := db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&h).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}
