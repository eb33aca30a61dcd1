package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
)

// HasFavorite reports whether recipeID is in the user's favorites set.
func HasFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// AddFavorite inserts recipeID into the set. Adding an existing member is a
// no-op and keeps its original position.
func AddFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) error {
	f := &domain.Favorite{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f).Error
}

// RemoveFavorite deletes recipeID from the set. Removing an absent member is
// a no-op.
func RemoveFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{}).Error
}

// ListFavorites returns the user's favorite ids, most recently added first.
func ListFavorites(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	ids := make([]string, 0)
	err := db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Pluck("recipe_id", &ids).Error
	return ids, err
}
