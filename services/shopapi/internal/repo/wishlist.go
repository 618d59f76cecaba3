package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (r *GormRepo) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.DB.WithContext(ctx).Preload("Product.Category").Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist is a no-op when the product is already present.
func (r *GormRepo) AddToWishlist(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WishlistItem{UserID: userID, ProductID: productID})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) RemoveFromWishlist(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}
