package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddAddress makes the first address of a user the default one.
func (r *GormRepo) AddAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", a.UserID).Count(&n).Error; err != nil {
			return err
		}
		a.IsDefault = n == 0
		return tx.Create(a).Error
	})
}
