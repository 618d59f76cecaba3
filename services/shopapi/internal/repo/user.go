package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) SellerProfileByUser(ctx context.Context, userID uint) (*models.SellerProfile, error) {
	var sp models.SellerProfile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) PromoteSeller(ctx context.Context, userID uint, storeName string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_seller", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.SellerProfile{UserID: userID, StoreName: storeName}).Error
	})
}

func (r *GormRepo) PromoteAgent(ctx context.Context, userID uint, phone string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_delivery_agent", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.AgentProfile{UserID: userID, Phone: phone}).Error
	})
}

// DeleteUser removes the user with everything they own. Products they
// sell go with them.
func (r *GormRepo) DeleteUser(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			return err
		}
		var productIDs []uint
		if err := tx.Model(&models.Product{}).Where("seller_id = ?", userID).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			if err := deleteProductRows(tx, productIDs...); err != nil {
				return err
			}
		}
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("user_id = ?", userID).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.DeliveryAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []any{&models.CartItem{}, &models.WishlistItem{}, &models.Address{}, &models.SellerProfile{}, &models.AgentProfile{}} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("agent_id = ?", userID).Delete(&models.DeliveryAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
}
