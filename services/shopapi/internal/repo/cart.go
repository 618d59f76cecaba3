package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Preload("Product.Category").Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// StockError is returned when a cart line would exceed the product's stock.
type StockError struct {
	Available int
}

func (e *StockError) Error() string { return fmt.Sprintf("only %d in stock", e.Available) }

// AddToCart adds item.Quantity to the user's line for the product. The
// product row is locked for the whole transaction, so concurrent adds
// cannot push the line past stock.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockedProduct(tx, item.ProductID)
		if err != nil {
			return err
		}
		var line models.CartItem
		err = tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).Take(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if item.Quantity > p.Stock {
				return &StockError{Available: p.Stock}
			}
			return tx.Omit(clause.Associations).Create(item).Error
		case err != nil:
			return err
		}
		if line.Quantity+item.Quantity > p.Stock {
			return &StockError{Available: p.Stock}
		}
		line.Quantity += item.Quantity
		if err := tx.Model(&line).Update("quantity", line.Quantity).Error; err != nil {
			return err
		}
		*item = line
		return nil
	})
}

func (r *GormRepo) SetCartQuantity(ctx context.Context, userID, productID uint, qty int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockedProduct(tx, productID)
		if err != nil {
			return err
		}
		if qty > p.Stock {
			return &StockError{Available: p.Stock}
		}
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", qty)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func lockedProduct(tx *gorm.DB, id uint) (models.Product, error) {
	var p models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return p, err
}

func lockedCart(tx *gorm.DB, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	return items, err
}
