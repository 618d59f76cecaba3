package repo

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

// PlaceOrder turns the user's cart into an order at discounted prices,
// clears the cart and assigns the least busy delivery agent, if any.
// An order with the same idempotency key is returned as-is with
// created=false.
func (r *GormRepo) PlaceOrder(ctx context.Context, o *models.Order) (created bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if o.IdempotencyKey != nil {
			var prev models.Order
			err := tx.Preload("Items.Product").Where("user_id = ? AND idempotency_key = ?", o.UserID, *o.IdempotencyKey).First(&prev).Error
			if err == nil {
				*o = prev
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		items, err := lockedCart(tx, o.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			price := it.Product.DiscountedPrice()
			lines = append(lines, models.OrderItem{ProductID: it.ProductID, Product: it.Product, Price: price, Quantity: it.Quantity})
			total += price * float64(it.Quantity)
		}
		o.Items = nil
		o.TotalPrice = math.Round(total*100) / 100
		if o.Status == "" {
			o.Status = models.StatusPending
		}
		if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = o.ID
		}
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return err
		}
		o.Items = lines
		if err := tx.Where("user_id = ?", o.UserID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		created = true
		return assignAgent(tx, o)
	})
	return created, err
}

func assignAgent(tx *gorm.DB, o *models.Order) error {
	var agent struct {
		ID uint
	}
	err := tx.Model(&models.User{}).
		Select("users.id").
		Joins("LEFT JOIN delivery_assignments da ON da.agent_id = users.id AND da.status <> ?", models.StatusDelivered).
		Where("users.is_delivery_agent = ?", true).
		Group("users.id").
		Order("COUNT(da.id), users.id").
		Limit(1).
		Scan(&agent).Error
	if err != nil {
		return err
	}
	if agent.ID == 0 {
		return nil
	}
	return tx.Create(&models.DeliveryAssignment{OrderID: o.ID, AgentID: agent.ID, Status: o.Status}).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders lists every order, newest first, with its customer.
func (r *GormRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("User").Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items.Product").Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// SellerOrderItems lists order lines for products owned by sellerID.
func (r *GormRepo) SellerOrderItems(ctx context.Context, sellerID uint) ([]models.OrderItem, []models.Order, error) {
	var items []models.OrderItem
	err := r.DB.WithContext(ctx).
		Select("order_items.*").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Preload("Product").
		Order("order_items.order_id DESC, order_items.id").
		Find(&items).Error
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return items, nil, nil
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.OrderID)
	}
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("User").Where("id IN ?", ids).Find(&orders).Error; err != nil {
		return nil, nil, err
	}
	return items, orders, nil
}
