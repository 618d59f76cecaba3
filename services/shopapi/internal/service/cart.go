package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/repo"
)

func (s *ShopService) Cart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

// AddToCart adds qty to the line, creating it when absent. The resulting
// quantity may not exceed stock.
func (s *ShopService) AddToCart(ctx context.Context, userID, productID uint, qty int) error {
	if productID == 0 {
		return fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	err := s.Repo.AddToCart(ctx, &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty})
	if err != nil {
		return cartError(err, productID)
	}
	s.publish(ctx, events.TopicCart, strconv.FormatUint(uint64(userID), 10), events.Event{Type: "cart_item_added", UserID: userID, Ref: productID, Data: map[string]int{"quantity": qty}})
	return nil
}

func (s *ShopService) UpdateCartQuantity(ctx context.Context, userID, productID uint, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if err := s.Repo.SetCartQuantity(ctx, userID, productID, qty); err != nil {
		return cartError(err, productID)
	}
	return nil
}

// cartError maps repository failures of a cart write. A missing product
// and a missing cart line are both not found.
func cartError(err error, productID uint) error {
	var stock *repo.StockError
	switch {
	case errors.As(err, &stock):
		return fmt.Errorf("%s: %w", stock.Error(), ErrValidation)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return err
}

func (s *ShopService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	err := s.Repo.RemoveFromCart(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d is not in the cart: %w", productID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	s.publish(ctx, events.TopicCart, strconv.FormatUint(uint64(userID), 10), events.Event{Type: "cart_item_removed", UserID: userID, Ref: productID})
	return nil
}
