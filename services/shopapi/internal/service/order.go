package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/repo"
)

var (
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
)

var paymentMethods = map[string]bool{"cod": true, "card": true, "upi": true}

type Shipping struct {
	FullName string
	Phone    string
	Email    string
	Address  string
	City     string
	State    string
	Pincode  string
}

type PlaceOrder struct {
	Shipping       Shipping
	PaymentMethod  string
	IdempotencyKey string
}

func (p PlaceOrder) validate() error {
	sh := p.Shipping
	switch {
	case len(strings.TrimSpace(sh.FullName)) < 2:
		return fmt.Errorf("full name must be at least 2 characters: %w", ErrValidation)
	case !phoneRe.MatchString(sh.Phone):
		return fmt.Errorf("phone must be 10 digits: %w", ErrValidation)
	case len(strings.TrimSpace(sh.Address)) < 10:
		return fmt.Errorf("address must be at least 10 characters: %w", ErrValidation)
	case strings.TrimSpace(sh.City) == "" || strings.TrimSpace(sh.State) == "":
		return fmt.Errorf("city and state are required: %w", ErrValidation)
	case !pincodeRe.MatchString(sh.Pincode):
		return fmt.Errorf("pincode must be 6 digits: %w", ErrValidation)
	case !paymentMethods[p.PaymentMethod]:
		return fmt.Errorf("unknown payment method %q: %w", p.PaymentMethod, ErrValidation)
	}
	return nil
}

// PlaceOrder returns created=false when the idempotency key matched an
// earlier order of the same user.
func (s *ShopService) PlaceOrder(ctx context.Context, userID uint, req PlaceOrder) (*models.Order, bool, error) {
	if err := req.validate(); err != nil {
		return nil, false, err
	}
	sh := req.Shipping
	o := &models.Order{
		UserID:        userID,
		Status:        models.StatusPending,
		PaymentMethod: req.PaymentMethod,
		FullName:      strings.TrimSpace(sh.FullName),
		Phone:         sh.Phone,
		Email:         sh.Email,
		Address:       strings.TrimSpace(sh.Address),
		City:          strings.TrimSpace(sh.City),
		State:         strings.TrimSpace(sh.State),
		Pincode:       sh.Pincode,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		o.IdempotencyKey = &key
	}

	created, err := s.Repo.PlaceOrder(ctx, o)
	if errors.Is(err, repo.ErrEmptyCart) {
		return nil, false, fmt.Errorf("cart is empty: %w", ErrValidation)
	}
	if err != nil {
		return nil, false, err
	}
	if created {
		s.publish(ctx, events.TopicOrder, strconv.FormatUint(uint64(o.ID), 10), events.Event{
			Type:   "order_placed",
			UserID: userID,
			Ref:    o.ID,
			Data:   map[string]any{"total_price": o.TotalPrice, "items": len(o.Items)},
		})
	}
	return o, created, nil
}

func (s *ShopService) Orders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

func (s *ShopService) AllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.AllOrders(ctx)
}

func (s *ShopService) Order(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	o, err := s.Repo.OrderByID(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return o, err
}

type SellerOrderLine struct {
	Item  models.OrderItem
	Order models.Order
}

func (s *ShopService) SellerOrders(ctx context.Context, sellerID uint) ([]SellerOrderLine, error) {
	items, orders, err := s.Repo.SellerOrderItems(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	out := make([]SellerOrderLine, 0, len(items))
	for _, it := range items {
		out = append(out, SellerOrderLine{Item: it, Order: byID[it.OrderID]})
	}
	return out, nil
}
