package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (s *ShopService) Wishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.Repo.ListWishlist(ctx, userID)
}

// AddToWishlist reports added=false when the product was already there.
func (s *ShopService) AddToWishlist(ctx context.Context, userID, productID uint) (bool, error) {
	if productID == 0 {
		return false, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if _, err := s.Product(ctx, productID); err != nil {
		return false, err
	}
	return s.Repo.AddToWishlist(ctx, userID, productID)
}

func (s *ShopService) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	removed, err := s.Repo.RemoveFromWishlist(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("product %d is not in the wishlist: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *ShopService) Addresses(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *ShopService) AddAddress(ctx context.Context, a *models.Address) error {
	switch {
	case len(strings.TrimSpace(a.FullName)) < 2:
		return fmt.Errorf("full name must be at least 2 characters: %w", ErrValidation)
	case !phoneRe.MatchString(a.Phone):
		return fmt.Errorf("phone must be 10 digits: %w", ErrValidation)
	case strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.State) == "":
		return fmt.Errorf("street, city and state are required: %w", ErrValidation)
	case !pincodeRe.MatchString(a.PostalCode):
		return fmt.Errorf("postal code must be 6 digits: %w", ErrValidation)
	}
	if a.Country == "" {
		a.Country = "India"
	}
	return s.Repo.AddAddress(ctx, a)
}

func (s *ShopService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.Repo.UserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return u, err
}

// SellerProfile returns the seller with their store. A seller promoted
// before stores were recorded gets an empty store name.
func (s *ShopService) SellerProfile(ctx context.Context, userID uint) (*models.User, *models.SellerProfile, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sp, err := s.Repo.SellerProfileByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, &models.SellerProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return u, sp, nil
}

func (s *ShopService) Users(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *ShopService) PromoteSeller(ctx context.Context, userID uint, storeName string) error {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return fmt.Errorf("store_name is required: %w", ErrValidation)
	}
	return s.promote(ctx, userID, "seller", func() error { return s.Repo.PromoteSeller(ctx, userID, storeName) })
}

func (s *ShopService) PromoteAgent(ctx context.Context, userID uint, phone string) error {
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("phone must be 10 digits: %w", ErrValidation)
	}
	return s.promote(ctx, userID, "delivery_agent", func() error { return s.Repo.PromoteAgent(ctx, userID, phone) })
}

func (s *ShopService) promote(ctx context.Context, userID uint, role string, apply func() error) error {
	u, err := s.Repo.UserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if (role == "seller" && u.IsSeller) || (role == "delivery_agent" && u.IsDeliveryAgent) {
		return fmt.Errorf("user is already a %s: %w", role, ErrConflict)
	}
	if err := apply(); err != nil {
		return err
	}
	s.publish(ctx, events.TopicUser, strconv.FormatUint(uint64(userID), 10), events.Event{Type: "user_promoted", UserID: userID, Data: map[string]string{"role": role}})
	return nil
}

func (s *ShopService) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return fmt.Errorf("cannot delete your own account: %w", ErrConflict)
	}
	err := s.Repo.DeleteUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	s.publish(ctx, events.TopicUser, strconv.FormatUint(uint64(userID), 10), events.Event{Type: "user_deleted", UserID: userID})
	return nil
}
