package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/pkg/hash"
	"github.com/Skotchmaster/friendly_mart/pkg/tokens"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

// LoginKind selects which flag a login endpoint requires.
type LoginKind int

const (
	LoginAny LoginKind = iota
	LoginSeller
	LoginDelivery
)

type LoginResult struct {
	Access  string
	Refresh string
	User    *models.User
}

type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *ShopService) Register(ctx context.Context, r Registration) (*models.User, error) {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}
	if len(r.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	if _, err := s.Repo.UserByUsername(ctx, r.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pw, err := hash.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     r.Username,
		Email:        strings.TrimSpace(r.Email),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: pw,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicUser, strconv.FormatUint(uint64(u.ID), 10), events.Event{Type: "user_registered", UserID: u.ID})
	return u, nil
}

func (s *ShopService) Login(ctx context.Context, username, password string, kind LoginKind) (*LoginResult, error) {
	u, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	switch {
	case kind == LoginSeller && !u.IsSeller:
		return nil, fmt.Errorf("not a seller account: %w", ErrForbidden)
	case kind == LoginDelivery && !u.IsDeliveryAgent:
		return nil, fmt.Errorf("not a delivery agent account: %w", ErrForbidden)
	}

	now := s.now()
	access, err := tokens.SignAccess(tokens.AccessClaims{
		UserID:          u.ID,
		Username:        u.Username,
		IsStaff:         u.IsStaff,
		IsSeller:        u.IsSeller,
		IsDeliveryAgent: u.IsDeliveryAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL())),
		},
	}, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.SignRefresh(tokens.RefreshClaims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL())),
		},
	}, s.refreshSecret())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Access: access, Refresh: refresh, User: u}, nil
}

// Authenticate verifies a bearer token.
func (s *ShopService) Authenticate(token string) (*tokens.AccessClaims, error) {
	claims, err := tokens.AccessClaimsFromToken(token, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}
	return claims, nil
}

func (s *ShopService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return 15 * time.Minute
}

func (s *ShopService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

func (s *ShopService) refreshSecret() []byte {
	if len(s.RefreshSecret) > 0 {
		return s.RefreshSecret
	}
	return s.JWTSecret
}
