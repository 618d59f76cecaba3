package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/repo"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/search"
)

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Searcher is the text index over products. A nil Searcher makes product
// queries fall back to SQL LIKE matching.
type Searcher interface {
	Put(ctx context.Context, doc search.Document) error
	Remove(ctx context.Context, id uint) error
	Query(ctx context.Context, q string, size int) ([]uint, error)
}

type ShopService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Events        events.Publisher
	Search        Searcher
	Now           func() time.Time
}

func (s *ShopService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// publish is best effort; a broker outage never fails the request.
func (s *ShopService) publish(ctx context.Context, topic, key string, ev events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
