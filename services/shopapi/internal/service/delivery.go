package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/internal/delivery"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

type Assignment struct {
	models.DeliveryAssignment
	Address *models.Address
}

func (s *ShopService) AgentOrders(ctx context.Context, agentID uint) ([]Assignment, error) {
	rows, err := s.Repo.AgentAssignments(ctx, agentID)
	if err != nil {
		return nil, err
	}
	out := make([]Assignment, 0, len(rows))
	for _, r := range rows {
		a := Assignment{DeliveryAssignment: r}
		addr, err := s.Repo.DefaultAddress(ctx, r.Order.UserID)
		if err == nil {
			a.Address = addr
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// UpdateDeliveryStatus applies the same transition table the agent
// console enforces.
func (s *ShopService) UpdateDeliveryStatus(ctx context.Context, agentID, orderID uint, status string) error {
	err := s.Repo.UpdateAssignmentStatus(ctx, agentID, orderID, status, func(from string) error {
		if !delivery.CanTransition(from, status) {
			return fmt.Errorf("cannot change status from %s to %s: %w", from, status, ErrValidation)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("order %d is not assigned to you: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	s.publish(ctx, events.TopicOrder, strconv.FormatUint(uint64(orderID), 10), events.Event{
		Type:   "order_status_changed",
		UserID: agentID,
		Ref:    orderID,
		Data:   map[string]string{"status": status},
	})
	return nil
}
