package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (r *GormRepo) AgentAssignments(ctx context.Context, agentID uint) ([]models.DeliveryAssignment, error) {
	var out []models.DeliveryAssignment
	err := r.DB.WithContext(ctx).Preload("Order.User").
		Where("agent_id = ?", agentID).
		Order("assigned_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) DefaultAddress(ctx context.Context, userID uint) (*models.Address, error) {
	var a models.Address
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC, id").First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAssignmentStatus applies check to the current status under a row
// lock and writes the new status to both the assignment and its order.
func (r *GormRepo) UpdateAssignmentStatus(ctx context.Context, agentID, orderID uint, status string, check func(from string) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.DeliveryAssignment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("agent_id = ? AND order_id = ?", agentID, orderID).
			First(&a).Error
		if err != nil {
			return err
		}
		if err := check(a.Status); err != nil {
			return err
		}
		if err := tx.Model(&a).Update("status", status).Error; err != nil {
			return err
		}
		updates := map[string]any{"status": status}
		if status == models.StatusDelivered {
			updates["is_paid"] = true
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
	})
}
