package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

var ErrEmptyCart = errors.New("cart is empty")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(models.All()...)
}

// EnsureStaff creates the user as staff, or sets the flag on an existing
// user with that name.
func (r *GormRepo) EnsureStaff(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", u.Username).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u.IsStaff = true
			return tx.Create(u).Error
		}
		if err != nil {
			return err
		}
		*u = existing
		return tx.Model(&existing).Update("is_staff", true).Error
	})
}

func (r *GormRepo) EnsureCategory(ctx context.Context, name string) error {
	return r.DB.WithContext(ctx).Where(models.Category{Name: name}).FirstOrCreate(&models.Category{}).Error
}
