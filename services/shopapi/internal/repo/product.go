package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

type ProductFilter struct {
	CategoryID    uint
	SubCategoryID uint
	Query         string
	SellerID      uint
	IDs           []uint
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// SubCategoryByName returns the oldest subcategory with that name when
// several categories share it.
func (r *GormRepo) SubCategoryByName(ctx context.Context, name string) (*models.SubCategory, error) {
	var sc models.SubCategory
	if err := r.DB.WithContext(ctx).Where("name = ?", name).Order("id").First(&sc).Error; err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *GormRepo) ListSubCategories(ctx context.Context, categoryID uint) ([]models.SubCategory, error) {
	var out []models.SubCategory
	if err := r.DB.WithContext(ctx).Where("category_id = ?", categoryID).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureSubCategory finds or creates the named subcategory under categoryID.
func (r *GormRepo) EnsureSubCategory(ctx context.Context, categoryID uint, name string) (*models.SubCategory, error) {
	sc := models.SubCategory{CategoryID: categoryID, Name: name}
	err := r.DB.WithContext(ctx).
		Where("category_id = ? AND name = ?", categoryID, name).
		FirstOrCreate(&sc).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	tx := r.DB.WithContext(ctx).Preload("Category").Preload("SubCategory").Preload("Seller").Order("id")
	if f.CategoryID != 0 {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	if f.SubCategoryID != 0 {
		tx = tx.Where("sub_category_id = ?", f.SubCategoryID)
	}
	if f.SellerID != 0 {
		tx = tx.Where("seller_id = ?", f.SellerID)
	}
	if f.IDs != nil {
		tx = tx.Where("id IN ?", f.IDs)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Preload("SubCategory").Preload("Seller").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// DeleteProduct removes a product and the cart and wishlist rows that
// point at it. sellerID restricts the delete to that seller's products
// when non-zero.
func (r *GormRepo) DeleteProduct(ctx context.Context, id, sellerID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Product{}).Where("id = ?", id)
		if sellerID != 0 {
			q = q.Where("seller_id = ?", sellerID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteProductRows(tx, id)
	})
}

func deleteProductRows(tx *gorm.DB, ids ...uint) error {
	if err := tx.Where("product_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", ids).Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Product{}).Error
}
