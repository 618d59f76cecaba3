package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/repo"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/search"
)

const searchLimit = 100

func (s *ShopService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// Products filters by category and text. Text goes to the search index
// when one is configured; an index failure falls back to SQL matching.
func (s *ShopService) Products(ctx context.Context, categoryID uint, q string) ([]models.Product, error) {
	f := repo.ProductFilter{CategoryID: categoryID}
	q = strings.TrimSpace(q)
	if q == "" || s.Search == nil {
		f.Query = q
		return s.Repo.ListProducts(ctx, f)
	}

	ids, err := s.Search.Query(ctx, q, searchLimit)
	if err != nil {
		logging.FromContext(ctx).Warn("search_fallback", "error", err)
		f.Query = q
		return s.Repo.ListProducts(ctx, f)
	}
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	f.IDs = ids
	found, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ShopService) Product(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, err
}

// ProductsBySubCategory returns the named subcategory and its products.
func (s *ShopService) ProductsBySubCategory(ctx context.Context, name string) (*models.SubCategory, []models.Product, error) {
	name = strings.TrimSpace(name)
	sc, err := s.Repo.SubCategoryByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("subcategory %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	ps, err := s.Repo.ListProducts(ctx, repo.ProductFilter{SubCategoryID: sc.ID})
	if err != nil {
		return nil, nil, err
	}
	return sc, ps, nil
}

// ProductsGrouped maps each subcategory name of the category to its
// products. Subcategories without products are included with an empty
// list; products without a subcategory are left out.
func (s *ShopService) ProductsGrouped(ctx context.Context, categoryID uint) (map[string][]models.Product, error) {
	subs, err := s.Repo.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	ps, err := s.Repo.ListProducts(ctx, repo.ProductFilter{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	out := make(map[string][]models.Product, len(subs))
	names := make(map[uint]string, len(subs))
	for _, sc := range subs {
		out[sc.Name] = []models.Product{}
		names[sc.ID] = sc.Name
	}
	for _, p := range ps {
		if p.SubCategoryID == nil {
			continue
		}
		if name, ok := names[*p.SubCategoryID]; ok {
			out[name] = append(out[name], p)
		}
	}
	return out, nil
}

type NewProduct struct {
	Name               string
	CategoryID         uint
	// SubCategory is created under the category on first use.
	SubCategory        string
	Price              float64
	Stock              int
	DiscountPercentage float64
	Description        string
	Image              string
}

func (s *ShopService) AddProduct(ctx context.Context, sellerID uint, np NewProduct) (*models.Product, error) {
	np.Name = strings.TrimSpace(np.Name)
	switch {
	case np.Name == "":
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	case np.Price <= 0:
		return nil, fmt.Errorf("price must be positive: %w", ErrValidation)
	case np.Stock < 0:
		return nil, fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	case np.DiscountPercentage < 0 || np.DiscountPercentage > 100:
		return nil, fmt.Errorf("discount must be between 0 and 100: %w", ErrValidation)
	}
	ok, err := s.Repo.CategoryExists(ctx, np.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("category %d does not exist: %w", np.CategoryID, ErrValidation)
	}

	p := &models.Product{
		Name:               np.Name,
		CategoryID:         np.CategoryID,
		Price:              np.Price,
		Stock:              np.Stock,
		DiscountPercentage: np.DiscountPercentage,
		Description:        np.Description,
		Image:              np.Image,
	}
	if sellerID != 0 {
		p.SellerID = &sellerID
	}
	if name := strings.TrimSpace(np.SubCategory); name != "" {
		sc, err := s.Repo.EnsureSubCategory(ctx, np.CategoryID, name)
		if err != nil {
			return nil, err
		}
		p.SubCategoryID = &sc.ID
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	if s.Search != nil {
		doc := search.Document{ID: p.ID, Name: p.Name, Description: p.Description, CategoryID: p.CategoryID, Price: p.Price}
		if err := s.Search.Put(ctx, doc); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
	s.publish(ctx, events.TopicProduct, strconv.FormatUint(uint64(p.ID), 10), events.Event{Type: "product_created", UserID: sellerID, Ref: p.ID})
	return s.Repo.ProductByID(ctx, p.ID)
}

// DeleteProduct removes any product when sellerID is zero, otherwise only
// one of the seller's own.
func (s *ShopService) DeleteProduct(ctx context.Context, id, sellerID uint) error {
	err := s.Repo.DeleteProduct(ctx, id, sellerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_remove_failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, events.TopicProduct, strconv.FormatUint(uint64(id), 10), events.Event{Type: "product_deleted", UserID: sellerID, Ref: id})
	return nil
}

func (s *ShopService) SellerProducts(ctx context.Context, sellerID uint) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{SellerID: sellerID})
}
