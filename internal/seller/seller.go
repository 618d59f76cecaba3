// Package seller is the seller console: own products and the orders
// that include them.
package seller

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const (
	MsgNoProducts     = "No products found."
	MsgNoOrders       = "No orders yet."
	MsgProductsFailed = "Failed to load products"
	MsgOrdersFailed   = "Failed to load orders"
	MsgAddFailed      = "Failed to add product"
	MsgDeleteFailed   = "Failed to delete product"
	MsgAdded          = "Product added successfully"
	MsgDeleted        = "Product deleted"
)

type ProductForm struct {
	Name               string
	CategoryID         uint
	SubCategory        string
	Price              float64
	Stock              int
	DiscountPercentage float64
	Description        string
	Image              string
}

func (f ProductForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Product name is required"
	}
	if f.CategoryID == 0 {
		errs["category_id"] = "Category is required"
	}
	if f.Price <= 0 {
		errs["price"] = "Price must be greater than 0"
	}
	if f.Stock < 0 {
		errs["stock"] = "Stock cannot be negative"
	}
	if f.DiscountPercentage < 0 || f.DiscountPercentage > 100 {
		errs["discount_percentage"] = "Discount must be between 0 and 100"
	}
	return errs
}

type Console struct {
	d        *dispatch.Dispatcher
	products *resource.Cache[transport.Product]
	orders   *resource.Cache[transport.SellerOrder]
}

func New(d *dispatch.Dispatcher) *Console {
	return &Console{
		d: d,
		products: resource.New(resource.Config[transport.Product]{
			Name: "seller-products",
			Load: func(ctx context.Context) ([]transport.Product, error) {
				return dispatch.FetchList[transport.Product](ctx, d, "/seller/products/", "products")
			},
			EmptyMessage: MsgNoProducts,
			FailMessage:  MsgProductsFailed,
		}),
		orders: resource.New(resource.Config[transport.SellerOrder]{
			Name: "seller-orders",
			Load: func(ctx context.Context) ([]transport.SellerOrder, error) {
				return dispatch.FetchList[transport.SellerOrder](ctx, d, "/seller/orders/", "orders")
			},
			EmptyMessage: MsgNoOrders,
			FailMessage:  MsgOrdersFailed,
		}),
	}
}

func (c *Console) Products() *resource.Cache[transport.Product] { return c.products }

func (c *Console) Orders() *resource.Cache[transport.SellerOrder] { return c.orders }

func (c *Console) Close() {
	c.products.Close()
	c.orders.Close()
}

func (c *Console) AddProduct(ctx context.Context, f ProductForm) error {
	if errs := f.Validate(); len(errs) > 0 {
		return c.d.Reject(apperr.Validation(errs), MsgAddFailed)
	}
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "add-product",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   "/seller/add-product/",
			Body: transport.NewProductRequest{
				Name:               strings.TrimSpace(f.Name),
				CategoryID:         f.CategoryID,
				SubCategory:        strings.TrimSpace(f.SubCategory),
				Price:              f.Price,
				Stock:              f.Stock,
				DiscountPercentage: f.DiscountPercentage,
				Description:        f.Description,
				Image:              f.Image,
			},
		},
		Refresh:  []dispatch.Reloader{c.products},
		Success:  MsgAdded,
		Fallback: MsgAddFailed,
	})
}

func (c *Console) DeleteProduct(ctx context.Context, productID uint) error {
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "delete-product",
		Request: apiclient.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/seller/products/%d/", productID),
		},
		Refresh:  []dispatch.Reloader{c.products},
		Success:  MsgDeleted,
		Fallback: MsgDeleteFailed,
	})
}
