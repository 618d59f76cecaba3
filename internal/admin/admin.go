// Package admin is the admin console: user, product and order lists
// with promote and delete actions.
package admin

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const (
	MsgNoUsers        = "No users found."
	MsgNoProducts     = "No products found."
	MsgUsersFailed    = "Failed to load users"
	MsgProductsFailed = "Failed to load products"
	MsgNoOrders       = "No orders found."
	MsgOrdersFailed   = "Failed to fetch orders. Please try again."
	MsgPromoteFailed  = "Promotion failed"
	MsgDeleteFailed   = "Delete failed"
	MsgPromotedSeller = "User promoted to seller"
	MsgPromotedAgent  = "User promoted to delivery agent"
	MsgUserDeleted    = "User deleted"
	MsgProductDeleted = "Product deleted"
)

var phoneRe = regexp.MustCompile(`^\d{10}$`)

type Console struct {
	d        *dispatch.Dispatcher
	users    *resource.Cache[transport.User]
	products *resource.Cache[transport.Product]
	orders   *resource.Cache[transport.AdminOrder]
}

func New(d *dispatch.Dispatcher) *Console {
	return &Console{
		d: d,
		users: resource.New(resource.Config[transport.User]{
			Name: "admin-users",
			Load: func(ctx context.Context) ([]transport.User, error) {
				return dispatch.FetchList[transport.User](ctx, d, "/admin/users/", "users")
			},
			EmptyMessage: MsgNoUsers,
			FailMessage:  MsgUsersFailed,
		}),
		products: resource.New(resource.Config[transport.Product]{
			Name: "admin-products",
			Load: func(ctx context.Context) ([]transport.Product, error) {
				return dispatch.FetchList[transport.Product](ctx, d, "/admin/products/", "products")
			},
			EmptyMessage: MsgNoProducts,
			FailMessage:  MsgProductsFailed,
		}),
		orders: resource.New(resource.Config[transport.AdminOrder]{
			Name: "admin-orders",
			Load: func(ctx context.Context) ([]transport.AdminOrder, error) {
				return dispatch.FetchList[transport.AdminOrder](ctx, d, "/ordersall/", "orders")
			},
			EmptyMessage: MsgNoOrders,
			FailMessage:  MsgOrdersFailed,
		}),
	}
}

func (c *Console) Users() *resource.Cache[transport.User] { return c.users }

func (c *Console) Products() *resource.Cache[transport.Product] { return c.products }

// Orders lists every customer order in the shop.
func (c *Console) Orders() *resource.Cache[transport.AdminOrder] { return c.orders }

func (c *Console) Close() {
	c.users.Close()
	c.products.Close()
	c.orders.Close()
}

func (c *Console) PromoteSeller(ctx context.Context, userID uint, storeName string) error {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return c.d.Reject(apperr.Validation(map[string]string{
			"store_name": "Store name is required",
		}), MsgPromoteFailed)
	}
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "promote-user-seller",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/admin/users/%d/promote/seller/", userID),
			Body:   transport.PromoteSellerRequest{StoreName: storeName},
		},
		Refresh:  []dispatch.Reloader{c.users},
		Success:  MsgPromotedSeller,
		Fallback: MsgPromoteFailed,
	})
}

func (c *Console) PromoteAgent(ctx context.Context, userID uint, phone string) error {
	if !phoneRe.MatchString(phone) {
		return c.d.Reject(apperr.Validation(map[string]string{
			"phone": "Phone number must be 10 digits",
		}), MsgPromoteFailed)
	}
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "promote-user-agent",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/admin/users/%d/promote/agent/", userID),
			Body:   transport.PromoteAgentRequest{Phone: phone},
		},
		Refresh:  []dispatch.Reloader{c.users},
		Success:  MsgPromotedAgent,
		Fallback: MsgPromoteFailed,
	})
}

// DeleteUser also refreshes products and orders. A deleted user takes
// their products and orders with them.
func (c *Console) DeleteUser(ctx context.Context, userID uint) error {
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "delete-user",
		Request: apiclient.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/admin/users/%d/delete/", userID),
		},
		Refresh:  []dispatch.Reloader{c.users, c.products, c.orders},
		Success:  MsgUserDeleted,
		Fallback: MsgDeleteFailed,
	})
}

func (c *Console) DeleteProduct(ctx context.Context, productID uint) error {
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "delete-product",
		Request: apiclient.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/admin/products/%d/delete/", productID),
		},
		Refresh:  []dispatch.Reloader{c.products},
		Success:  MsgProductDeleted,
		Fallback: MsgDeleteFailed,
	})
}
