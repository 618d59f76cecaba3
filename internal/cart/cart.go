// Package cart is the customer's cart cache with optimistic quantity
// edits and the cart-to-checkout handoff.
package cart

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

const (
	MsgEmpty          = "Your cart is empty."
	MsgLoadFailed     = "Failed to load cart"
	MsgAddFailed      = "Failed to add to cart"
	MsgRemoveFailed   = "Failed to remove item from cart"
	MsgQuantityFailed = "Failed to update quantity"
	MsgAdded          = "Added to cart"
	MsgRemoved        = "Item removed from cart"
)

type Line struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	ImageURL  string  `json:"image_url"`
}

func (l Line) Total() float64 { return round2(l.UnitPrice * float64(l.Quantity)) }

type Cart struct {
	d       *dispatch.Dispatcher
	storage storage.Storage
	cache   *resource.Cache[Line]
}

func New(d *dispatch.Dispatcher, st storage.Storage) *Cart {
	c := &Cart{d: d, storage: st}
	c.cache = resource.New(resource.Config[Line]{
		Name:         "cart",
		Load:         c.load,
		EmptyMessage: MsgEmpty,
		FailMessage:  MsgLoadFailed,
	})
	return c
}

func (c *Cart) load(ctx context.Context) ([]Line, error) {
	items, err := dispatch.FetchList[transport.CartItem](ctx, c.d, "/cart/", "cart_items")
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, lineFrom(it))
	}
	return lines, nil
}

func lineFrom(it transport.CartItem) Line {
	price := it.DiscountedPrice
	if price <= 0 {
		price = it.Product.DiscountedPrice
	}
	if price <= 0 {
		price = it.Product.Price
	}
	return Line{
		ProductID: it.Product.ID,
		Name:      it.Product.Name,
		UnitPrice: price,
		Quantity:  it.Quantity,
		Stock:     it.Product.Stock,
		ImageURL:  it.Product.Image,
	}
}

func (c *Cart) Cache() *resource.Cache[Line] { return c.cache }

func (c *Cart) Refresh(ctx context.Context) (resource.Snapshot[Line], error) {
	return c.cache.Refresh(ctx)
}

func (c *Cart) View() resource.View[Line] { return c.cache.View() }

func (c *Cart) Close() { c.cache.Close() }

// Clear empties the local snapshot, as after a placed order.
func (c *Cart) Clear() { c.cache.Clear() }

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.cache.View().Items {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return round2(sum)
}

func (c *Cart) Add(ctx context.Context, productID uint, qty int) error {
	if qty < 1 {
		return c.d.Reject(apperr.Validation(map[string]string{
			"quantity": "Quantity must be at least 1",
		}), MsgAddFailed)
	}
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "add-to-cart",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   "/cart/add/",
			Body:   transport.AddToCartRequest{ProductID: productID, Quantity: qty},
		},
		Refresh:  []dispatch.Reloader{c.cache},
		Success:  MsgAdded,
		Fallback: MsgAddFailed,
	})
}

func (c *Cart) Remove(ctx context.Context, productID uint) error {
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "remove-from-cart",
		Request: apiclient.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/cart/remove/%d/", productID),
		},
		Refresh:  []dispatch.Reloader{c.cache},
		Success:  MsgRemoved,
		Fallback: MsgRemoveFailed,
	})
}

// ApplyLocalQuantityChange sets the displayed quantity of productID,
// clamped to [1, stock]. It returns the value before the change, the
// value applied, and whether anything changed.
func (c *Cart) ApplyLocalQuantityChange(productID uint, qty int) (prev, applied int, changed bool) {
	c.cache.Update(func(lines []Line) {
		for i := range lines {
			if lines[i].ProductID != productID {
				continue
			}
			prev = lines[i].Quantity
			applied = clamp(qty, lines[i].Stock)
			lines[i].Quantity = applied
			changed = applied != prev
			return
		}
	})
	return prev, applied, changed
}

func (c *Cart) Increment(ctx context.Context, productID uint) error {
	l, ok := c.line(productID)
	if !ok {
		return nil
	}
	return c.UpdateQuantity(ctx, productID, l.Quantity+1)
}

func (c *Cart) Decrement(ctx context.Context, productID uint) error {
	l, ok := c.line(productID)
	if !ok {
		return nil
	}
	return c.UpdateQuantity(ctx, productID, l.Quantity-1)
}

// UpdateQuantity echoes the new quantity locally, then confirms it with
// the server. A change that clamps to the current value is a no-op and
// sends nothing. On failure the captured value is restored and the cart
// is refetched.
func (c *Cart) UpdateQuantity(ctx context.Context, productID uint, qty int) error {
	if _, ok := c.line(productID); !ok {
		return c.d.Reject(apperr.Validation(map[string]string{
			"product": "Item is not in your cart",
		}), MsgQuantityFailed)
	}
	prev, applied, changed := c.ApplyLocalQuantityChange(productID, qty)
	if !changed {
		return nil
	}

	err := c.d.Run(ctx, dispatch.Mutation{
		Name: "update-quantity",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   "/cart/update/",
			Body:   transport.UpdateCartRequest{ProductID: productID, Quantity: applied},
		},
		Refresh:  []dispatch.Reloader{c.cache},
		Fallback: MsgQuantityFailed,
	})
	if err == nil || apperr.IsAuth(err) {
		return err
	}

	c.ApplyLocalQuantityChange(productID, prev)
	if rerr := c.cache.Reload(ctx); rerr != nil {
		logging.FromContext(ctx).Warn("cart_refetch_failed", "error", rerr)
	}
	return err
}

func (c *Cart) line(productID uint) (Line, bool) {
	for _, l := range c.cache.View().Items {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func clamp(qty, stock int) int {
	if stock < 1 {
		stock = 1
	}
	if qty < 1 {
		return 1
	}
	if qty > stock {
		return stock
	}
	return qty
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
