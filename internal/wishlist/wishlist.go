// Package wishlist is the customer's saved-products list.
package wishlist

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const (
	MsgEmpty        = "No items in your wishlist."
	MsgLoadFailed   = "Failed to load wishlist"
	MsgAddFailed    = "Failed to add to wishlist"
	MsgRemoveFailed = "Failed to remove item"
	MsgAdded        = "Added to wishlist"
	MsgRemoved      = "Removed from wishlist"
)

type Entry struct {
	ProductID uint
	Name      string
	Price     float64
	ImageURL  string
	AddedAt   time.Time
}

type Wishlist struct {
	d     *dispatch.Dispatcher
	cache *resource.Cache[Entry]
}

func New(d *dispatch.Dispatcher) *Wishlist {
	w := &Wishlist{d: d}
	w.cache = resource.New(resource.Config[Entry]{
		Name: "wishlist",
		Load: func(ctx context.Context) ([]Entry, error) {
			items, err := dispatch.FetchList[transport.WishlistItem](ctx, d, "/wishlist/", "wishlist")
			if err != nil {
				return nil, err
			}
			out := make([]Entry, 0, len(items))
			for _, it := range items {
				price := it.Product.DiscountedPrice
				if price <= 0 {
					price = it.Product.Price
				}
				out = append(out, Entry{
					ProductID: it.Product.ID,
					Name:      it.Product.Name,
					Price:     price,
					ImageURL:  it.Product.Image,
					AddedAt:   it.AddedAt,
				})
			}
			return out, nil
		},
		EmptyMessage: MsgEmpty,
		FailMessage:  MsgLoadFailed,
	})
	return w
}

func (w *Wishlist) Cache() *resource.Cache[Entry] { return w.cache }

func (w *Wishlist) Refresh(ctx context.Context) (resource.Snapshot[Entry], error) {
	return w.cache.Refresh(ctx)
}

func (w *Wishlist) View() resource.View[Entry] { return w.cache.View() }

func (w *Wishlist) Close() { w.cache.Close() }

func (w *Wishlist) Contains(productID uint) bool {
	for _, e := range w.cache.View().Items {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Add(ctx context.Context, productID uint) error {
	return w.d.Run(ctx, dispatch.Mutation{
		Name: "add-to-wishlist",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   "/wishlist/add/",
			Body:   transport.WishlistRequest{ProductID: productID},
		},
		Refresh:  []dispatch.Reloader{w.cache},
		Success:  MsgAdded,
		Fallback: MsgAddFailed,
	})
}

func (w *Wishlist) Remove(ctx context.Context, productID uint) error {
	return w.d.Run(ctx, dispatch.Mutation{
		Name: "remove-from-wishlist",
		Request: apiclient.Request{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/wishlist/remove/%d/", productID),
		},
		Refresh:  []dispatch.Reloader{w.cache},
		Success:  MsgRemoved,
		Fallback: MsgRemoveFailed,
	})
}

// Toggle removes productID when it is in the current snapshot and adds
// it otherwise.
func (w *Wishlist) Toggle(ctx context.Context, productID uint) error {
	if w.Contains(productID) {
		return w.Remove(ctx, productID)
	}
	return w.Add(ctx, productID)
}
