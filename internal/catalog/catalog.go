// Package catalog reads the public product catalogue. No token is needed.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const (
	MsgEmpty      = "No products found."
	MsgLoadFailed = "Failed to load products"
)

// Filter narrows the catalogue. A non-empty SubCategory switches to the
// subcategory listing, which ignores the other fields.
type Filter struct {
	CategoryID  uint
	Query       string
	SubCategory string
}

func (f Filter) values() url.Values {
	v := url.Values{}
	if f.CategoryID != 0 {
		v.Set("category", strconv.FormatUint(uint64(f.CategoryID), 10))
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	return v
}

type Catalog struct {
	api   *apiclient.Client
	cache *resource.Cache[transport.Product]

	mu     sync.Mutex
	filter Filter
}

func New(api *apiclient.Client) *Catalog {
	c := &Catalog{api: api}
	c.cache = resource.New(resource.Config[transport.Product]{
		Name:         "products",
		Load:         c.load,
		EmptyMessage: MsgEmpty,
		FailMessage:  MsgLoadFailed,
	})
	return c
}

func (c *Catalog) load(ctx context.Context) ([]transport.Product, error) {
	c.mu.Lock()
	f := c.filter
	c.mu.Unlock()

	req := apiclient.Request{Method: http.MethodGet, Path: "/products/", Query: f.values()}
	if f.SubCategory != "" {
		req = apiclient.Request{Method: http.MethodGet, Path: "/products/subcategory/" + url.PathEscape(f.SubCategory) + "/"}
	}
	var raw json.RawMessage
	err := c.api.Do(ctx, req, &raw)
	if err != nil {
		return nil, err
	}
	items, err := apiclient.DecodeList[transport.Product](raw, "products")
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return items, nil
}

// SetFilter changes what the next refresh fetches.
func (c *Catalog) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

func (c *Catalog) Cache() *resource.Cache[transport.Product] { return c.cache }

func (c *Catalog) Refresh(ctx context.Context) (resource.Snapshot[transport.Product], error) {
	return c.cache.Refresh(ctx)
}

func (c *Catalog) View() resource.View[transport.Product] { return c.cache.View() }

func (c *Catalog) Close() { c.cache.Close() }

func (c *Catalog) Categories(ctx context.Context) ([]transport.Category, error) {
	return apiclient.GetList[transport.Category](ctx, c.api, "/categories/", "", "categories")
}

func (c *Catalog) Product(ctx context.Context, id uint) (transport.Product, error) {
	var p transport.Product
	err := c.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: fmt.Sprintf("/product/%d/", id)}, &p)
	return p, err
}

// Grouped maps each subcategory of the category to its products.
func (c *Catalog) Grouped(ctx context.Context, categoryID uint) (map[string][]transport.Product, error) {
	out := map[string][]transport.Product{}
	err := c.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: fmt.Sprintf("/products/category/%d/grouped/", categoryID)}, &out)
	return out, err
}
