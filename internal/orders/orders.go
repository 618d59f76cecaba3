// Package orders is the customer's order history.
package orders

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
	MsgEmpty      = "No orders yet."
	MsgLoadFailed = "Failed to load orders"
)

type Line struct {
	ProductName string
	Price       float64
	Quantity    int
}

type Record struct {
	ID         uint
	Status     string
	Items      []Line
	TotalPrice float64
	CreatedAt  time.Time
}

func recordFrom(o transport.Order) Record {
	r := Record{
		ID:         o.ID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      make([]Line, 0, len(o.Items)),
	}
	if r.Status == "" {
		r.Status = "Pending"
	}
	for _, it := range o.Items {
		r.Items = append(r.Items, Line{ProductName: it.ProductName, Price: it.Price, Quantity: it.Quantity})
	}
	return r
}

type Orders struct {
	d     *dispatch.Dispatcher
	cache *resource.Cache[Record]
}

func New(d *dispatch.Dispatcher) *Orders {
	o := &Orders{d: d}
	o.cache = resource.New(resource.Config[Record]{
		Name: "orders",
		Load: func(ctx context.Context) ([]Record, error) {
			items, err := dispatch.FetchList[transport.Order](ctx, d, "/orders/", "orders")
			if err != nil {
				return nil, err
			}
			out := make([]Record, 0, len(items))
			for _, it := range items {
				out = append(out, recordFrom(it))
			}
			return out, nil
		},
		EmptyMessage: MsgEmpty,
		FailMessage:  MsgLoadFailed,
	})
	return o
}

func (o *Orders) Cache() *resource.Cache[Record] { return o.cache }

func (o *Orders) Refresh(ctx context.Context) (resource.Snapshot[Record], error) {
	return o.cache.Refresh(ctx)
}

func (o *Orders) View() resource.View[Record] { return o.cache.View() }

func (o *Orders) Close() { o.cache.Close() }

// Detail fetches one order.
func (o *Orders) Detail(ctx context.Context, id uint) (Record, error) {
	var out transport.Order
	err := o.d.Fetch(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/order/%d/", id),
	}, &out)
	if err != nil {
		return Record{}, err
	}
	return recordFrom(out), nil
}
