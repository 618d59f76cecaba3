// Package delivery is the delivery-agent console: assigned orders and
// forward-only status updates.
package delivery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const (
	MsgNoOrders     = "No orders assigned."
	MsgLoadFailed   = "Failed to load orders"
	MsgUpdateFailed = "Failed to update order status"
)

type Console struct {
	d      *dispatch.Dispatcher
	orders *resource.Cache[transport.DeliveryOrder]
}

func New(d *dispatch.Dispatcher) *Console {
	return &Console{
		d: d,
		orders: resource.New(resource.Config[transport.DeliveryOrder]{
			Name: "delivery-orders",
			Load: func(ctx context.Context) ([]transport.DeliveryOrder, error) {
				return dispatch.FetchList[transport.DeliveryOrder](ctx, d, "/delivery/orders/", "orders")
			},
			EmptyMessage: MsgNoOrders,
			FailMessage:  MsgLoadFailed,
		}),
	}
}

func (c *Console) Orders() *resource.Cache[transport.DeliveryOrder] { return c.orders }

func (c *Console) Close() { c.orders.Close() }

func (c *Console) status(orderID uint) (string, bool) {
	for _, o := range c.orders.View().Items {
		if o.OrderID == orderID {
			return o.Status, true
		}
	}
	return "", false
}

// UpdateStatus moves orderID to status. The move is checked against the
// transition table using the status in the current snapshot; a rejected
// move never reaches the network.
func (c *Console) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	from, ok := c.status(orderID)
	if !ok {
		return c.d.Reject(apperr.Validation(map[string]string{
			"order": "Order is not assigned to you",
		}), MsgUpdateFailed)
	}
	if !CanTransition(from, status) {
		return c.d.Reject(apperr.Validation(map[string]string{
			"status": fmt.Sprintf("Cannot change status from %s to %s", from, status),
		}), MsgUpdateFailed)
	}
	return c.d.Run(ctx, dispatch.Mutation{
		Name: "update-delivery-status",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/delivery/order/%d/update/", orderID),
			Body:   transport.StatusUpdateRequest{Status: status},
		},
		Refresh:  []dispatch.Reloader{c.orders},
		Success:  "Order status updated to " + status,
		Fallback: MsgUpdateFailed,
	})
}
