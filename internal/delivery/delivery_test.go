package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

func deliveryAPI(statuses map[uint]string) http.Handler {
	var mu sync.Mutex
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/delivery/orders/":
			out := []transport.DeliveryOrder{}
			for id := uint(1); id <= uint(len(statuses)); id++ {
				out = append(out, transport.DeliveryOrder{ID: id, OrderID: id, CustomerName: "asha", Status: statuses[id]})
			}
			testutil.JSON(w, http.StatusOK, out)
		case r.Method == http.MethodPost && r.URL.Path == "/delivery/order/1/update/":
			var req transport.StatusUpdateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			statuses[1] = req.Status
			testutil.JSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
		default:
			http.NotFound(w, r)
		}
	})
}

func TestCanTransition_Table(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusOutForDelivery, true},
		{StatusPending, StatusDelivered, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusOutForDelivery, StatusPending, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusOutForDelivery, false},
		{StatusPending, StatusPending, false},
		{"Cancelled", StatusDelivered, false},
		{StatusPending, "Shipped", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.Empty(t, Next(StatusDelivered))
}

func TestUpdateStatus_Success(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, session.Delivery, true, deliveryAPI(map[uint]string{1: StatusPending}))
	c := New(env.D)
	defer c.Close()

	_, err := c.Orders().Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, c.UpdateStatus(ctx, 1, StatusOutForDelivery))
	assert.Equal(t, StatusOutForDelivery, c.Orders().View().Items[0].Status)
	n, _ := env.LastNotice()
	assert.Equal(t, "Order status updated to Out for Delivery", n.Text)
}

func TestUpdateStatus_RejectedLocally(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, session.Delivery, true, deliveryAPI(map[uint]string{1: StatusDelivered}))
	c := New(env.D)

	_, err := c.Orders().Refresh(ctx)
	require.NoError(t, err)

	err = c.UpdateStatus(ctx, 1, StatusOutForDelivery)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 0, env.Count("POST /delivery/order/1/update/"))

	err = c.UpdateStatus(ctx, 42, StatusDelivered)
	require.ErrorIs(t, err, apperr.ErrValidation)
}
