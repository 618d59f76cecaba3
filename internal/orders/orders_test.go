package orders

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

var placed = transport.Order{
	ID:         11,
	Status:     "Out for Delivery",
	TotalPrice: 900,
	CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	Items:      []transport.OrderItem{{ProductName: "Ghee 500ml", Price: 300, Quantity: 3}},
}

func TestRefresh_Envelopes(t *testing.T) {
	bodies := map[string]any{
		"bare":    []transport.Order{placed},
		"results": map[string]any{"results": []transport.Order{placed}},
		"domain":  map[string]any{"orders": []transport.Order{placed}},
	}
	for name, body := range bodies {
		body := body
		t.Run(name, func(t *testing.T) {
			env := testutil.NewEnv(t, session.Customer, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				testutil.JSON(w, http.StatusOK, body)
			}))
			o := New(env.D)
			defer o.Close()

			_, err := o.Refresh(context.Background())
			require.NoError(t, err)
			v := o.View()
			require.Equal(t, resource.Ready, v.State)
			require.Len(t, v.Items, 1)
			assert.Equal(t, "Out for Delivery", v.Items[0].Status)
			assert.Equal(t, []Line{{ProductName: "Ghee 500ml", Price: 300, Quantity: 3}}, v.Items[0].Items)
		})
	}
}

func TestRefresh_Empty(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusOK, []transport.Order{})
	}))
	o := New(env.D)

	_, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resource.Empty, o.View().State)
	assert.Equal(t, MsgEmpty, o.View().Message)
}

func TestRefresh_FailureRendersRetryState(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	o := New(env.D)

	_, err := o.Refresh(context.Background())
	require.ErrorIs(t, err, apperr.ErrRejected)
	assert.Equal(t, resource.Failed, o.View().State)
	assert.Equal(t, MsgLoadFailed, o.View().Message)
}

func TestDetail(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order/11/" {
			testutil.JSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
			return
		}
		testutil.JSON(w, http.StatusOK, placed)
	}))
	o := New(env.D)

	rec, err := o.Detail(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, 900.0, rec.TotalPrice)

	_, err = o.Detail(context.Background(), 12)
	require.ErrorIs(t, err, apperr.ErrRejected)
	assert.Equal(t, "Order not found", apperr.UserMessage(err, ""))
}
