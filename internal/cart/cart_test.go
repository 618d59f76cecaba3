package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

var basmati = transport.Product{ID: 7, Name: "Basmati Rice 1kg", Price: 120, Stock: 5, Image: "rice.jpg"}

func newCart(t *testing.T, api *fakeCartAPI) (*Cart, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t, session.Customer, true, api)
	c := New(env.D, env.Storage)
	t.Cleanup(c.Close)
	return c, env
}

func TestAddThenRemove(t *testing.T) {
	ctx := context.Background()
	c, env := newCart(t, newFakeCartAPI(basmati))

	_, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, resource.Empty, c.View().State)

	require.NoError(t, c.Add(ctx, basmati.ID, 2))
	v := c.View()
	require.Equal(t, resource.Ready, v.State)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.Equal(t, "Basmati Rice 1kg", v.Items[0].Name)
	assert.Equal(t, 240.0, c.Subtotal())

	n, ok := env.LastNotice()
	require.True(t, ok)
	assert.Equal(t, dispatch.Notice{ID: n.ID, Kind: dispatch.NoticeSuccess, Text: MsgAdded}, n)

	require.NoError(t, c.Remove(ctx, basmati.ID))
	v = c.View()
	assert.Equal(t, resource.Empty, v.State)
	assert.Equal(t, MsgEmpty, v.Message)
	assert.Equal(t, 1, env.Count("DELETE /cart/remove/7/"))
}

func TestAdd_ServerRejection(t *testing.T) {
	ctx := context.Background()
	c, env := newCart(t, newFakeCartAPI(basmati))

	err := c.Add(ctx, basmati.ID, 9)
	require.ErrorIs(t, err, apperr.ErrRejected)

	n, _ := env.LastNotice()
	assert.Equal(t, dispatch.NoticeError, n.Kind)
	assert.Equal(t, "Only 5 left in stock", n.Text)
	assert.Zero(t, env.Count("GET /cart/"), "no refresh after a failed mutation")
}

func TestAdd_InvalidQuantitySkipsNetwork(t *testing.T) {
	c, env := newCart(t, newFakeCartAPI(basmati))

	err := c.Add(context.Background(), basmati.ID, 0)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, env.Requests())
}

func TestRefresh_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	api := newFakeCartAPI(basmati)
	api.set(basmati.ID, 1)
	c, env := newCart(t, api)

	_, err := c.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, c.View().Items, 1)

	api.setStatus(401)
	_, err = c.Refresh(ctx)
	require.True(t, apperr.IsAuth(err))

	_, ok := env.D.Session().CurrentToken(ctx)
	assert.False(t, ok, "token cleared")
	assert.Equal(t, "/login", env.Router.Route())
	assert.Empty(t, c.View().Items, "no stale snapshot")
}

func TestRefresh_NoTokenSkipsNetwork(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, false, newFakeCartAPI())
	c := New(env.D, env.Storage)

	_, err := c.Refresh(context.Background())
	require.ErrorIs(t, err, apperr.ErrAuthRequired)
	assert.Empty(t, env.Requests())
	assert.Equal(t, "/login", env.Router.Route())
}

func TestIncrementDecrement_Bounds(t *testing.T) {
	ctx := context.Background()
	api := newFakeCartAPI(basmati)
	api.set(basmati.ID, 5)
	c, env := newCart(t, api)
	_, err := c.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Increment(ctx, basmati.ID))
	assert.Zero(t, env.Count("POST /cart/update/"), "increment at stock is a no-op")

	require.NoError(t, c.Decrement(ctx, basmati.ID))
	assert.Equal(t, 1, env.Count("POST /cart/update/"))
	assert.Equal(t, 4, c.View().Items[0].Quantity)

	api.set(basmati.ID, 1)
	_, err = c.Refresh(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Decrement(ctx, basmati.ID))
	assert.Equal(t, 1, env.Count("POST /cart/update/"), "decrement at 1 is a no-op")
	assert.Equal(t, 1, c.View().Items[0].Quantity)
}

func TestUpdateQuantity_FailureRestoresCapturedValue(t *testing.T) {
	ctx := context.Background()
	api := newFakeCartAPI(basmati)
	api.set(basmati.ID, 2)
	c, env := newCart(t, api)
	_, err := c.Refresh(ctx)
	require.NoError(t, err)

	api.setFailUpdate(true)
	err = c.UpdateQuantity(ctx, basmati.ID, 4)
	require.Error(t, err)

	assert.Equal(t, 2, c.View().Items[0].Quantity)
	n, _ := env.LastNotice()
	assert.Equal(t, MsgQuantityFailed, n.Text)
	assert.Equal(t, 2, env.Count("GET /cart/"), "refetched after failure")
}

func TestApplyLocalQuantityChange_Clamps(t *testing.T) {
	ctx := context.Background()
	api := newFakeCartAPI(basmati)
	api.set(basmati.ID, 3)
	c, _ := newCart(t, api)
	_, err := c.Refresh(ctx)
	require.NoError(t, err)

	tests := []struct {
		in, wantApplied int
	}{
		{in: 0, wantApplied: 1},
		{in: -4, wantApplied: 1},
		{in: 99, wantApplied: 5},
		{in: 4, wantApplied: 4},
	}
	for _, tt := range tests {
		_, applied, _ := c.ApplyLocalQuantityChange(basmati.ID, tt.in)
		assert.Equal(t, tt.wantApplied, applied)
		assert.Equal(t, tt.wantApplied, c.View().Items[0].Quantity)
	}

	prev, _, _ := c.ApplyLocalQuantityChange(basmati.ID, 2)
	assert.Equal(t, 4, prev)
}

func TestHandoff_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeCartAPI(basmati)
	api.set(basmati.ID, 2)
	c, env := newCart(t, api)
	_, err := c.Refresh(ctx)
	require.NoError(t, err)

	addr := &transport.ShippingAddress{FullName: "Asha Rao", City: "Pune", Pincode: "411001"}
	require.NoError(t, c.Handoff(ctx, addr))

	h, err := ReadHandoff(ctx, env.Storage)
	require.NoError(t, err)
	require.Len(t, h.Lines, 1)
	assert.Equal(t, 2, h.Lines[0].Quantity)
	require.NotNil(t, h.Address)
	assert.Equal(t, "Pune", h.Address.City)

	require.NoError(t, ClearHandoff(ctx, env.Storage))
	_, err = ReadHandoff(ctx, env.Storage)
	require.ErrorIs(t, err, ErrNoHandoff)
}
