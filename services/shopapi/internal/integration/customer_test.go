package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/addresses"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/cart"
	"github.com/Skotchmaster/friendly_mart/internal/checkout"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

func TestCart_AddThenRemove(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	p := s.product(t, "Cardamom 100g", 120, 5)
	a := s.customer(t, "asha")

	require.NoError(t, a.Cart.Add(ctx, p, 2))
	v := a.Cart.View()
	require.Equal(t, resource.Ready, v.State)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.Equal(t, 5, v.Items[0].Stock)

	require.NoError(t, a.Cart.Increment(ctx, p))
	assert.Equal(t, 3, a.Cart.View().Items[0].Quantity)

	require.NoError(t, a.Cart.UpdateQuantity(ctx, p, 50))
	assert.Equal(t, 5, a.Cart.View().Items[0].Quantity, "clamped to stock")

	require.NoError(t, a.Cart.Remove(ctx, p))
	v = a.Cart.View()
	assert.Equal(t, resource.Empty, v.State)
	assert.Equal(t, cart.MsgEmpty, v.Message)
}

func TestCart_ServerRejectsOverStock(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	p := s.product(t, "Pepper 250g", 90, 1)
	a := s.customer(t, "kiran")

	err := a.Cart.Add(ctx, p, 3)
	require.ErrorIs(t, err, apperr.ErrRejected)
	n, ok := a.Notices.Current()
	require.True(t, ok)
	assert.Equal(t, "Only 1 in stock", n.Text)
}

func TestCheckout_HappyPath(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	saffron := s.product(t, "Saffron 1g", 250, 10)
	cashews := s.product(t, "Cashews 500g", 500, 4)
	a := s.customer(t, "meera")

	require.NoError(t, a.Cart.Add(ctx, saffron, 2))
	require.NoError(t, a.Cart.Add(ctx, cashews, 1))
	require.NoError(t, a.Cart.Handoff(ctx, nil))

	f := a.Checkout
	require.NoError(t, f.Start(ctx))
	f.Edit(func(form *checkout.Form) {
		form.FullName = "Meera Iyer"
		form.Phone = "9876543210"
		form.Email = "meera@example.in"
		form.Address = "44 Residency Road"
		form.City = "Bengaluru"
		form.State = "Karnataka"
		form.Pincode = "560025"
		form.PaymentMethod = checkout.PaymentCOD
	})
	require.NoError(t, f.Next())
	require.NoError(t, f.Next())
	assert.Equal(t, 900.0, f.Snapshot().Quote.Total)

	require.NoError(t, f.Submit(ctx))
	snap := f.Snapshot()
	assert.Equal(t, checkout.Succeeded, snap.State)
	assert.Equal(t, resource.Empty, a.Cart.View().State)

	ov := a.Orders.View()
	require.Len(t, ov.Items, 1)
	assert.Equal(t, "Pending", ov.Items[0].Status)
	assert.Equal(t, 1000.0, ov.Items[0].TotalPrice)

	items, err := s.svc.Cart(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, items, "server cart cleared")
}

func TestPlaceOrder_IdempotencyKeyCollapsesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	p := s.product(t, "Tea 1kg", 600, 3)
	a := s.customer(t, "dev")
	require.NoError(t, a.Cart.Add(ctx, p, 1))

	sess, ok := a.Session.Current(ctx)
	require.True(t, ok)
	claims, err := s.svc.Authenticate(sess.Token)
	require.NoError(t, err)

	req := service.PlaceOrder{
		Shipping: service.Shipping{
			FullName: "Dev Shah", Phone: "9123456780", Address: "7 Marine Drive",
			City: "Mumbai", State: "MH", Pincode: "400020",
		},
		PaymentMethod:  "upi",
		IdempotencyKey: "k-1",
	}
	first, created, err := s.svc.PlaceOrder(ctx, claims.UserID, req)
	require.NoError(t, err)
	assert.True(t, created)
	second, created, err := s.svc.PlaceOrder(ctx, claims.UserID, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestExpiredToken_ForcesLogout(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, func(svc *service.ShopService) {
		svc.Now = func() time.Time { return time.Now().Add(-time.Hour) }
	})
	a := s.customer(t, "old")

	_, err := a.Cart.Refresh(ctx)
	require.ErrorIs(t, err, apperr.ErrAuthExpired)

	// Later attempts find no token; the terminal state is the same.
	for i := 0; i < 3; i++ {
		if i > 0 {
			_, err = a.Cart.Refresh(ctx)
			require.ErrorIs(t, err, apperr.ErrAuthRequired)
		}
		_, ok := a.Session.CurrentToken(ctx)
		assert.False(t, ok)
		assert.Equal(t, "/login", a.Router.Route())
		assert.Empty(t, a.Cart.View().Items)
	}
}

func TestForgedToken_ServerAnswers401(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	a := s.customer(t, "zoya")
	require.NoError(t, a.Storage.Set(ctx, session.KeyAccessToken, "not-a-jwt"))

	err := a.Wishlist.Add(ctx, 1)
	require.ErrorIs(t, err, apperr.ErrAuthExpired)
	_, ok := a.Session.CurrentToken(ctx)
	assert.False(t, ok)
	assert.Equal(t, "/login", a.Router.Route())
}

func TestWishlistAndAddresses(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	p := s.product(t, "Turmeric 200g", 80, 9)
	a := s.customer(t, "nila")

	require.NoError(t, a.Wishlist.Toggle(ctx, p))
	assert.True(t, a.Wishlist.Contains(p))
	require.NoError(t, a.Wishlist.Toggle(ctx, p))
	assert.False(t, a.Wishlist.Contains(p))

	require.NoError(t, a.Addresses.Add(ctx, addresses.Form{
		FullName: "Nila M", Phone: "9000000001", Line1: "3 Anna Salai",
		City: "Chennai", State: "TN", PostalCode: "600002",
	}))
	def, ok := a.Addresses.Default()
	require.True(t, ok)
	assert.Equal(t, "India", def.Country)
	assert.True(t, def.IsDefault)
}
