package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/checkout"
	"github.com/Skotchmaster/friendly_mart/internal/delivery"
	"github.com/Skotchmaster/friendly_mart/internal/seller"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

func userNamed(t *testing.T, users []transport.User, name string) transport.User {
	t.Helper()
	for _, u := range users {
		if u.Username == name {
			return u
		}
	}
	t.Fatalf("user %q not listed", name)
	return transport.User{}
}

func TestAdmin_PromoteSellerThenSellerAddsProduct(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.customer(t, "ravi")
	admin := s.login(t, session.Admin, adminUser, adminPass)

	_, err := admin.Admin.Users().Refresh(ctx)
	require.NoError(t, err)
	ravi := userNamed(t, admin.Admin.Users().View().Items, "ravi")
	require.False(t, ravi.IsSeller)

	require.NoError(t, admin.Admin.PromoteSeller(ctx, ravi.ID, "Ravi Traders"))
	assert.True(t, userNamed(t, admin.Admin.Users().View().Items, "ravi").IsSeller)

	sl := s.login(t, session.Seller, "ravi", "secret1")
	require.NoError(t, sl.Seller.AddProduct(ctx, seller.ProductForm{
		Name: "Kokum 250g", CategoryID: 1, Price: 140, Stock: 12,
	}))
	items := sl.Seller.Products().View().Items
	require.Len(t, items, 1)
	assert.Equal(t, "Kokum 250g", items[0].Name)

	require.NoError(t, admin.Admin.DeleteUser(ctx, ravi.ID))
	for _, u := range admin.Admin.Users().View().Items {
		assert.NotEqual(t, "ravi", u.Username)
	}
	assert.Empty(t, admin.Admin.Products().View().Items)
}

func TestAdminLogin_RequiresStaff(t *testing.T) {
	s := newStack(t)
	s.customer(t, "plain")
	a := s.app(t, session.Admin)

	_, err := a.Session.Login(context.Background(), session.Credentials{Username: "plain", Password: "secret1"})
	require.ErrorIs(t, err, apperr.ErrRejected)
	assert.Equal(t, session.MsgAdminRequired, apperr.UserMessage(err, ""))
	_, ok := a.Session.CurrentToken(context.Background())
	assert.False(t, ok)
}

func TestSellerLogin_RejectsNonSeller(t *testing.T) {
	s := newStack(t)
	s.customer(t, "buyer")
	a := s.app(t, session.Seller)

	_, err := a.Session.Login(context.Background(), session.Credentials{Username: "buyer", Password: "secret1"})
	require.ErrorIs(t, err, apperr.ErrRejected)
}

func TestDelivery_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	p := s.product(t, "Jaggery 1kg", 110, 20)

	s.customer(t, "arjun")
	admin := s.login(t, session.Admin, adminUser, adminPass)
	_, err := admin.Admin.Users().Refresh(ctx)
	require.NoError(t, err)
	arjun := userNamed(t, admin.Admin.Users().View().Items, "arjun")
	require.NoError(t, admin.Admin.PromoteAgent(ctx, arjun.ID, "9811122233"))

	buyer := s.customer(t, "tara")
	require.NoError(t, buyer.Cart.Add(ctx, p, 2))
	require.NoError(t, buyer.Cart.Handoff(ctx, nil))
	require.NoError(t, buyer.Checkout.Start(ctx))
	buyer.Checkout.Edit(func(f *checkout.Form) {
		f.FullName, f.Phone, f.Email = "Tara Sen", "9000011111", "tara@example.in"
		f.Address, f.City, f.State, f.Pincode = "21 Park Street", "Kolkata", "WB", "700016"
		f.PaymentMethod = checkout.PaymentCard
	})
	require.NoError(t, buyer.Checkout.Next())
	require.NoError(t, buyer.Checkout.Next())
	require.NoError(t, buyer.Checkout.Submit(ctx))
	orderID := buyer.Checkout.Snapshot().Order.ID

	agent := s.login(t, session.Delivery, "arjun", "secret1")
	_, err = agent.Delivery.Orders().Refresh(ctx)
	require.NoError(t, err)
	orders := agent.Delivery.Orders().View().Items
	require.Len(t, orders, 1)
	assert.Equal(t, delivery.StatusPending, orders[0].Status)
	assert.Equal(t, "Tara Sen", orders[0].CustomerName)

	require.NoError(t, agent.Delivery.UpdateStatus(ctx, orderID, delivery.StatusOutForDelivery))
	assert.Equal(t, delivery.StatusOutForDelivery, agent.Delivery.Orders().View().Items[0].Status)

	err = agent.Delivery.UpdateStatus(ctx, orderID, delivery.StatusPending)
	require.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, agent.Delivery.UpdateStatus(ctx, orderID, delivery.StatusDelivered))

	_, err = buyer.Orders.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusDelivered, buyer.Orders.View().Items[0].Status)
}
