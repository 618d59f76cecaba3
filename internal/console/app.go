// Package console assembles the client for one role.
package console

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/friendly_mart/internal/addresses"
	"github.com/Skotchmaster/friendly_mart/internal/admin"
	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/cart"
	"github.com/Skotchmaster/friendly_mart/internal/catalog"
	"github.com/Skotchmaster/friendly_mart/internal/checkout"
	"github.com/Skotchmaster/friendly_mart/internal/delivery"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/orders"
	"github.com/Skotchmaster/friendly_mart/internal/profile"
	"github.com/Skotchmaster/friendly_mart/internal/seller"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/internal/wishlist"
)

// App holds the views available to a role. Views that do not belong to
// the role are nil.
type App struct {
	Role       session.Role
	Storage    storage.Storage
	Session    *session.Store
	Dispatcher *dispatch.Dispatcher
	Router     *dispatch.Router
	Notices    *dispatch.Board
	Catalog    *catalog.Catalog

	Cart      *cart.Cart
	Orders    *orders.Orders
	Wishlist  *wishlist.Wishlist
	Addresses *addresses.Book
	Checkout  *checkout.Flow
	// Profile is set for customers and sellers.
	Profile *profile.Reader

	Admin    *admin.Console
	Seller   *seller.Console
	Delivery *delivery.Console

	closers []func()
}

// Options overrides pieces that New would otherwise build from Config.
type Options struct {
	Storage storage.Storage
	API     *apiclient.Client
}

func New(ctx context.Context, cfg Config, opts Options) (*App, error) {
	a := &App{Role: cfg.Role}

	st := opts.Storage
	if st == nil {
		var err error
		st, err = a.openStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	a.Storage = st

	api := opts.API
	if api == nil {
		api = apiclient.New(cfg.APIURL, apiclient.WithTimeout(cfg.Timeout))
	}

	var pricing *checkout.PricingRules
	if cfg.PricingFile != "" {
		rules, err := checkout.LoadPricing(cfg.PricingFile)
		if err != nil {
			return nil, err
		}
		pricing = &rules
	}

	a.Session = session.New(cfg.Role, api, st)
	a.Router = dispatch.NewRouter("/")
	a.Notices = dispatch.NewBoard(cfg.NoticeTTL)
	a.Dispatcher = dispatch.New(api, a.Session, a.Router, a.Notices)
	a.Catalog = catalog.New(api)
	a.closers = append(a.closers, a.Catalog.Close)

	switch cfg.Role {
	case session.Customer:
		a.Cart = cart.New(a.Dispatcher, st)
		a.Orders = orders.New(a.Dispatcher)
		a.Wishlist = wishlist.New(a.Dispatcher)
		a.Addresses = addresses.New(a.Dispatcher)
		a.Profile = profile.New(a.Dispatcher, session.Customer)
		a.Checkout = checkout.New(checkout.Deps{
			Dispatcher: a.Dispatcher,
			Storage:    st,
			Cart:       a.Cart,
			Orders:     a.Orders.Cache(),
			Scheduler:  a.Router,
			Pricing:    pricing,
		})
		a.closers = append(a.closers, a.Cart.Close, a.Orders.Close, a.Wishlist.Close, a.Addresses.Close)
	case session.Admin:
		a.Admin = admin.New(a.Dispatcher)
		a.closers = append(a.closers, a.Admin.Close)
	case session.Seller:
		a.Seller = seller.New(a.Dispatcher)
		a.Profile = profile.New(a.Dispatcher, session.Seller)
		a.closers = append(a.closers, a.Seller.Close)
	case session.Delivery:
		a.Delivery = delivery.New(a.Dispatcher)
		a.closers = append(a.closers, a.Delivery.Close)
	}
	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	switch cfg.Storage {
	case storage.TypeRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return storage.New(storage.TypeRedis, storage.WithRedisClient(client), storage.WithNamespace(string(cfg.Role)))
	default:
		return storage.New(cfg.Storage, storage.WithPath(cfg.StoragePath))
	}
}

// Close cancels every view's in-flight requests and releases storage.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
