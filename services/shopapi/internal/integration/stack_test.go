package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/console"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/pkg/db"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/events"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/httpserver"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/repo"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

const (
	adminUser = "root"
	adminPass = "rootpass"
)

type stack struct {
	srv *httptest.Server
	svc *service.ShopService
	rp  *repo.GormRepo
}

func newStack(t *testing.T, opts ...func(*service.ShopService)) *stack {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, "sqlite:file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	rp := &repo.GormRepo{DB: gdb}
	require.NoError(t, rp.Migrate())

	svc := &service.ShopService{Repo: rp, JWTSecret: []byte("test-jwt-secret"), Events: events.Noop{}}
	for _, o := range opts {
		o(svc)
	}
	require.NoError(t, svc.Bootstrap(ctx, []string{"Spices"}, adminUser, adminPass))

	e := httpserver.New(&httpserver.Deps{
		Shop:   &httpserver.ShopHTTP{Svc: svc},
		Svc:    svc,
		Logger: logging.Discard(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &stack{srv: srv, svc: svc, rp: rp}
}

func (s *stack) app(t *testing.T, role session.Role) *console.App {
	t.Helper()
	a, err := console.New(context.Background(), console.Config{
		APIURL:    s.srv.URL,
		Role:      role,
		Storage:   storage.TypeMemory,
		NoticeTTL: time.Second,
		Timeout:   5 * time.Second,
	}, console.Options{})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func (s *stack) product(t *testing.T, name string, price float64, stock int) uint {
	t.Helper()
	p := &models.Product{Name: name, CategoryID: 1, Price: price, Stock: stock}
	require.NoError(t, s.rp.CreateProduct(context.Background(), p))
	return p.ID
}

func (s *stack) customer(t *testing.T, username string) *console.App {
	t.Helper()
	a := s.app(t, session.Customer)
	_, err := a.Session.Register(context.Background(), session.Registration{
		Username: username,
		Email:    username + "@example.in",
		Password: "secret1",
	})
	require.NoError(t, err)
	return a
}

func (s *stack) login(t *testing.T, role session.Role, username, password string) *console.App {
	t.Helper()
	a := s.app(t, role)
	_, err := a.Session.Login(context.Background(), session.Credentials{Username: username, Password: password})
	require.NoError(t, err)
	return a
}
