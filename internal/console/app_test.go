package console

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
)

func TestNew_RoleViews(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		role  session.Role
		check func(t *testing.T, a *App)
	}{
		{role: session.Customer, check: func(t *testing.T, a *App) {
			assert.NotNil(t, a.Cart)
			assert.NotNil(t, a.Checkout)
			assert.NotNil(t, a.Profile)
			assert.Nil(t, a.Admin)
		}},
		{role: session.Admin, check: func(t *testing.T, a *App) {
			assert.NotNil(t, a.Admin)
			assert.Nil(t, a.Cart)
			assert.Nil(t, a.Profile)
		}},
		{role: session.Seller, check: func(t *testing.T, a *App) {
			assert.NotNil(t, a.Seller)
			assert.NotNil(t, a.Profile)
		}},
		{role: session.Delivery, check: func(t *testing.T, a *App) { assert.NotNil(t, a.Delivery) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			a, err := New(ctx, Config{APIURL: "http://localhost:1", Role: tt.role, Storage: storage.TypeMemory}, Options{})
			require.NoError(t, err)
			defer a.Close()
			assert.NotNil(t, a.Catalog)
			tt.check(t, a)
		})
	}
}

func TestNew_RedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := New(context.Background(), Config{
		APIURL:    "http://localhost:1",
		Role:      session.Seller,
		Storage:   storage.TypeRedis,
		RedisAddr: mr.Addr(),
	}, Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Storage.Set(context.Background(), session.KeyToken, "t"))
	v, err := mr.Get("martclient:seller:token")
	require.NoError(t, err)
	assert.Equal(t, "t", v)
}

func TestNew_BadPricingFile(t *testing.T) {
	_, err := New(context.Background(), Config{
		Role:        session.Customer,
		Storage:     storage.TypeMemory,
		PricingFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}, Options{})
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MART_ROLE", "delivery")
	t.Setenv("MART_STORAGE", "memory")
	t.Setenv("MART_API_URL", "http://shop.test/api")
	t.Setenv("MART_NOTICE_TTL", "1s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, session.Delivery, cfg.Role)
	assert.Equal(t, storage.TypeMemory, cfg.Storage)
	assert.Equal(t, "http://shop.test/api", cfg.APIURL)
	assert.Equal(t, "1s", cfg.NoticeTTL.String())

	t.Setenv("MART_ROLE", "guest")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("MART_ROLE", "admin")
	t.Setenv("MART_STORAGE", "s3")
	_, err = LoadConfig()
	require.Error(t, err)
}
