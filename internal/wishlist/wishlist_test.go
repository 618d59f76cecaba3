package wishlist

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

func wishlistAPI() http.Handler {
	var mu sync.Mutex
	saved := map[uint]bool{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wishlist/":
			items := []transport.WishlistItem{}
			for id := range saved {
				items = append(items, transport.WishlistItem{ID: id, Product: transport.Product{ID: id, Name: "Paneer", Price: 90}})
			}
			testutil.JSON(w, http.StatusOK, items)
		case r.Method == http.MethodPost && r.URL.Path == "/wishlist/add/":
			var req transport.WishlistRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.ProductID == 0 {
				testutil.JSON(w, http.StatusBadRequest, map[string]string{"error": "Product ID is required"})
				return
			}
			saved[req.ProductID] = true
			testutil.JSON(w, http.StatusOK, map[string]string{"message": "Product added to wishlist"})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/wishlist/remove/"):
			for id := range saved {
				delete(saved, id)
			}
			testutil.JSON(w, http.StatusOK, map[string]string{"message": "Removed"})
		default:
			http.NotFound(w, r)
		}
	})
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t, session.Customer, true, wishlistAPI())
	wl := New(env.D)
	defer wl.Close()

	require.NoError(t, wl.Toggle(ctx, 4))
	assert.True(t, wl.Contains(4))
	assert.Equal(t, resource.Ready, wl.View().State)

	require.NoError(t, wl.Toggle(ctx, 4))
	assert.False(t, wl.Contains(4))
	assert.Equal(t, MsgEmpty, wl.View().Message)

	assert.Equal(t, []string{
		"POST /wishlist/add/", "GET /wishlist/",
		"DELETE /wishlist/remove/4/", "GET /wishlist/",
	}, env.Requests())
}

func TestAdd_ServerMessage(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, true, wishlistAPI())
	wl := New(env.D)

	require.Error(t, wl.Add(context.Background(), 0))
	n, ok := env.LastNotice()
	require.True(t, ok)
	assert.Equal(t, "Product ID is required", n.Text)
}
