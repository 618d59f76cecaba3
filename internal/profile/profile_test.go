package profile

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

func profileAPI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile/":
			testutil.JSON(w, http.StatusOK, transport.Profile{ID: 4, Username: "sam", Name: "Sam Iyer", Email: "sam@example.in"})
		case "/seller/profile/":
			testutil.JSON(w, http.StatusOK, transport.Profile{ID: 7, Username: "asha", Name: "asha", StoreName: "Asha Provisions"})
		default:
			http.NotFound(w, r)
		}
	})
}

func TestLoad_PerRole(t *testing.T) {
	ctx := context.Background()

	env := testutil.NewEnv(t, session.Customer, true, profileAPI())
	p, err := New(env.D, session.Customer).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sam Iyer", p.Name)
	assert.Equal(t, "sam@example.in", p.Email)
	assert.Equal(t, []string{"GET /profile/"}, env.Requests())

	env = testutil.NewEnv(t, session.Seller, true, profileAPI())
	p, err = New(env.D, session.Seller).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha Provisions", p.StoreName)
	assert.Equal(t, []string{"GET /seller/profile/"}, env.Requests())
}

func TestLoad_SignedOut(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, false, profileAPI())

	_, err := New(env.D, session.Customer).Load(context.Background())
	require.ErrorIs(t, err, apperr.ErrAuthRequired)
	assert.Empty(t, env.Requests())
	assert.Equal(t, "/login", env.Router.Route())
}

func TestLoad_ExpiredSession(t *testing.T) {
	env := testutil.NewEnv(t, session.Customer, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
	}))

	_, err := New(env.D, session.Customer).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsAuth(err))
	assert.Equal(t, "/login", env.Router.Route())
}
