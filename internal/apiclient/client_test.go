package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
)

func TestDo_AttachesHeadersAndDecodes(t *testing.T) {
	var got *http.Request
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Added to cart"}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	var out struct {
		Message string `json:"message"`
	}
	err := c.Do(context.Background(), Request{
		Method:         http.MethodPost,
		Path:           "/cart/add/",
		Token:          "tok",
		Body:           map[string]any{"product_id": 3, "quantity": 2},
		RequestID:      "req-1",
		IdempotencyKey: "idem-1",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Added to cart", out.Message)
	assert.Equal(t, "/cart/add/", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "req-1", got.Header.Get("X-Request-ID"))
	assert.Equal(t, "idem-1", got.Header.Get("Idempotency-Key"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.EqualValues(t, 3, gotBody["product_id"])
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/categories/"}, nil))
	assert.Empty(t, auth)
}

func TestDo_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind error
		wantMsg  string
	}{
		{name: "unauthorized", status: 401, body: `{"detail":"Token expired"}`, wantKind: apperr.ErrAuthExpired, wantMsg: "Token expired"},
		{name: "forbidden is rejection", status: 403, body: `{"error":"Admin only"}`, wantKind: apperr.ErrRejected, wantMsg: "Admin only"},
		{name: "bad request", status: 400, body: `{"error":"Out of stock"}`, wantKind: apperr.ErrRejected, wantMsg: "Out of stock"},
		{name: "server error without body", status: 500, body: ``, wantKind: apperr.ErrRejected, wantMsg: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/cart/", Token: "t"}, nil)
			require.ErrorIs(t, err, tt.wantKind)

			var e *apperr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url).Do(context.Background(), Request{Method: http.MethodGet, Path: "/cart/"}, nil)
	require.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestDo_BadJSONIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New(srv.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/cart/"}, &out)
	require.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestGetList_NormalisesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"users":[{"id":1,"name":"a"}]}`))
	}))
	defer srv.Close()

	got, err := GetList[line](context.Background(), New(srv.URL), "/admin/users/", "t", "users")
	require.NoError(t, err)
	assert.Equal(t, []line{{ID: 1, Name: "a"}}, got)
}
