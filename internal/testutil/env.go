// Package testutil wires a client role against an httptest backend.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
)

type Env struct {
	D       *dispatch.Dispatcher
	Storage *storage.Memory
	Router  *dispatch.Router
	Board   *dispatch.Board
	Server  *httptest.Server

	mu       sync.Mutex
	requests []string
	notices  []dispatch.Notice
}

// NewEnv starts h behind an httptest server and logs the role in with an
// opaque token unless loggedIn is false.
func NewEnv(t *testing.T, role session.Role, loggedIn bool, h http.Handler) *Env {
	t.Helper()
	e := &Env{
		Storage: storage.NewMemory(),
		Router:  dispatch.NewRouter("/"),
		Board:   dispatch.NewBoard(50 * time.Millisecond),
	}
	e.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.requests = append(e.requests, r.Method+" "+r.URL.Path)
		e.mu.Unlock()
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(e.Server.Close)

	e.Board.Subscribe(func(n dispatch.Notice) {
		e.mu.Lock()
		e.notices = append(e.notices, n)
		e.mu.Unlock()
	})

	api := apiclient.New(e.Server.URL)
	e.D = dispatch.New(api, session.New(role, api, e.Storage), e.Router, e.Board)
	if loggedIn {
		if err := e.Storage.Set(context.Background(), role.Config().TokenKey, "test-token"); err != nil {
			t.Fatalf("seed token: %v", err)
		}
	}
	return e
}

// Requests returns "METHOD /path" for every request the backend saw.
func (e *Env) Requests() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.requests...)
}

func (e *Env) Count(methodPath string) int {
	n := 0
	for _, r := range e.Requests() {
		if r == methodPath {
			n++
		}
	}
	return n
}

// Notices returns every notice shown, oldest first.
func (e *Env) Notices() []dispatch.Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]dispatch.Notice(nil), e.notices...)
}

func (e *Env) LastNotice() (dispatch.Notice, bool) {
	n := e.Notices()
	if len(n) == 0 {
		return dispatch.Notice{}, false
	}
	return n[len(n)-1], true
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
