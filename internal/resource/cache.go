// Package resource keeps a per-view snapshot of one server collection.
// A snapshot is replaced wholesale on every refresh and is either fresh
// or explicitly failed; stale items are never shown after a failure.
package resource

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

var (
	// ErrBusy is returned by Refresh while another refresh is in flight.
	ErrBusy = errors.New("refresh already in progress")
	// ErrClosed is returned once the owning view has gone away.
	ErrClosed = errors.New("resource closed")
	// ErrStale marks a response that arrived for a superseded generation.
	ErrStale = errors.New("stale response discarded")
)

type State int

const (
	Idle State = iota
	Loading
	Ready
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type Snapshot[T any] struct {
	Items     []T
	FetchedAt time.Time
}

// View is what a view binder renders.
type View[T any] struct {
	State State
	Items []T
	// Message is the empty-state text, the failure text, or the login
	// prompt when no token is present.
	Message string
}

type Config[T any] struct {
	Name         string
	Load         func(ctx context.Context) ([]T, error)
	EmptyMessage string
	FailMessage  string
}

type Cache[T any] struct {
	cfg Config[T]
	sem chan struct{}

	life   context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	gen     uint64
	state   State
	snap    Snapshot[T]
	message string
	closed  bool
}

func New[T any](cfg Config[T]) *Cache[T] {
	life, cancel := context.WithCancel(context.Background())
	return &Cache[T]{
		cfg:    cfg,
		sem:    make(chan struct{}, 1),
		life:   life,
		cancel: cancel,
	}
}

func (c *Cache[T]) Name() string { return c.cfg.Name }

// Refresh fetches the collection unless a refresh is already running, in
// which case it returns ErrBusy without touching the network.
func (c *Cache[T]) Refresh(ctx context.Context) (Snapshot[T], error) {
	select {
	case c.sem <- struct{}{}:
	default:
		return Snapshot[T]{}, ErrBusy
	}
	defer func() { <-c.sem }()
	return c.refresh(ctx)
}

// Reload waits for any in-flight refresh to finish and then refreshes.
// Mutations use it so the post-mutation refresh is never skipped.
func (c *Cache[T]) Reload(ctx context.Context) error {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.life.Done():
		return ErrClosed
	}
	defer func() { <-c.sem }()
	_, err := c.refresh(ctx)
	return err
}

func (c *Cache[T]) refresh(ctx context.Context) (Snapshot[T], error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot[T]{}, ErrClosed
	}
	c.gen++
	gen := c.gen
	c.state = Loading
	c.message = ""
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.life, cancel)
	defer stop()

	l := logging.FromContext(ctx).With("resource", c.cfg.Name)
	items, err := c.cfg.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		l.Debug("refresh_discarded", "generation", gen)
		return Snapshot[T]{}, ErrStale
	}

	if err != nil {
		c.snap = Snapshot[T]{}
		switch {
		case errors.Is(err, apperr.ErrAuthRequired):
			c.state = Idle
			c.message = apperr.MsgAuthRequired
		case apperr.IsAuth(err):
			c.state = Idle
		default:
			c.state = Failed
			c.message = apperr.UserMessage(err, c.cfg.FailMessage)
		}
		l.Warn("refresh_failed", "error", err)
		return Snapshot[T]{}, err
	}

	if items == nil {
		items = []T{}
	}
	c.snap = Snapshot[T]{Items: items, FetchedAt: time.Now()}
	if len(items) == 0 {
		c.state = Empty
		c.message = c.cfg.EmptyMessage
	} else {
		c.state = Ready
	}
	return c.copySnap(), nil
}

func (c *Cache[T]) copySnap() Snapshot[T] {
	items := make([]T, len(c.snap.Items))
	copy(items, c.snap.Items)
	return Snapshot[T]{Items: items, FetchedAt: c.snap.FetchedAt}
}

func (c *Cache[T]) View() View[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View[T]{State: c.state, Items: c.copySnap().Items, Message: c.message}
}

func (c *Cache[T]) Busy() bool { return len(c.sem) > 0 }

// Update edits the current items in place. It does not start a new
// generation, so a refresh in flight still lands.
func (c *Cache[T]) Update(fn func(items []T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.snap.Items)
}

// Clear empties the snapshot locally and discards any response that is
// still in flight.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.snap = Snapshot[T]{Items: []T{}, FetchedAt: time.Now()}
	c.state = Empty
	c.message = c.cfg.EmptyMessage
}

// Close ends the owning view's lifetime: the in-flight request is
// cancelled and nothing is applied afterwards.
func (c *Cache[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++
	c.mu.Unlock()
	c.cancel()
}
