package dispatch

import (
	"sync"
	"time"
)

type Navigator interface {
	Navigate(route string)
}

// Router records the current route. Delayed navigations are cancelled by
// any navigation that happens before they fire.
type Router struct {
	mu      sync.Mutex
	route   string
	history []string
	pending *time.Timer
	onNav   func(route string)
}

func NewRouter(start string) *Router {
	return &Router{route: start}
}

// OnNavigate registers a hook run after every route change.
func (r *Router) OnNavigate(fn func(route string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onNav = fn
}

func (r *Router) Navigate(route string) {
	r.mu.Lock()
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	r.route = route
	r.history = append(r.history, route)
	hook := r.onNav
	r.mu.Unlock()

	if hook != nil {
		hook(route)
	}
}

// NavigateAfter schedules a navigation after d.
func (r *Router) NavigateAfter(route string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		r.pending.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.pending != t {
			r.mu.Unlock()
			return
		}
		r.pending = nil
		r.mu.Unlock()
		r.Navigate(route)
	})
	r.pending = t
}

func (r *Router) Route() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
