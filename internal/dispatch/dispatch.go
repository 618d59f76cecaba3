// Package dispatch runs authenticated calls against the backend with a
// uniform outcome: token check, bearer request, refresh of the affected
// caches, a transient notice, and forced logout on auth failure.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

// Reloader is a cache that a mutation refreshes after success.
type Reloader interface {
	Name() string
	Reload(ctx context.Context) error
}

type Mutation struct {
	Name    string
	Request apiclient.Request
	// Out receives the decoded success body when non-nil.
	Out      any
	Refresh  []Reloader
	Success  string
	Fallback string
	// Idempotent adds an Idempotency-Key so the backend collapses
	// duplicate submissions.
	Idempotent bool
}

type Dispatcher struct {
	api      *apiclient.Client
	session  *session.Store
	nav      Navigator
	notifier Notifier
}

func New(api *apiclient.Client, s *session.Store, nav Navigator, n Notifier) *Dispatcher {
	return &Dispatcher{api: api, session: s, nav: nav, notifier: n}
}

func (d *Dispatcher) Session() *session.Store { return d.session }

func (d *Dispatcher) Navigator() Navigator { return d.nav }

func (d *Dispatcher) Notifier() Notifier { return d.notifier }

// Fetch performs an authenticated read. It never shows notices; auth
// failures still end the session.
func (d *Dispatcher) Fetch(ctx context.Context, req apiclient.Request, out any) error {
	tok, err := d.token(ctx)
	if err != nil {
		return err
	}
	req.Token = tok
	if err := d.api.Do(ctx, req, out); err != nil {
		if apperr.IsAuth(err) {
			d.AuthFailed(ctx)
		}
		return err
	}
	return nil
}

// FetchList is Fetch for list endpoints with envelope normalisation.
func FetchList[T any](ctx context.Context, d *Dispatcher, path string, fields ...string) ([]T, error) {
	tok, err := d.token(ctx)
	if err != nil {
		return nil, err
	}
	items, err := apiclient.GetList[T](ctx, d.api, path, tok, fields...)
	if err != nil {
		if apperr.IsAuth(err) {
			d.AuthFailed(ctx)
		}
		return nil, err
	}
	return items, nil
}

// token reads the bearer token for an authenticated call. Without one the
// view is sent to login and nothing reaches the network.
func (d *Dispatcher) token(ctx context.Context) (string, error) {
	tok, err := d.session.Token(ctx)
	switch {
	case err == nil:
		return tok, nil
	case apperr.IsAuth(err):
		d.AuthFailed(ctx)
	case errors.Is(err, apperr.ErrAuthRequired):
		d.nav.Navigate(d.session.Role().Config().LoginRoute)
	}
	return "", err
}

// AuthFailed logs the session out and sends the view to the role's login
// route. Repeating it has the same terminal effect.
func (d *Dispatcher) AuthFailed(ctx context.Context) {
	logging.FromContext(ctx).Info("session_ended", "role", d.session.Role())
	d.session.Logout(ctx)
	d.nav.Navigate(d.session.Role().Config().LoginRoute)
}

// RefreshError means the mutation's request succeeded on the server but
// a refresh target then ended the session. The write is not undone.
type RefreshError struct {
	Resource string
	Err      error
}

func (e *RefreshError) Error() string { return "refresh " + e.Resource + ": " + e.Err.Error() }

func (e *RefreshError) Unwrap() error { return e.Err }

// Run executes m. The returned error is already reflected in view state
// (notice or navigation); callers use it only to decide what to do next.
func (d *Dispatcher) Run(ctx context.Context, m Mutation) error {
	l := logging.FromContext(ctx).With("mutation", m.Name)

	tok, err := d.token(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthRequired) {
			d.notifier.Notify(NoticeError, apperr.UserMessage(err, m.Fallback))
		}
		return err
	}

	req := m.Request
	req.Token = tok
	req.RequestID = uuid.NewString()
	if m.Idempotent && req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	start := time.Now()
	if err := d.api.Do(ctx, req, m.Out); err != nil {
		if apperr.IsAuth(err) {
			l.Info("mutation_unauthorized", "request_id", req.RequestID)
			d.AuthFailed(ctx)
			return err
		}
		l.Warn("mutation_failed", "request_id", req.RequestID, "error", err)
		d.notifier.Notify(NoticeError, apperr.UserMessage(err, m.Fallback))
		return err
	}

	for _, r := range m.Refresh {
		if err := r.Reload(ctx); err != nil {
			l.Warn("refresh_after_mutation_failed", "resource", r.Name(), "error", err)
			if apperr.IsAuth(err) || errors.Is(err, apperr.ErrAuthRequired) {
				return &RefreshError{Resource: r.Name(), Err: err}
			}
		}
	}

	l.Info("mutation_succeeded",
		"request_id", req.RequestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if m.Success != "" {
		d.notifier.Notify(NoticeSuccess, m.Success)
	}
	return nil
}

// Reject surfaces a client-side failure that never reached the network.
func (d *Dispatcher) Reject(err error, fallback string) error {
	d.notifier.Notify(NoticeError, apperr.UserMessage(err, fallback))
	return err
}
