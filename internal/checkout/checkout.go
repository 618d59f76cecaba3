// Package checkout is the three-step order placement flow.
package checkout

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/cart"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

const (
	MsgPlaceFailed = "Failed to place order"
	MsgPlaced      = "Order placed successfully!"
	MsgEmptyCart   = "Your cart is empty."

	DefaultRedirectDelay = 3 * time.Second
)

var (
	// ErrSubmitting is returned by Submit while a submission is running.
	ErrSubmitting = errors.New("order submission already in progress")
	ErrNotReady   = errors.New("checkout is not on the payment step")
)

type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type Scheduler interface {
	NavigateAfter(route string, d time.Duration)
}

type Deps struct {
	Dispatcher *dispatch.Dispatcher
	Storage    storage.Storage
	// Cart is cleared after a successful placement when set.
	Cart *cart.Cart
	// Orders is refreshed after a successful placement when set.
	Orders        dispatch.Reloader
	Scheduler     Scheduler
	// Pricing defaults to DefaultPricing when nil.
	Pricing       *PricingRules
	RedirectDelay time.Duration
}

type Snapshot struct {
	State  State
	Step   int
	Form   Form
	Errors map[string]string
	Lines  []cart.Line
	Quote  Quote
	Order  *transport.Order
}

type Flow struct {
	deps       Deps
	submitting atomic.Bool

	mu      sync.Mutex
	state   State
	step    int
	form    Form
	errs    map[string]string
	lines   []cart.Line
	order   *transport.Order
	idemKey string
}

func New(deps Deps) *Flow {
	if deps.RedirectDelay <= 0 {
		deps.RedirectDelay = DefaultRedirectDelay
	}
	if deps.Pricing == nil {
		rules := DefaultPricing()
		deps.Pricing = &rules
	}
	return &Flow{deps: deps, state: Idle}
}

// Start loads the cart handed off by the cart view and opens step 1.
// A handed-off delivery address pre-fills the contact and shipping steps.
func (f *Flow) Start(ctx context.Context) error {
	h, err := cart.ReadHandoff(ctx, f.deps.Storage)
	if err != nil && !errors.Is(err, cart.ErrNoHandoff) {
		return f.deps.Dispatcher.Reject(apperr.Unavailable(err), MsgPlaceFailed)
	}
	lines := h.Lines
	if len(lines) == 0 && f.deps.Cart != nil {
		lines = f.deps.Cart.View().Items
	}
	if len(lines) == 0 {
		return f.deps.Dispatcher.Reject(apperr.Validation(map[string]string{"cart": MsgEmptyCart}), MsgPlaceFailed)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = lines
	f.state = Validating
	f.step = 1
	f.errs = nil
	f.order = nil
	f.idemKey = uuid.NewString()
	f.form = Form{PaymentMethod: PaymentCOD}
	if a := h.Address; a != nil {
		f.form.FullName = a.FullName
		f.form.Phone = a.Phone
		f.form.Email = a.Email
		f.form.Address = a.Address
		f.form.City = a.City
		f.form.State = a.State
		f.form.Pincode = a.Pincode
	}
	return nil
}

// Edit changes entered data without validating it.
func (f *Flow) Edit(fn func(*Form)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.form)
}

// Next validates the current step and advances on success. Failures are
// returned as a validation error carrying per-field messages.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Validating && f.state != Failed {
		return ErrNotReady
	}
	errs := f.form.validateStep(f.step)
	f.errs = errs
	if len(errs) > 0 {
		return apperr.Validation(errs)
	}
	if f.step < 3 {
		f.step++
	}
	return nil
}

// Back returns to the previous step; entered data is kept.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Failed {
		f.state = Validating
	}
	if f.state == Validating && f.step > 1 {
		f.step--
		f.errs = nil
	}
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		errs[k] = v
	}
	return Snapshot{
		State:  f.state,
		Step:   f.step,
		Form:   f.form,
		Errors: errs,
		Lines:  append([]cart.Line(nil), f.lines...),
		Quote:  f.quoteLocked(),
		Order:  f.order,
	}
}

func (f *Flow) quoteLocked() Quote {
	var subtotal float64
	for _, l := range f.lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	return f.deps.Pricing.Quote(subtotal)
}

// Submit places the order. Only one submission runs at a time; a call
// made while one is running returns ErrSubmitting and sends nothing.
func (f *Flow) Submit(ctx context.Context) error {
	if !f.submitting.CompareAndSwap(false, true) {
		return ErrSubmitting
	}
	defer f.submitting.Store(false)

	f.mu.Lock()
	if (f.state != Validating && f.state != Failed) || f.step != 3 {
		f.mu.Unlock()
		return ErrNotReady
	}
	for step := 1; step <= 3; step++ {
		if errs := f.form.validateStep(step); len(errs) > 0 {
			f.step = step
			f.errs = errs
			f.state = Validating
			f.mu.Unlock()
			return apperr.Validation(errs)
		}
	}
	f.state = Submitting
	form := f.form
	key := f.idemKey
	f.mu.Unlock()

	l := logging.FromContext(ctx).With("flow", "checkout")

	var placed transport.Order
	var refresh []dispatch.Reloader
	if f.deps.Orders != nil {
		refresh = append(refresh, f.deps.Orders)
	}
	err := f.deps.Dispatcher.Run(ctx, dispatch.Mutation{
		Name: "place-order",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   "/order/place/",
			Body: transport.PlaceOrderRequest{
				ShippingAddress: transport.ShippingAddress{
					FullName: strings.TrimSpace(form.FullName),
					Phone:    form.Phone,
					Email:    form.Email,
					Address:  strings.TrimSpace(form.Address),
					City:     strings.TrimSpace(form.City),
					State:    strings.TrimSpace(form.State),
					Pincode:  form.Pincode,
				},
				PaymentMethod: form.PaymentMethod,
			},
			IdempotencyKey: key,
		},
		Out:        &placed,
		Refresh:    refresh,
		Success:    MsgPlaced,
		Fallback:   MsgPlaceFailed,
		Idempotent: true,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	// the order exists once the POST succeeded, whatever the refresh did
	var rerr *dispatch.RefreshError
	committed := errors.As(err, &rerr)
	if committed {
		l.Warn("orders_refresh_failed", "error", err)
	}
	if err != nil && !committed {
		l.Warn("place_order_failed", "error", err)
		f.state = Failed
		f.step = 3
		if apperr.IsAuth(err) {
			f.form = Form{PaymentMethod: PaymentCOD}
		}
		return err
	}

	if f.deps.Cart != nil {
		f.deps.Cart.Clear()
	}
	if cerr := cart.ClearHandoff(ctx, f.deps.Storage); cerr != nil {
		l.Warn("clear_handoff_failed", "error", cerr)
	}
	f.state = Succeeded
	f.order = &placed
	f.lines = nil
	f.idemKey = ""
	if f.deps.Scheduler != nil && !committed {
		f.deps.Scheduler.NavigateAfter("/", f.deps.RedirectDelay)
	}
	l.Info("order_placed", "order_id", placed.ID)
	return nil
}
