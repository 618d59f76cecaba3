// Package addresses is the customer's address book.
package addresses

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const (
	MsgEmpty      = "No saved addresses."
	MsgLoadFailed = "Failed to load addresses"
	MsgAddFailed  = "Failed to save address"
	MsgAdded      = "Address saved"

	DefaultCountry = "India"
)

var (
	phoneRe  = regexp.MustCompile(`^\d{10}$`)
	postalRe = regexp.MustCompile(`^\d{6}$`)
)

type Record struct {
	ID         uint
	FullName   string
	Phone      string
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

type Form struct {
	FullName   string
	Phone      string
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Validate returns per-field messages; an empty map means the form is
// ready to submit.
func (f Form) Validate() map[string]string {
	errs := map[string]string{}
	if len(strings.TrimSpace(f.FullName)) < 2 {
		errs["full_name"] = "Full name must be at least 2 characters"
	}
	if !phoneRe.MatchString(f.Phone) {
		errs["phone"] = "Phone number must be 10 digits"
	}
	if strings.TrimSpace(f.Line1) == "" {
		errs["street"] = "Street address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(f.State) == "" {
		errs["state"] = "State is required"
	}
	if !postalRe.MatchString(f.PostalCode) {
		errs["postal_code"] = "Postal code must be 6 digits"
	}
	return errs
}

type Book struct {
	d     *dispatch.Dispatcher
	cache *resource.Cache[Record]
}

func New(d *dispatch.Dispatcher) *Book {
	b := &Book{d: d}
	b.cache = resource.New(resource.Config[Record]{
		Name: "addresses",
		Load: func(ctx context.Context) ([]Record, error) {
			items, err := dispatch.FetchList[transport.Address](ctx, d, "/addresses/", "addresses")
			if err != nil {
				return nil, err
			}
			out := make([]Record, 0, len(items))
			for _, a := range items {
				out = append(out, Record{
					ID:         a.ID,
					FullName:   a.FullName,
					Phone:      a.Phone,
					Line1:      a.Street,
					City:       a.City,
					State:      a.State,
					PostalCode: a.PostalCode,
					Country:    a.Country,
					IsDefault:  a.IsDefault,
				})
			}
			return out, nil
		},
		EmptyMessage: MsgEmpty,
		FailMessage:  MsgLoadFailed,
	})
	return b
}

func (b *Book) Cache() *resource.Cache[Record] { return b.cache }

func (b *Book) Refresh(ctx context.Context) (resource.Snapshot[Record], error) {
	return b.cache.Refresh(ctx)
}

func (b *Book) View() resource.View[Record] { return b.cache.View() }

func (b *Book) Close() { b.cache.Close() }

// Default returns the default address, or the first one.
func (b *Book) Default() (Record, bool) {
	items := b.cache.View().Items
	for _, a := range items {
		if a.IsDefault {
			return a, true
		}
	}
	if len(items) > 0 {
		return items[0], true
	}
	return Record{}, false
}

func (b *Book) Add(ctx context.Context, f Form) error {
	if errs := f.Validate(); len(errs) > 0 {
		return b.d.Reject(apperr.Validation(errs), MsgAddFailed)
	}
	country := strings.TrimSpace(f.Country)
	if country == "" {
		country = DefaultCountry
	}
	return b.d.Run(ctx, dispatch.Mutation{
		Name: "add-address",
		Request: apiclient.Request{
			Method: http.MethodPost,
			Path:   "/addresses/add/",
			Body: transport.Address{
				FullName:   strings.TrimSpace(f.FullName),
				Phone:      f.Phone,
				Street:     strings.TrimSpace(f.Line1),
				City:       strings.TrimSpace(f.City),
				State:      strings.TrimSpace(f.State),
				PostalCode: f.PostalCode,
				Country:    country,
			},
		},
		Refresh:  []dispatch.Reloader{b.cache},
		Success:  MsgAdded,
		Fallback: MsgAddFailed,
	})
}
