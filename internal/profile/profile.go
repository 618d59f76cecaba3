// Package profile reads the signed-in user's own account record.
package profile

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

const MsgLoadFailed = "Failed to load profile information."

type Reader struct {
	d    *dispatch.Dispatcher
	path string
}

// New reads from the seller endpoint for sellers, which adds the store
// name, and from the customer endpoint otherwise.
func New(d *dispatch.Dispatcher, role session.Role) *Reader {
	path := "/profile/"
	if role == session.Seller {
		path = "/seller/profile/"
	}
	return &Reader{d: d, path: path}
}

func (r *Reader) Load(ctx context.Context) (transport.Profile, error) {
	var p transport.Profile
	err := r.d.Fetch(ctx, apiclient.Request{Method: http.MethodGet, Path: r.path}, &p)
	return p, err
}
