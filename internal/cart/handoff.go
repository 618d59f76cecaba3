package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

var ErrNoHandoff = errors.New("no cart handed off to checkout")

// Handoff is what the cart view leaves for the checkout view.
type Handoff struct {
	Lines   []Line
	Address *transport.ShippingAddress
}

// Handoff stores the current cart, and the chosen delivery address when
// given, for the checkout view.
func (c *Cart) Handoff(ctx context.Context, addr *transport.ShippingAddress) error {
	raw, err := json.Marshal(c.cache.View().Items)
	if err != nil {
		return err
	}
	if err := c.storage.Set(ctx, session.KeyCart, string(raw)); err != nil {
		return fmt.Errorf("store cart handoff: %w", err)
	}
	if addr == nil {
		return c.storage.Delete(ctx, session.KeyDeliveryAddress)
	}
	rawAddr, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return c.storage.Set(ctx, session.KeyDeliveryAddress, string(rawAddr))
}

func ReadHandoff(ctx context.Context, st storage.Storage) (Handoff, error) {
	raw, ok, err := st.Get(ctx, session.KeyCart)
	if err != nil {
		return Handoff{}, err
	}
	if !ok {
		return Handoff{}, ErrNoHandoff
	}
	var h Handoff
	if err := json.Unmarshal([]byte(raw), &h.Lines); err != nil {
		return Handoff{}, fmt.Errorf("decode cart handoff: %w", err)
	}
	if rawAddr, ok, err := st.Get(ctx, session.KeyDeliveryAddress); err == nil && ok {
		var a transport.ShippingAddress
		if err := json.Unmarshal([]byte(rawAddr), &a); err == nil {
			h.Address = &a
		}
	}
	return h, nil
}

func ClearHandoff(ctx context.Context, st storage.Storage) error {
	return st.Delete(ctx, session.KeyCart, session.KeyDeliveryAddress)
}
