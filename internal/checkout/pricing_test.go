package checkout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	rules := DefaultPricing()
	tests := []struct {
		name     string
		subtotal float64
		want     Quote
	}{
		{name: "free delivery, uncapped discount", subtotal: 1000, want: Quote{Subtotal: 1000, Discount: 100, Delivery: 0, Total: 900}},
		{name: "discount capped", subtotal: 5000, want: Quote{Subtotal: 5000, Discount: 200, Delivery: 0, Total: 4800}},
		{name: "below threshold pays fee", subtotal: 300, want: Quote{Subtotal: 300, Discount: 30, Delivery: 49, Total: 319}},
		{name: "threshold is inclusive", subtotal: 500, want: Quote{Subtotal: 500, Discount: 50, Delivery: 0, Total: 450}},
		{name: "empty", subtotal: 0, want: Quote{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Quote(tt.subtotal))
		})
	}
}

func TestLoadPricing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discount_percent: 5\ndelivery_fee: 30\n"), 0o600))

	rules, err := LoadPricing(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rules.DiscountPercent)
	assert.Equal(t, 30.0, rules.DeliveryFee)
	assert.Equal(t, 200.0, rules.DiscountCap, "unset keys keep defaults")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("discount_percent: 150\n"), 0o600))
	_, err = LoadPricing(bad)
	require.Error(t, err)

	_, err = LoadPricing(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
