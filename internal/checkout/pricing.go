package checkout

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// PricingRules turns a cart subtotal into the amount charged.
type PricingRules struct {
	DiscountPercent       float64 `yaml:"discount_percent"`
	DiscountCap           float64 `yaml:"discount_cap"`
	FreeDeliveryThreshold float64 `yaml:"free_delivery_threshold"`
	DeliveryFee           float64 `yaml:"delivery_fee"`
}

func DefaultPricing() PricingRules {
	return PricingRules{
		DiscountPercent:       10,
		DiscountCap:           200,
		FreeDeliveryThreshold: 500,
		DeliveryFee:           49,
	}
}

// LoadPricing reads rules from a YAML file. Keys missing from the file
// keep their defaults.
func LoadPricing(path string) (PricingRules, error) {
	rules := DefaultPricing()
	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read pricing rules: %w", err)
	}
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return rules, fmt.Errorf("parse pricing rules: %w", err)
	}
	if rules.DiscountPercent < 0 || rules.DiscountPercent > 100 {
		return rules, fmt.Errorf("discount_percent %v out of range", rules.DiscountPercent)
	}
	if rules.DiscountCap < 0 || rules.DeliveryFee < 0 || rules.FreeDeliveryThreshold < 0 {
		return rules, fmt.Errorf("pricing amounts must not be negative")
	}
	return rules, nil
}

type Quote struct {
	Subtotal float64
	Discount float64
	Delivery float64
	Total    float64
}

func (r PricingRules) Quote(subtotal float64) Quote {
	if subtotal <= 0 {
		return Quote{}
	}
	discount := math.Min(r.DiscountCap, subtotal*r.DiscountPercent/100)
	delivery := r.DeliveryFee
	if subtotal >= r.FreeDeliveryThreshold {
		delivery = 0
	}
	return Quote{
		Subtotal: round2(subtotal),
		Discount: round2(discount),
		Delivery: round2(delivery),
		Total:    round2(subtotal - discount + delivery),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
