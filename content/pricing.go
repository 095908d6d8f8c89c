package content

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"verisight/config"
)

// ErrUnknownBilling is returned for billing periods other than monthly or annual
var ErrUnknownBilling = errors.New("billing must be monthly or annual")

// Billing is the period the pricing page is showing
type Billing string

const (
	Monthly Billing = "monthly"
	Annual  Billing = "annual"
)

const (
	freePrice   = "$0"
	customPrice = "Custom"
	annualLabel = "month, billed annually"
)

// ParseBilling accepts "monthly" or "annual"; empty means monthly
func ParseBilling(s string) (Billing, error) {
	switch Billing(strings.ToLower(strings.TrimSpace(s))) {
	case "", Monthly:
		return Monthly, nil
	case Annual:
		return Annual, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBilling, s)
}

// Plan is one pricing card
type Plan struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Price       string   `yaml:"price" json:"price"`
	Period      string   `yaml:"period" json:"period"`
	CTA         string   `yaml:"cta" json:"cta"`
	Link        string   `yaml:"link" json:"link"`
	Popular     bool     `yaml:"popular" json:"popular"`
	Features    []string `yaml:"features" json:"features"`
}

// Price is what a plan card shows for a billing period
type Price struct {
	Amount string `json:"amount"`
	// Period is empty when no "/period" suffix is shown
	Period string `json:"period,omitempty"`
}

// PriceFor returns the displayed price. Annual billing takes 20% off
// numeric prices, rounded down; free and custom plans are unchanged.
func (p Plan) PriceFor(b Billing) Price {
	if p.Price == customPrice {
		return Price{Amount: p.Price}
	}
	if b != Annual {
		return Price{Amount: p.Price, Period: p.Period}
	}
	if p.Price == freePrice {
		return Price{Amount: p.Price, Period: annualLabel}
	}

	n, err := strconv.Atoi(strings.TrimPrefix(p.Price, "$"))
	if err != nil {
		return Price{Amount: p.Price, Period: annualLabel}
	}
	discounted := int(math.Floor(float64(n) * config.AnnualDiscount))
	return Price{Amount: "$" + strconv.Itoa(discounted), Period: annualLabel}
}

// PlanPrice pairs a plan with its price for one billing period
type PlanPrice struct {
	Plan
	Display Price `json:"display"`
}

// Prices lists every plan priced for b
func (pr Pricing) Prices(b Billing) []PlanPrice {
	out := make([]PlanPrice, len(pr.Plans))
	for i, p := range pr.Plans {
		out[i] = PlanPrice{Plan: p, Display: p.PriceFor(b)}
	}
	return out
}
