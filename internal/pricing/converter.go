package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/pkg/config"
)

var percentBase = decimal.NewFromInt(100)

// Converter derives the USD display price from a product's supplier
// price. Supplier prices are quoted in CNY except for rows whose
// currency id matches the configured USD sentinel, which skip the
// exchange step and only take the markup.
type Converter struct {
	rate          decimal.Decimal
	markupFactor  decimal.Decimal
	usdCurrencyID int64
}

// NewConverter validates and fixes the pricing parameters at startup so
// request paths never re-parse configuration.
func NewConverter(cfg config.PricingConfig) (*Converter, error) {
	rate, err := decimal.NewFromString(cfg.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("parsing exchange rate %q: %w", cfg.ExchangeRate, err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("exchange rate must be positive, got %s", rate)
	}

	markup, err := decimal.NewFromString(cfg.MarkupPercent)
	if err != nil {
		return nil, fmt.Errorf("parsing markup percent %q: %w", cfg.MarkupPercent, err)
	}
	if markup.IsNegative() {
		return nil, fmt.Errorf("markup percent cannot be negative, got %s", markup)
	}

	return &Converter{
		rate:          rate,
		markupFactor:  decimal.NewFromInt(1).Add(markup.Div(percentBase)),
		usdCurrencyID: cfg.USDCurrencyID,
	}, nil
}

// ToUSD converts an origin price into the USD display price, rounded to
// two decimal places.
func (c *Converter) ToUSD(originPrice decimal.Decimal, currencyID int64) decimal.Decimal {
	if currencyID == c.usdCurrencyID {
		return originPrice.Mul(c.markupFactor).Round(2)
	}
	return originPrice.Mul(c.rate).Mul(c.markupFactor).Round(2)
}

// Rate exposes the configured exchange rate for reporting surfaces.
func (c *Converter) Rate() decimal.Decimal {
	return c.rate
}
