package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConversionDirection selects which way an amount crosses a currency pair.
type ConversionDirection string

const (
	// BaseToQuote converts an amount of the base currency into the quote
	// currency by multiplying with the rate.
	BaseToQuote ConversionDirection = "BASE_TO_QUOTE"
	// QuoteToBase converts an amount of the quote currency into the base
	// currency by dividing by the rate.
	QuoteToBase ConversionDirection = "QUOTE_TO_BASE"
)

// ExchangeRate is one time-versioned pricing record for a currency pair.
// Rate is the mid price expressed as quote units per one base unit; BidRate
// and AskRate are derived from Rate and Spread when the record is created
// and stored alongside it so reads never recompute pricing.
type ExchangeRate struct {
	RateID     string          `json:"rateId"`
	BaseAsset  string          `json:"baseAsset"`
	QuoteAsset string          `json:"quoteAsset"`
	Rate       decimal.Decimal `json:"rate"`
	BidRate    decimal.Decimal `json:"bidRate"`
	AskRate    decimal.Decimal `json:"askRate"`
	Spread     decimal.Decimal `json:"spread"`
	Source     string          `json:"source"`
	IsActive   bool            `json:"isActive"`
	ValidFrom  time.Time       `json:"validFrom"`
	ValidTo    *time.Time      `json:"validTo,omitempty"`
	AuditFields
}

// NewExchangeRate builds an active rate record effective from now, with bid
// and ask derived from the mid rate and spread.
func NewExchangeRate(rateID, baseAsset, quoteAsset string, rate, spread decimal.Decimal, source, createdBy string, now time.Time) ExchangeRate {
	r := ExchangeRate{
		RateID:     rateID,
		BaseAsset:  baseAsset,
		QuoteAsset: quoteAsset,
		Source:     source,
		IsActive:   true,
		ValidFrom:  now,
	}
	r.Reprice(rate, spread)
	r.Touch(createdBy, now)
	return r
}

// Reprice sets the mid rate and spread and recomputes the derived bid and
// ask sides. Bid is the price the operator pays when buying the base asset,
// ask is the price when selling it; the spread always favors the operator.
func (r *ExchangeRate) Reprice(rate, spread decimal.Decimal) {
	one := decimal.NewFromInt(1)
	r.Rate = rate
	r.Spread = spread
	r.BidRate = rate.Mul(one.Sub(spread))
	r.AskRate = rate.Mul(one.Add(spread))
}

// IsCurrentAt reports whether this record is the kind of rate GetCurrentRate
// may return at time t: active, already effective, and not yet expired.
func (r ExchangeRate) IsCurrentAt(t time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ValidFrom.After(t) {
		return false
	}
	if r.ValidTo != nil && r.ValidTo.Before(t) {
		return false
	}
	return true
}

// ExecutionRate returns the side of the quote applied when executing the
// given swap type: bid when the user sells the base asset to the operator,
// ask when the user buys it back.
func (r ExchangeRate) ExecutionRate(swapType SwapType) (decimal.Decimal, error) {
	switch swapType {
	case SwapTypeXRPToIOU:
		return r.BidRate, nil
	case SwapTypeIOUToXRP:
		return r.AskRate, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("swap type %q has no execution rate", swapType)
	}
}

// Convert moves an amount across a currency pair at the given rate. The
// rate is quote units per base unit, so BaseToQuote multiplies and
// QuoteToBase divides. A zero rate cannot be divided through and is
// rejected rather than letting the conversion blow up.
func Convert(amount, rate decimal.Decimal, direction ConversionDirection) (decimal.Decimal, error) {
	switch direction {
	case BaseToQuote:
		return amount.Mul(rate), nil
	case QuoteToBase:
		if rate.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("cannot convert %s at zero rate", direction)
		}
		return amount.Div(rate), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown conversion direction %q", direction)
	}
}
