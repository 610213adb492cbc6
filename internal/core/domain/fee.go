package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SwapType identifies the direction of a swap operation.
type SwapType string

const (
	// SwapTypeXRPToIOU sells XRP to the operator in exchange for freshly
	// issued IOU tokens.
	SwapTypeXRPToIOU SwapType = "XRP_TO_IOU"
	// SwapTypeIOUToXRP redeems IOU tokens back to the issuer in exchange
	// for XRP.
	SwapTypeIOUToXRP SwapType = "IOU_TO_XRP"
	// SwapTypeTransfer moves IOU tokens between two user accounts.
	SwapTypeTransfer SwapType = "TRANSFER"
)

// ParseSwapType validates and normalizes a swap type string.
func ParseSwapType(s string) (SwapType, error) {
	switch SwapType(s) {
	case SwapTypeXRPToIOU, SwapTypeIOUToXRP, SwapTypeTransfer:
		return SwapType(s), nil
	default:
		return "", fmt.Errorf("unknown swap type %q", s)
	}
}

// FeeType selects how a fee config computes its fee.
type FeeType string

const (
	// FeePercentage charges amount * baseFee.
	FeePercentage FeeType = "PERCENTAGE"
	// FeeFixed charges baseFee regardless of amount.
	FeeFixed FeeType = "FIXED"
	// FeeTiered charges amount * rate of the single tier the amount falls in.
	FeeTiered FeeType = "TIERED"
)

// FeeTier is one bracket of a tiered fee schedule. A nil MaxAmount means the
// bracket is unbounded above. Brackets are not marginal: the whole amount is
// charged at the rate of the one bracket it lands in.
type FeeTier struct {
	MinAmount decimal.Decimal  `json:"minAmount"`
	MaxAmount *decimal.Decimal `json:"maxAmount,omitempty"`
	FeeRate   decimal.Decimal  `json:"feeRate"`
}

// Contains reports whether amount falls inside this tier, bounds inclusive.
func (t FeeTier) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(t.MinAmount) {
		return false
	}
	if t.MaxAmount != nil && amount.GreaterThan(*t.MaxAmount) {
		return false
	}
	return true
}

// FeeConfig is one time-versioned fee policy for a swap type. MinFee and
// MaxFee clamp the computed fee, min first then max, so a max below the min
// wins. Only one config per swap type should be active at a time; activation
// retires the previous one in the same transaction.
type FeeConfig struct {
	FeeConfigID string           `json:"feeConfigId"`
	SwapType    SwapType         `json:"swapType"`
	FeeType     FeeType          `json:"feeType"`
	BaseFee     decimal.Decimal  `json:"baseFee"`
	MinFee      decimal.Decimal  `json:"minFee"`
	MaxFee      *decimal.Decimal `json:"maxFee,omitempty"`
	TieredRates []FeeTier        `json:"tieredRates,omitempty"`
	Description string           `json:"description,omitempty"`
	IsActive    bool             `json:"isActive"`
	ValidFrom   time.Time        `json:"validFrom"`
	ValidTo     *time.Time       `json:"validTo,omitempty"`
	AuditFields
}

// IsCurrentAt reports whether the config is active and inside its validity
// window at time t.
func (c FeeConfig) IsCurrentAt(t time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom.After(t) {
		return false
	}
	if c.ValidTo != nil && c.ValidTo.Before(t) {
		return false
	}
	return true
}

// Validate checks the structural invariants of the config before it is
// persisted. Tiered configs must carry at least one tier; the other types
// must not carry any.
func (c FeeConfig) Validate() error {
	switch c.FeeType {
	case FeePercentage, FeeFixed:
		if len(c.TieredRates) > 0 {
			return fmt.Errorf("fee type %s must not define tiers", c.FeeType)
		}
	case FeeTiered:
		if len(c.TieredRates) == 0 {
			return fmt.Errorf("fee type %s requires at least one tier", c.FeeType)
		}
		for i, tier := range c.TieredRates {
			if tier.MaxAmount != nil && tier.MaxAmount.LessThan(tier.MinAmount) {
				return fmt.Errorf("tier %d has maxAmount below minAmount", i)
			}
			if tier.FeeRate.IsNegative() {
				return fmt.Errorf("tier %d has negative feeRate", i)
			}
		}
	default:
		return fmt.Errorf("unknown fee type %q", c.FeeType)
	}
	if c.BaseFee.IsNegative() || c.MinFee.IsNegative() {
		return fmt.Errorf("fees cannot be negative")
	}
	if c.MaxFee != nil && c.MaxFee.IsNegative() {
		return fmt.Errorf("maxFee cannot be negative")
	}
	return nil
}

// FeeBreakdown is the result of applying a fee policy to an amount. FeeRate
// is set only when a rate was actually applied (percentage and the matched
// tier); fixed fees leave it nil.
type FeeBreakdown struct {
	GrossAmount decimal.Decimal  `json:"grossAmount"`
	Fee         decimal.Decimal  `json:"fee"`
	NetAmount   decimal.Decimal  `json:"netAmount"`
	FeeType     FeeType          `json:"feeType"`
	FeeRate     *decimal.Decimal `json:"feeRate,omitempty"`
	Defaulted   bool             `json:"defaulted"`
}

// CalculateFee applies the policy to an amount and returns the breakdown.
// The computation is pure: nothing about the config or any store is touched.
// A tiered amount that lands in no bracket is charged zero before clamping.
func (c FeeConfig) CalculateFee(amount decimal.Decimal) FeeBreakdown {
	var fee decimal.Decimal
	var appliedRate *decimal.Decimal

	switch c.FeeType {
	case FeePercentage:
		fee = amount.Mul(c.BaseFee)
		rate := c.BaseFee
		appliedRate = &rate
	case FeeFixed:
		fee = c.BaseFee
	case FeeTiered:
		for _, tier := range c.TieredRates {
			if tier.Contains(amount) {
				fee = amount.Mul(tier.FeeRate)
				rate := tier.FeeRate
				appliedRate = &rate
				break
			}
		}
	}

	// Clamp order matters: min first, then max, so a max below the min wins.
	if fee.LessThan(c.MinFee) {
		fee = c.MinFee
	}
	if c.MaxFee != nil && fee.GreaterThan(*c.MaxFee) {
		fee = *c.MaxFee
	}

	return FeeBreakdown{
		GrossAmount: amount,
		Fee:         fee,
		NetAmount:   amount.Sub(fee),
		FeeType:     c.FeeType,
		FeeRate:     appliedRate,
	}
}
