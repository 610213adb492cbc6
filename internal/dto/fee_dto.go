package dto

import (
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeTierPayload is one bracket of a tiered fee schedule as accepted on the
// wire.
type FeeTierPayload struct {
	MinAmount decimal.Decimal  `json:"minAmount"`
	MaxAmount *decimal.Decimal `json:"maxAmount,omitempty"`
	FeeRate   decimal.Decimal  `json:"feeRate" binding:"required"`
}

// CreateFeeConfigRequest defines the structure for installing a new fee
// config. The new config replaces the currently active one for the swap type.
type CreateFeeConfigRequest struct {
	SwapType    string           `json:"swapType" binding:"required"`
	FeeType     string           `json:"feeType" binding:"required,oneof=PERCENTAGE FIXED TIERED"`
	BaseFee     decimal.Decimal  `json:"baseFee"`
	MinFee      decimal.Decimal  `json:"minFee"`
	MaxFee      *decimal.Decimal `json:"maxFee,omitempty"`
	TieredRates []FeeTierPayload `json:"tieredRates,omitempty"`
	Description string           `json:"description,omitempty"`
	ValidTo     *time.Time       `json:"validTo,omitempty"`
}

// ToFeeTiers converts the wire tiers into domain tiers.
func (r CreateFeeConfigRequest) ToFeeTiers() []domain.FeeTier {
	if len(r.TieredRates) == 0 {
		return nil
	}
	tiers := make([]domain.FeeTier, len(r.TieredRates))
	for i, t := range r.TieredRates {
		tiers[i] = domain.FeeTier{
			MinAmount: t.MinAmount,
			MaxAmount: t.MaxAmount,
			FeeRate:   t.FeeRate,
		}
	}
	return tiers
}

// SimulateFeeRequest prices sample amounts under a prospective config
// without writing anything.
type SimulateFeeRequest struct {
	Config  CreateFeeConfigRequest `json:"config" binding:"required"`
	Amounts []decimal.Decimal      `json:"amounts" binding:"required,min=1,dive,dgt0"`
}

// FeePreviewRequest asks what the active policy would charge for an amount.
type FeePreviewRequest struct {
	SwapType string          `json:"swapType" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required,dgt0"`
}

// ListFeeConfigsParams defines query parameters for listing fee configs.
type ListFeeConfigsParams struct {
	SwapType string `form:"swapType"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// FeeConfigResponse defines the structure for API responses containing fee
// config details.
type FeeConfigResponse struct {
	FeeConfigID string           `json:"feeConfigID"`
	SwapType    string           `json:"swapType"`
	FeeType     string           `json:"feeType"`
	BaseFee     decimal.Decimal  `json:"baseFee"`
	MinFee      decimal.Decimal  `json:"minFee"`
	MaxFee      *decimal.Decimal `json:"maxFee,omitempty"`
	TieredRates []FeeTierPayload `json:"tieredRates,omitempty"`
	Description string           `json:"description,omitempty"`
	IsActive    bool             `json:"isActive"`
	ValidFrom   time.Time        `json:"validFrom"`
	ValidTo     *time.Time       `json:"validTo,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	CreatedBy   string           `json:"createdBy"`
}

// ToFeeConfigResponse converts a domain.FeeConfig to FeeConfigResponse DTO
func ToFeeConfigResponse(cfg *domain.FeeConfig) FeeConfigResponse {
	resp := FeeConfigResponse{
		FeeConfigID: cfg.FeeConfigID,
		SwapType:    string(cfg.SwapType),
		FeeType:     string(cfg.FeeType),
		BaseFee:     cfg.BaseFee,
		MinFee:      cfg.MinFee,
		MaxFee:      cfg.MaxFee,
		Description: cfg.Description,
		IsActive:    cfg.IsActive,
		ValidFrom:   cfg.ValidFrom,
		ValidTo:     cfg.ValidTo,
		CreatedAt:   cfg.CreatedAt,
		CreatedBy:   cfg.CreatedBy,
	}
	for _, t := range cfg.TieredRates {
		resp.TieredRates = append(resp.TieredRates, FeeTierPayload{
			MinAmount: t.MinAmount,
			MaxAmount: t.MaxAmount,
			FeeRate:   t.FeeRate,
		})
	}
	return resp
}

// ToListFeeConfigResponse converts a slice of domain.FeeConfig to DTOs.
func ToListFeeConfigResponse(configs []domain.FeeConfig) []FeeConfigResponse {
	responses := make([]FeeConfigResponse, len(configs))
	for i := range configs {
		responses[i] = ToFeeConfigResponse(&configs[i])
	}
	return responses
}

// FeeBreakdownResponse defines the structure for API responses containing a
// priced fee.
type FeeBreakdownResponse struct {
	GrossAmount decimal.Decimal  `json:"grossAmount"`
	Fee         decimal.Decimal  `json:"fee"`
	NetAmount   decimal.Decimal  `json:"netAmount"`
	FeeType     string           `json:"feeType"`
	FeeRate     *decimal.Decimal `json:"feeRate,omitempty"`
	Defaulted   bool             `json:"defaulted"`
}

// ToFeeBreakdownResponse converts a domain.FeeBreakdown to its DTO.
func ToFeeBreakdownResponse(b *domain.FeeBreakdown) FeeBreakdownResponse {
	return FeeBreakdownResponse{
		GrossAmount: b.GrossAmount,
		Fee:         b.Fee,
		NetAmount:   b.NetAmount,
		FeeType:     string(b.FeeType),
		FeeRate:     b.FeeRate,
		Defaulted:   b.Defaulted,
	}
}

// ToListFeeBreakdownResponse converts a slice of breakdowns to DTOs.
func ToListFeeBreakdownResponse(breakdowns []domain.FeeBreakdown) []FeeBreakdownResponse {
	responses := make([]FeeBreakdownResponse, len(breakdowns))
	for i := range breakdowns {
		responses[i] = ToFeeBreakdownResponse(&breakdowns[i])
	}
	return responses
}
