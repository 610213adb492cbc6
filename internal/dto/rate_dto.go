package dto

import (
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertRateRequest defines the structure for installing a new exchange rate.
// The new record replaces the currently active one for the pair.
type UpsertRateRequest struct {
	BaseAsset  string          `json:"baseAsset" binding:"required,uppercase"`
	QuoteAsset string          `json:"quoteAsset" binding:"required,uppercase"`
	Rate       decimal.Decimal `json:"rate" binding:"required,dgt0"`
	Spread     decimal.Decimal `json:"spread"`
	Source     string          `json:"source"`
	ValidTo    *time.Time      `json:"validTo,omitempty"`
}

// RateHistoryParams defines query parameters for listing rate history.
type RateHistoryParams struct {
	BaseAsset  string `form:"base" binding:"required"`
	QuoteAsset string `form:"quote" binding:"required"`
	Limit      int    `form:"limit,default=20"`
	Offset     int    `form:"offset,default=0"`
}

// RateResponse defines the structure for API responses containing rate details.
type RateResponse struct {
	RateID     string          `json:"rateID"`
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
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// ToRateResponse converts a domain.ExchangeRate to RateResponse DTO
func ToRateResponse(rate *domain.ExchangeRate) RateResponse {
	return RateResponse{
		RateID:     rate.RateID,
		BaseAsset:  rate.BaseAsset,
		QuoteAsset: rate.QuoteAsset,
		Rate:       rate.Rate,
		BidRate:    rate.BidRate,
		AskRate:    rate.AskRate,
		Spread:     rate.Spread,
		Source:     rate.Source,
		IsActive:   rate.IsActive,
		ValidFrom:  rate.ValidFrom,
		ValidTo:    rate.ValidTo,
		CreatedAt:  rate.CreatedAt,
		CreatedBy:  rate.CreatedBy,
	}
}

// ToListRateResponse converts a slice of domain.ExchangeRate to RateResponse DTOs.
func ToListRateResponse(rates []domain.ExchangeRate) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = ToRateResponse(&rates[i])
	}
	return responses
}
