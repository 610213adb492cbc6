package dto

import (
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SwapRequest defines the structure for requesting a swap or a quote. The
// amount is denominated in the input currency of the swap type. Transfers
// additionally name the receiving ledger address.
type SwapRequest struct {
	SwapType           string          `json:"swapType" binding:"required,oneof=XRP_TO_IOU IOU_TO_XRP TRANSFER"`
	Amount             decimal.Decimal `json:"amount" binding:"required,dgt0"`
	DestinationAddress string          `json:"destinationAddress,omitempty" binding:"required_if=SwapType TRANSFER"`
}

// SwapQuoteResponse defines the structure for API responses containing a
// priced swap.
type SwapQuoteResponse struct {
	SwapType     string           `json:"swapType"`
	GrossAmount  decimal.Decimal  `json:"grossAmount"`
	Fee          decimal.Decimal  `json:"fee"`
	NetAmount    decimal.Decimal  `json:"netAmount"`
	FeeType      string           `json:"feeType"`
	FeeRate      *decimal.Decimal `json:"feeRate,omitempty"`
	FeeDefaulted bool             `json:"feeDefaulted"`
	PayAmount    decimal.Decimal  `json:"payAmount"`
	PayCurrency  string           `json:"payCurrency"`
	Rate         *RateResponse    `json:"rate,omitempty"`
	QuotedAt     time.Time        `json:"quotedAt"`
}

// ToSwapQuoteResponse converts a domain.SwapQuote to its DTO.
func ToSwapQuoteResponse(q *domain.SwapQuote) SwapQuoteResponse {
	resp := SwapQuoteResponse{
		SwapType:     string(q.SwapType),
		GrossAmount:  q.GrossAmount,
		Fee:          q.Fee,
		NetAmount:    q.NetAmount,
		FeeType:      string(q.FeeType),
		FeeRate:      q.FeeRate,
		FeeDefaulted: q.FeeDefaulted,
		PayAmount:    q.PayAmount,
		PayCurrency:  q.PayCurrency,
		QuotedAt:     q.QuotedAt,
	}
	if q.RateUsed != nil {
		rate := ToRateResponse(q.RateUsed)
		resp.Rate = &rate
	}
	return resp
}

// SwapLegResponse is one ledger payment attempted during settlement.
type SwapLegResponse struct {
	Leg       int    `json:"leg"`
	Purpose   string `json:"purpose"`
	TxHash    string `json:"txHash,omitempty"`
	Succeeded bool   `json:"succeeded"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// SwapResultResponse defines the structure for API responses containing a
// settled, failed or partially settled swap.
type SwapResultResponse struct {
	SwapID     string             `json:"swapID"`
	SwapType   string             `json:"swapType"`
	Status     string             `json:"status"`
	Stage      string             `json:"stage"`
	ErrorCode  string             `json:"errorCode,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Quote      *SwapQuoteResponse `json:"quote,omitempty"`
	Legs       []SwapLegResponse  `json:"legs,omitempty"`
	ExecutedAt time.Time          `json:"executedAt"`
}

// ToSwapResultResponse converts a domain.SwapResult to its DTO.
func ToSwapResultResponse(r *domain.SwapResult) SwapResultResponse {
	resp := SwapResultResponse{
		SwapID:     r.SwapID,
		SwapType:   string(r.SwapType),
		Status:     string(r.Status),
		Stage:      string(r.Stage),
		ErrorCode:  r.ErrorCode,
		Reason:     r.Reason,
		ExecutedAt: r.ExecutedAt,
	}
	if r.Quote != nil {
		quote := ToSwapQuoteResponse(r.Quote)
		resp.Quote = &quote
	}
	for _, leg := range r.Legs {
		resp.Legs = append(resp.Legs, SwapLegResponse{
			Leg:       leg.Leg,
			Purpose:   leg.Purpose,
			TxHash:    leg.TxHash,
			Succeeded: leg.Succeeded,
			ErrorCode: leg.ErrorCode,
		})
	}
	return resp
}

// BalanceResponse is one trust line balance in API responses.
type BalanceResponse struct {
	Currency string          `json:"currency"`
	Issuer   string          `json:"issuer,omitempty"`
	Balance  decimal.Decimal `json:"balance"`
}

// IssuanceResponse defines the structure for API responses summarizing the
// outstanding issued supply.
type IssuanceResponse struct {
	Currency    string            `json:"currency"`
	Issuer      string            `json:"issuer"`
	TotalIssued decimal.Decimal   `json:"totalIssued"`
	HolderCount int               `json:"holderCount"`
	Lines       []BalanceResponse `json:"lines,omitempty"`
	AsOf        time.Time         `json:"asOf"`
}

// ToIssuanceResponse converts a domain.IssuanceReport to its DTO.
func ToIssuanceResponse(r *domain.IssuanceReport) IssuanceResponse {
	resp := IssuanceResponse{
		Currency:    r.Currency,
		Issuer:      r.Issuer,
		TotalIssued: r.TotalIssued,
		HolderCount: r.HolderCount,
		AsOf:        r.AsOf,
	}
	for _, line := range r.Lines {
		resp.Lines = append(resp.Lines, BalanceResponse{
			Currency: line.Currency,
			Issuer:   line.Issuer,
			Balance:  line.Value,
		})
	}
	return resp
}
