// Package ledger defines the outbound port to the XRP Ledger. The core
// services speak this interface only; the JSON-RPC adapter lives under
// internal/adapters/ledger/xrpl.
package ledger

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Amount is a ledger amount: native XRP when Issuer is empty, an issued
// token otherwise.
type Amount struct {
	Currency string          `json:"currency"`
	Issuer   string          `json:"issuer,omitempty"`
	Value    decimal.Decimal `json:"value"`
}

// XRP builds a native amount.
func XRP(value decimal.Decimal) Amount {
	return Amount{Currency: "XRP", Value: value}
}

// IssuedToken builds an issued token amount.
func IssuedToken(currency, issuer string, value decimal.Decimal) Amount {
	return Amount{Currency: currency, Issuer: issuer, Value: value}
}

// IsNative reports whether the amount is XRP rather than an issued token.
func (a Amount) IsNative() bool {
	return a.Issuer == ""
}

// Payment is one signed transfer from the sender's wallet.
type Payment struct {
	Sender      domain.Wallet
	Destination string
	Amount      Amount
}

// SubmitResult is the provisional outcome of a submitted transaction.
// Accepted means the ledger's engine took the transaction; final validation
// happens asynchronously on-ledger.
type SubmitResult struct {
	TxHash       string `json:"txHash"`
	EngineResult string `json:"engineResult"`
	Accepted     bool   `json:"accepted"`
}

// Client is the ledger gateway the services depend on.
type Client interface {
	// SubmitPayment signs and submits a payment. A rejection by the ledger
	// engine surfaces as an error carrying the engine code.
	SubmitPayment(ctx context.Context, payment Payment) (*SubmitResult, error)

	// GetAccountLines returns the trust line balances of an account.
	GetAccountLines(ctx context.Context, address string) ([]domain.Balance, error)

	// GetXRPBalance returns the spendable XRP balance of an account.
	GetXRPBalance(ctx context.Context, address string) (decimal.Decimal, error)

	// CreateWallet provisions and funds a fresh custodial wallet.
	CreateWallet(ctx context.Context) (*domain.Wallet, error)
}
