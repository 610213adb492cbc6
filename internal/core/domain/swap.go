package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SwapStatus is the terminal settlement state of a swap attempt.
type SwapStatus string

const (
	// SwapSucceeded means every ledger leg settled.
	SwapSucceeded SwapStatus = "SUCCEEDED"
	// SwapFailed means the swap stopped before any value moved.
	SwapFailed SwapStatus = "FAILED"
	// SwapPartial means the first leg settled but a later leg did not.
	// No compensation is attempted; the result records what happened so
	// operators can reconcile by hand.
	SwapPartial SwapStatus = "PARTIAL"
)

// SwapStage is the furthest point a swap attempt reached.
type SwapStage string

const (
	StageCheckAccess SwapStage = "CHECK_ACCESS"
	StageQuote       SwapStage = "QUOTE"
	StageLegOne      SwapStage = "EXECUTE_LEG_1"
	StageLegTwo      SwapStage = "EXECUTE_LEG_2"
	StageSettled     SwapStage = "SETTLED"
)

// Error codes carried on failed and partial swap results.
const (
	SwapErrPermissionDenied = "PERMISSION_DENIED"
	SwapErrQuoteUnavailable = "QUOTE_UNAVAILABLE"
	SwapErrInvalidRequest   = "INVALID_REQUEST"
	SwapErrLedger           = "LEDGER_ERROR"
	SwapErrPartialFailure   = "PARTIAL_FAILURE"
)

// Wallet is a ledger account the service can sign for. The seed is an
// opaque custodial secret handed to the ledger client as-is.
type Wallet struct {
	Address string `json:"address"`
	Seed    string `json:"-"`
}

// SwapContext carries the operator-side collaborators a swap executes
// against. Callers assemble it per request instead of the engine reaching
// for process-wide state.
type SwapContext struct {
	AdminWallet   Wallet
	UserWallet    Wallet
	IOUCurrency   string
	IssuerAddress string
}

// SwapQuote prices a prospective swap. Gross, fee and net are denominated in
// the input currency; PayAmount is the converted output the counterparty
// receives.
type SwapQuote struct {
	SwapType     SwapType         `json:"swapType"`
	GrossAmount  decimal.Decimal  `json:"grossAmount"`
	Fee          decimal.Decimal  `json:"fee"`
	NetAmount    decimal.Decimal  `json:"netAmount"`
	FeeType      FeeType          `json:"feeType"`
	FeeRate      *decimal.Decimal `json:"feeRate,omitempty"`
	FeeDefaulted bool             `json:"feeDefaulted"`
	PayAmount    decimal.Decimal  `json:"payAmount"`
	PayCurrency  string           `json:"payCurrency"`
	RateUsed     *ExchangeRate    `json:"rateUsed,omitempty"`
	QuotedAt     time.Time        `json:"quotedAt"`
}

// LegResult records one ledger payment attempted during settlement.
type LegResult struct {
	Leg       int    `json:"leg"`
	Purpose   string `json:"purpose"`
	TxHash    string `json:"txHash,omitempty"`
	Succeeded bool   `json:"succeeded"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// SwapResult is the structured outcome of a swap attempt. Failures are data
// here, not transport errors: the engine always returns a result so callers
// and auditors see how far settlement got.
type SwapResult struct {
	SwapID     string      `json:"swapId"`
	UserID     string      `json:"userId"`
	SwapType   SwapType    `json:"swapType"`
	Status     SwapStatus  `json:"status"`
	Stage      SwapStage   `json:"stage"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Quote      *SwapQuote  `json:"quote,omitempty"`
	Legs       []LegResult `json:"legs,omitempty"`
	ExecutedAt time.Time   `json:"executedAt"`
}

// Settled reports whether every attempted leg landed on the ledger.
func (r SwapResult) Settled() bool {
	return r.Status == SwapSucceeded
}

// NeedsReconciliation reports whether value moved without the swap
// completing.
func (r SwapResult) NeedsReconciliation() bool {
	return r.Status == SwapPartial
}
