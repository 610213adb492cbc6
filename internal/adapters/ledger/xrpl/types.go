package xrpl

import (
	"encoding/json"
	"fmt"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	"github.com/shopspring/decimal"
)

// rippled speaks JSON-RPC 1.0: a method name and a single params object
// wrapped in an array.
type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// rpcStatus is the part every rippled result carries. On failure the result
// holds an error code instead of the method's payload.
type rpcStatus struct {
	Status       string `json:"status"`
	ErrorCode    string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

type submitParams struct {
	Secret   string    `json:"secret"`
	TxJSON   paymentTx `json:"tx_json"`
	FailHard bool      `json:"fail_hard"`
}

// paymentTx is the unsigned Payment transaction handed to rippled for
// sign-and-submit. Amount is either a drops string for XRP or an issued
// amount object.
type paymentTx struct {
	TransactionType string `json:"TransactionType"`
	Account         string `json:"Account"`
	Destination     string `json:"Destination"`
	Amount          any    `json:"Amount"`
}

type issuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

type submitResponse struct {
	Accepted            bool   `json:"accepted"`
	EngineResult        string `json:"engine_result"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

type accountLinesParams struct {
	Account     string `json:"account"`
	LedgerIndex string `json:"ledger_index"`
}

type accountLinesResponse struct {
	Account string `json:"account"`
	Lines   []struct {
		Account  string `json:"account"`
		Balance  string `json:"balance"`
		Currency string `json:"currency"`
	} `json:"lines"`
}

type accountInfoParams struct {
	Account     string `json:"account"`
	LedgerIndex string `json:"ledger_index"`
}

type accountInfoResponse struct {
	AccountData struct {
		Balance    string `json:"Balance"`
		OwnerCount int    `json:"OwnerCount"`
	} `json:"account_data"`
}

// faucetResponse covers the field names the testnet and devnet faucets have
// used across versions.
type faucetResponse struct {
	Account struct {
		Address        string `json:"address"`
		ClassicAddress string `json:"classicAddress"`
		Secret         string `json:"secret"`
	} `json:"account"`
	Seed string `json:"seed"`
}

var (
	dropsPerXRP       = decimal.NewFromInt(1_000_000)
	baseReserveDrops  = decimal.NewFromInt(1_000_000)
	ownerReserveDrops = decimal.NewFromInt(200_000)
)

// issuedDecimalPlaces caps issued amounts at the same precision as drops so
// quoted values never exceed what the ledger can represent.
const issuedDecimalPlaces = 6

// encodeAmount renders a port amount in rippled's wire form: whole drops as a
// string for XRP, a currency object for issued tokens.
func encodeAmount(a ledger.Amount) (any, error) {
	if a.IsNative() {
		drops := a.Value.Mul(dropsPerXRP).Truncate(0)
		if drops.Sign() <= 0 {
			return nil, fmt.Errorf("%w: amount %s rounds to zero drops", apperrors.ErrValidation, a.Value.String())
		}
		return drops.String(), nil
	}
	value := a.Value.Round(issuedDecimalPlaces)
	if value.Sign() <= 0 {
		return nil, fmt.Errorf("%w: issued amount %s rounds to zero", apperrors.ErrValidation, a.Value.String())
	}
	return issuedAmount{Currency: a.Currency, Issuer: a.Issuer, Value: value.String()}, nil
}
