package xrpl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	senderAddr = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	destAddr   = "rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYa"
)

type capturedRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func decodeRequest(t *testing.T, r *http.Request) capturedRequest {
	t.Helper()
	var req capturedRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	require.Len(t, req.Params, 1)
	return req
}

func newTestClient(rpcURL, faucetURL string) *Client {
	return NewClient(Config{RPCURL: rpcURL, FaucetURL: faucetURL}, metrics.NewCollector())
}

func TestSubmitPayment_XRPSuccess(t *testing.T) {
	var got capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		w.Write([]byte(`{"result":{"accepted":true,"engine_result":"tesSUCCESS","engine_result_message":"The transaction was applied.","status":"success","tx_json":{"hash":"ABC123"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	result, err := client.SubmitPayment(context.Background(), ledger.Payment{
		Sender:      domain.Wallet{Address: senderAddr, Seed: "sSenderSeed"},
		Destination: destAddr,
		Amount:      ledger.XRP(decimal.NewFromInt(100)),
	})

	require.NoError(t, err)
	assert.Equal(t, "ABC123", result.TxHash)
	assert.Equal(t, "tesSUCCESS", result.EngineResult)
	assert.True(t, result.Accepted)

	assert.Equal(t, "submit", got.Method)
	var params struct {
		Secret   string `json:"secret"`
		FailHard bool   `json:"fail_hard"`
		TxJSON   struct {
			TransactionType string `json:"TransactionType"`
			Account         string `json:"Account"`
			Destination     string `json:"Destination"`
			Amount          string `json:"Amount"`
		} `json:"tx_json"`
	}
	require.NoError(t, json.Unmarshal(got.Params[0], &params))
	assert.Equal(t, "sSenderSeed", params.Secret)
	assert.True(t, params.FailHard)
	assert.Equal(t, "Payment", params.TxJSON.TransactionType)
	assert.Equal(t, senderAddr, params.TxJSON.Account)
	assert.Equal(t, destAddr, params.TxJSON.Destination)
	// 100 XRP in drops
	assert.Equal(t, "100000000", params.TxJSON.Amount)
}

func TestSubmitPayment_IssuedTokenEncoding(t *testing.T) {
	var got capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		w.Write([]byte(`{"result":{"accepted":true,"engine_result":"tesSUCCESS","status":"success","tx_json":{"hash":"DEF456"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.SubmitPayment(context.Background(), ledger.Payment{
		Sender:      domain.Wallet{Address: senderAddr, Seed: "sSenderSeed"},
		Destination: destAddr,
		Amount:      ledger.IssuedToken("KRW", senderAddr, decimal.RequireFromString("418022.45913")),
	})
	require.NoError(t, err)

	var params struct {
		TxJSON struct {
			Amount struct {
				Currency string `json:"currency"`
				Issuer   string `json:"issuer"`
				Value    string `json:"value"`
			} `json:"Amount"`
		} `json:"tx_json"`
	}
	require.NoError(t, json.Unmarshal(got.Params[0], &params))
	assert.Equal(t, "KRW", params.TxJSON.Amount.Currency)
	assert.Equal(t, senderAddr, params.TxJSON.Amount.Issuer)
	assert.Equal(t, "418022.45913", params.TxJSON.Amount.Value)
}

func TestSubmitPayment_EngineRejection(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"result":{"accepted":false,"engine_result":"tecUNFUNDED_PAYMENT","engine_result_message":"Insufficient XRP balance to send.","status":"success","tx_json":{"hash":"GONE"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	result, err := client.SubmitPayment(context.Background(), ledger.Payment{
		Sender:      domain.Wallet{Address: senderAddr, Seed: "sSenderSeed"},
		Destination: destAddr,
		Amount:      ledger.XRP(decimal.NewFromInt(100)),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var ledgerErr *apperrors.LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, "tecUNFUNDED_PAYMENT", ledgerErr.EngineCode)
	assert.Equal(t, 1, calls, "a rejected submission must not be resubmitted")
}

func TestSubmitPayment_TransportErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.SubmitPayment(context.Background(), ledger.Payment{
		Sender:      domain.Wallet{Address: senderAddr, Seed: "sSenderSeed"},
		Destination: destAddr,
		Amount:      ledger.XRP(decimal.NewFromInt(1)),
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "an ambiguous submission must not be resubmitted")
}

func TestSubmitPayment_MissingSeed(t *testing.T) {
	client := newTestClient("http://unused", "")
	_, err := client.SubmitPayment(context.Background(), ledger.Payment{
		Sender:      domain.Wallet{Address: senderAddr},
		Destination: destAddr,
		Amount:      ledger.XRP(decimal.NewFromInt(1)),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmitPayment_SubDropAmount(t *testing.T) {
	client := newTestClient("http://unused", "")
	_, err := client.SubmitPayment(context.Background(), ledger.Payment{
		Sender:      domain.Wallet{Address: senderAddr, Seed: "sSenderSeed"},
		Destination: destAddr,
		Amount:      ledger.XRP(decimal.RequireFromString("0.0000001")),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetAccountLines_MapsBalances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "account_lines", req.Method)
		w.Write([]byte(`{"result":{"account":"` + senderAddr + `","status":"success","lines":[
			{"account":"` + destAddr + `","balance":"-50000","currency":"KRW","limit":"0"},
			{"account":"` + destAddr + `","balance":"25.5","currency":"USD","limit":"1000"}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	lines, err := client.GetAccountLines(context.Background(), senderAddr)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "KRW", lines[0].Currency)
	assert.Equal(t, destAddr, lines[0].Issuer)
	assert.True(t, lines[0].Value.Equal(decimal.NewFromInt(-50000)))
	assert.True(t, lines[1].Value.Equal(decimal.RequireFromString("25.5")))
}

func TestGetAccountLines_RetriesWhenBusy(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"result":{"status":"error","error":"tooBusy","error_message":"The server is too busy to help you now."}}`))
			return
		}
		w.Write([]byte(`{"result":{"account":"` + senderAddr + `","status":"success","lines":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	lines, err := client.GetAccountLines(context.Background(), senderAddr)

	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 2, calls)
}

func TestGetXRPBalance_SubtractsReserve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "account_info", req.Method)
		w.Write([]byte(`{"result":{"status":"success","account_data":{"Balance":"101200000","OwnerCount":1,"Sequence":7}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	balance, err := client.GetXRPBalance(context.Background(), senderAddr)

	require.NoError(t, err)
	// 101.2 XRP minus 1 XRP base reserve and 0.2 XRP for one owned object
	assert.True(t, balance.Equal(decimal.NewFromInt(100)), "got %s", balance)
}

func TestGetXRPBalance_AccountNotFound(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"result":{"status":"error","error":"actNotFound","error_message":"Account not found."}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.GetXRPBalance(context.Background(), senderAddr)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, calls, "a missing account is a final answer, not a transient fault")
}

func TestCreateWallet_ParsesFaucetResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"account":{"classicAddress":"` + destAddr + `","address":"X7AcgcsBL6XDcUb289X4mJ8djcdyKaB5hJDWMArnXr61cqZ"},"seed":"sEdFreshSeed","amount":10}`))
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	wallet, err := client.CreateWallet(context.Background())

	require.NoError(t, err)
	assert.Equal(t, destAddr, wallet.Address)
	assert.Equal(t, "sEdFreshSeed", wallet.Seed)
}

func TestCreateWallet_LegacySecretField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account":{"address":"` + destAddr + `","secret":"shLegacySecret"},"amount":10}`))
	}))
	defer server.Close()

	client := newTestClient("", server.URL)
	wallet, err := client.CreateWallet(context.Background())

	require.NoError(t, err)
	assert.Equal(t, destAddr, wallet.Address)
	assert.Equal(t, "shLegacySecret", wallet.Seed)
}
