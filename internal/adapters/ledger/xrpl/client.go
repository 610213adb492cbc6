// Package xrpl implements the ledger port against a rippled JSON-RPC
// endpoint. Transactions are signed server-side via sign-and-submit, reads go
// to the last validated ledger, and new wallets come from the network faucet.
package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/avast/retry-go/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Config carries the connection settings for a rippled endpoint.
type Config struct {
	RPCURL    string
	FaucetURL string
	Timeout   time.Duration
	// MaxRetries bounds the attempts for idempotent reads. Submissions are
	// never retried.
	MaxRetries uint
	// RateLimit is the outbound request budget in requests per second,
	// shared by all operations.
	RateLimit float64
	RateBurst int
}

// Client talks to one rippled node over JSON-RPC.
type Client struct {
	rpcURL    string
	faucetURL string
	http      *http.Client
	limiter   *rate.Limiter
	retries   uint
	collector *metrics.Collector
}

// NewClient creates a ledger client for the configured rippled endpoint.
func NewClient(cfg Config, collector *metrics.Collector) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 5
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}
	return &Client{
		rpcURL:    cfg.RPCURL,
		faucetURL: cfg.FaucetURL,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		retries:   retries,
		collector: collector,
	}
}

// Ensure Client implements the ledger.Client interface
var _ ledger.Client = (*Client)(nil)

// SubmitPayment signs and submits a payment through rippled. It is called
// exactly once per leg: a submission that may or may not have reached the
// network must not be repeated, so transport errors surface instead of
// retrying.
func (c *Client) SubmitPayment(ctx context.Context, payment ledger.Payment) (*ledger.SubmitResult, error) {
	if payment.Sender.Seed == "" {
		return nil, fmt.Errorf("%w: sender wallet has no seed", apperrors.ErrValidation)
	}
	amount, err := encodeAmount(payment.Amount)
	if err != nil {
		return nil, err
	}

	params := submitParams{
		Secret:   payment.Sender.Seed,
		FailHard: true,
		TxJSON: paymentTx{
			TransactionType: "Payment",
			Account:         payment.Sender.Address,
			Destination:     payment.Destination,
			Amount:          amount,
		},
	}

	started := time.Now()
	var res submitResponse
	err = c.rpcCall(ctx, "submit", params, &res)
	if err == nil && !engineAccepted(res.EngineResult) {
		err = apperrors.NewLedgerError(res.EngineResult, res.EngineResultMessage)
	}
	c.collector.RecordLedgerCall("submit", time.Since(started), err)
	if err != nil {
		return nil, err
	}

	return &ledger.SubmitResult{
		TxHash:       res.TxJSON.Hash,
		EngineResult: res.EngineResult,
		Accepted:     true,
	}, nil
}

// engineAccepted reports whether the engine took the transaction. Queued
// transactions settle once the fee pressure drops, so they count.
func engineAccepted(result string) bool {
	return result == "tesSUCCESS" || result == "terQUEUED"
}

// GetAccountLines returns the trust line balances of an account as reported
// by the last validated ledger.
func (c *Client) GetAccountLines(ctx context.Context, address string) ([]domain.Balance, error) {
	params := accountLinesParams{Account: address, LedgerIndex: "validated"}

	started := time.Now()
	var res accountLinesResponse
	err := c.readWithRetry(ctx, "account_lines", params, &res)
	c.collector.RecordLedgerCall("account_lines", time.Since(started), err)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.Balance, 0, len(res.Lines))
	for _, line := range res.Lines {
		value, err := decimal.NewFromString(line.Balance)
		if err != nil {
			return nil, fmt.Errorf("malformed trust line balance %q: %w", line.Balance, err)
		}
		lines = append(lines, domain.Balance{
			Currency: line.Currency,
			Issuer:   line.Account,
			Value:    value,
		})
	}
	return lines, nil
}

// GetXRPBalance returns the spendable XRP of an account: the validated
// balance minus the base and owner reserves the network locks up.
func (c *Client) GetXRPBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	params := accountInfoParams{Account: address, LedgerIndex: "validated"}

	started := time.Now()
	var res accountInfoResponse
	err := c.readWithRetry(ctx, "account_info", params, &res)
	c.collector.RecordLedgerCall("account_info", time.Since(started), err)
	if err != nil {
		return decimal.Zero, err
	}

	drops, err := decimal.NewFromString(res.AccountData.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed account balance %q: %w", res.AccountData.Balance, err)
	}
	reserve := baseReserveDrops.Add(ownerReserveDrops.Mul(decimal.NewFromInt(int64(res.AccountData.OwnerCount))))
	spendable := drops.Sub(reserve)
	if spendable.IsNegative() {
		spendable = decimal.Zero
	}
	return spendable.Div(dropsPerXRP), nil
}

// CreateWallet asks the network faucet for a fresh funded wallet.
func (c *Client) CreateWallet(ctx context.Context) (*domain.Wallet, error) {
	started := time.Now()
	wallet, err := c.createWallet(ctx)
	c.collector.RecordLedgerCall("create_wallet", time.Since(started), err)
	return wallet, err
}

func (c *Client) createWallet(ctx context.Context) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.faucetURL, strings.NewReader("{}"))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("faucet returned status %d", resp.StatusCode)
			}
			var decoded faucetResponse
			if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
				return err
			}
			address := decoded.Account.ClassicAddress
			if address == "" {
				address = decoded.Account.Address
			}
			seed := decoded.Seed
			if seed == "" {
				seed = decoded.Account.Secret
			}
			if address == "" || seed == "" {
				return retry.Unrecoverable(errors.New("faucet response missing address or seed"))
			}
			wallet = &domain.Wallet{Address: address, Seed: seed}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

// readWithRetry runs an idempotent RPC read, retrying transport faults and
// busy-server responses with backoff.
func (c *Client) readWithRetry(ctx context.Context, method string, params, out any) error {
	return retry.Do(
		func() error { return c.rpcCall(ctx, method, params, out) },
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
}

// retryable separates transient faults from final answers. Not-found and
// engine verdicts do not change on a second ask; transport errors and
// busy-server codes do.
func retryable(err error) bool {
	if errors.Is(err, apperrors.ErrNotFound) {
		return false
	}
	var ledgerErr *apperrors.LedgerError
	if errors.As(err, &ledgerErr) {
		switch ledgerErr.EngineCode {
		case "tooBusy", "noNetwork", "noCurrent", "noClosed":
			return true
		}
		return false
	}
	return true
}

// rpcCall performs one JSON-RPC exchange and decodes the result into out.
func (c *Client) rpcCall(ctx context.Context, method string, params, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", method, resp.StatusCode)
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	var status rpcStatus
	if err := json.Unmarshal(envelope.Result, &status); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	if status.Status == "error" {
		if status.ErrorCode == "actNotFound" {
			return apperrors.NewNotFoundError("account not found on ledger")
		}
		return apperrors.NewLedgerError(status.ErrorCode, status.ErrorMessage)
	}

	return json.Unmarshal(envelope.Result, out)
}
