// Package pricefeed keeps the rate registry current by polling an upstream
// market data API for spot prices.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds the upstream feed settings.
type Config struct {
	URL          string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client fetches spot prices over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a feed client. When client credentials are configured the
// transport obtains and refreshes bearer tokens on its own.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var httpClient *http.Client
	if cfg.ClientID != "" {
		creds := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = creds.Client(context.Background())
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = timeout

	return &Client{url: cfg.URL, http: httpClient}
}

// tickerResponse is the upstream ticker payload. Venues disagree on whether
// the price arrives as a JSON number or a quoted string; decimal accepts
// both.
type tickerResponse struct {
	Price decimal.Decimal `json:"price"`
}

// FetchPrice returns the current spot price from the feed.
func (c *Client) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create price feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price feed response: %w", err)
	}
	if ticker.Price.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: feed returned non-positive price %s", apperrors.ErrValidation, ticker.Price)
	}
	return ticker.Price, nil
}
