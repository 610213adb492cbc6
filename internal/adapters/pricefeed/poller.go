package pricefeed

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/shopspring/decimal"
)

// feedActorID marks rate records written by the poller rather than an admin.
const feedActorID = "system:pricefeed"

// PollerConfig controls how fetched prices become rate records.
type PollerConfig struct {
	Interval   time.Duration
	BaseAsset  string
	QuoteAsset string
	Spread     decimal.Decimal
	Source     string
}

// Poller periodically fetches the spot price and installs it as the active
// rate for the configured pair.
type Poller struct {
	client *Client
	rates  portssvc.RateWriterSvc
	cfg    PollerConfig
	logger *slog.Logger
}

// NewPoller wires a feed client to the rate service.
func NewPoller(client *Client, rates portssvc.RateWriterSvc, cfg PollerConfig, logger *slog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Source == "" {
		cfg.Source = "pricefeed"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{client: client, rates: rates, cfg: cfg, logger: logger}
}

// Run polls until the context is cancelled. A failed fetch leaves the
// previous rate in place, so quoting keeps serving the last good price
// until its validity window closes.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Price feed poller stopped", "pair", p.pair())
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.Interval)
	defer cancel()

	price, err := p.client.FetchPrice(fetchCtx)
	if err != nil {
		p.logger.Warn("Price feed fetch failed, keeping previous rate", "pair", p.pair(), "error", err)
		return
	}

	if _, err := p.rates.UpsertRate(fetchCtx, dto.UpsertRateRequest{
		BaseAsset:  p.cfg.BaseAsset,
		QuoteAsset: p.cfg.QuoteAsset,
		Rate:       price,
		Spread:     p.cfg.Spread,
		Source:     p.cfg.Source,
	}, feedActorID); err != nil {
		p.logger.Error("Failed to store fetched rate", "pair", p.pair(), "error", err)
		return
	}
	p.logger.Info("Rate refreshed from price feed", "pair", p.pair(), "rate", price)
}

func (p *Poller) pair() string {
	return p.cfg.BaseAsset + "/" + p.cfg.QuoteAsset
}
