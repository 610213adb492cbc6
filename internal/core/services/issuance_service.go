package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
)

// issuanceService reports on the outstanding issued token supply.
type issuanceService struct {
	cfg       SwapConfig
	ledger    ledger.Client
	collector *metrics.Collector
}

// NewIssuanceService creates a new issuance accounting service.
func NewIssuanceService(cfg SwapConfig, ledgerClient ledger.Client, collector *metrics.Collector) portssvc.IssuanceSvcFacade {
	return &issuanceService{cfg: cfg, ledger: ledgerClient, collector: collector}
}

// Ensure issuanceService implements the portssvc.IssuanceSvcFacade interface
var _ portssvc.IssuanceSvcFacade = (*issuanceService)(nil)

// GetIssuanceSummary totals what the issuer currently owes holders, read
// live from the issuer's trust lines.
func (s *issuanceService) GetIssuanceSummary(ctx context.Context) (*domain.IssuanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines, err := s.ledger.GetAccountLines(ctx, s.cfg.IssuerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to read issuer trust lines: %w", err)
	}

	report := domain.NewIssuanceReport(s.cfg.IOUCurrency, s.cfg.IssuerAddress, lines, time.Now())

	supply, _ := report.TotalIssued.Float64()
	s.collector.SetIssuedSupply(report.Currency, supply)

	logger.Info("issuance summary computed",
		slog.String("currency", report.Currency),
		slog.String("total_issued", report.TotalIssued.String()),
		slog.Int("holders", report.HolderCount),
	)
	return &report, nil
}
