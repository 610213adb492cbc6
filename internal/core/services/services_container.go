package services

import (
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/events"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/platform/config"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	ledgerClient ledger.Client,
	publisher events.Publisher,
	collector *metrics.Collector,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	swapCfg := SwapConfig{
		AdminWallet: domain.Wallet{
			Address: cfg.AdminWalletAddress,
			Seed:    cfg.AdminWalletSeed,
		},
		IOUCurrency:   cfg.IOUCurrency,
		IssuerAddress: cfg.IssuerAddress,
		BaseAsset:     cfg.BaseAsset,
		QuoteAsset:    cfg.QuoteAsset,
	}

	// Pricing and policy services first since the swap engine depends on them
	container.Rate = NewRateService(repos.RateRepo)
	container.Fee = NewFeeService(repos.FeeRepo)
	container.Access = NewAccessService(repos.DomainRepo)

	container.Swap = NewSwapService(
		swapCfg,
		container.Access,
		container.Rate,
		container.Fee,
		ledgerClient,
		publisher,
		collector,
	)
	container.Issuance = NewIssuanceService(swapCfg, ledgerClient, collector)

	container.User = NewUserService(repos.UserRepo, ledgerClient)
	container.Token = NewTokenService(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)

	return container
}
