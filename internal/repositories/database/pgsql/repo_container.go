package pgsql

import (
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	rateRepo := newPgxRateRepository(dbPool)
	feeRepo := newPgxFeeRepository(dbPool)
	domainRepo := newPgxDomainRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		RateRepo:   rateRepo,
		FeeRepo:    feeRepo,
		DomainRepo: domainRepo,
		UserRepo:   userRepo,
	}
}
