package repositories

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
)

// PermissionDomainReader defines read operations for permission domain data
type PermissionDomainReader interface {
	// FindActiveDomain retrieves the single active permission domain with
	// its whitelist and blacklist loaded. Returns a not found error when no
	// domain is active.
	FindActiveDomain(ctx context.Context) (*domain.PermissionDomain, error)

	// FindDomainByID retrieves a specific domain, lists included.
	FindDomainByID(ctx context.Context, domainID string) (*domain.PermissionDomain, error)

	// FindDomains retrieves all domains without their member lists.
	FindDomains(ctx context.Context, limit, offset int) ([]domain.PermissionDomain, error)
}

// PermissionDomainWriter defines write operations for permission domain data
type PermissionDomainWriter interface {
	// SaveDomain persists a new permission domain.
	SaveDomain(ctx context.Context, dom domain.PermissionDomain) error

	// ActivateDomain deactivates every other domain and activates the given
	// one inside one transaction.
	ActivateDomain(ctx context.Context, domainID string, updatedBy string) error

	// UpdateSettings replaces the settings of a domain.
	UpdateSettings(ctx context.Context, domainID string, settings domain.DomainSettings, updatedBy string) error

	// UpsertWhitelistEntry adds an address to a domain's whitelist or
	// refreshes the existing entry.
	UpsertWhitelistEntry(ctx context.Context, domainID string, entry domain.WhitelistEntry) error

	// RemoveWhitelistEntry deletes an address from a domain's whitelist.
	RemoveWhitelistEntry(ctx context.Context, domainID string, address string) error

	// UpdateKYCStatus changes the KYC status of a whitelisted address.
	// Returns a not found error when the address is not on the whitelist.
	UpdateKYCStatus(ctx context.Context, domainID string, address string, status domain.KYCStatus, updatedBy string) error

	// UpsertBlacklistEntry adds an address to a domain's blacklist or
	// refreshes the existing entry.
	UpsertBlacklistEntry(ctx context.Context, domainID string, entry domain.BlacklistEntry) error

	// RemoveBlacklistEntry deletes an address from a domain's blacklist.
	RemoveBlacklistEntry(ctx context.Context, domainID string, address string) error
}

// DomainRepositoryFacade combines all permission domain repository interfaces
// This is a facade for clients that need access to all operations
type DomainRepositoryFacade interface {
	PermissionDomainReader
	PermissionDomainWriter
}

// DomainRepositoryWithTx extends DomainRepositoryFacade with transaction capabilities
type DomainRepositoryWithTx interface {
	DomainRepositoryFacade
	TransactionManager
}
