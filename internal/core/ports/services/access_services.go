package services

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
)

// AccessReaderSvc defines read operations for token access control
type AccessReaderSvc interface {
	// CheckPermission decides whether an address may hold or trade the
	// issued token. Fails open: when no domain is active, or the gate
	// itself errors, the address is allowed.
	CheckPermission(ctx context.Context, address string) (*domain.PermissionDecision, error)

	// GetActiveDomain retrieves the active permission domain with its
	// member lists.
	GetActiveDomain(ctx context.Context) (*domain.PermissionDomain, error)

	// GetDomainByID retrieves a specific domain with its member lists.
	GetDomainByID(ctx context.Context, domainID string) (*domain.PermissionDomain, error)

	// ListDomains retrieves all domains without member lists.
	ListDomains(ctx context.Context, limit, offset int) ([]domain.PermissionDomain, error)
}

// AccessWriterSvc defines write operations for token access control.
// List mutations always target the active domain.
type AccessWriterSvc interface {
	// CreateDomain persists a new permission domain, activating it when it
	// is the first one.
	CreateDomain(ctx context.Context, req dto.CreateDomainRequest, creatorUserID string) (*domain.PermissionDomain, error)

	// ActivateDomain makes the given domain the single active one.
	ActivateDomain(ctx context.Context, domainID string, updaterUserID string) error

	// UpdateDomainSettings changes the behavior flags of a domain.
	UpdateDomainSettings(ctx context.Context, domainID string, req dto.UpdateDomainSettingsRequest, updaterUserID string) (*domain.PermissionDomain, error)

	// AddToWhitelist admits an address to the active domain's whitelist.
	AddToWhitelist(ctx context.Context, req dto.AddWhitelistRequest, adderUserID string) error

	// RemoveFromWhitelist drops an address from the active domain's
	// whitelist.
	RemoveFromWhitelist(ctx context.Context, address string, removerUserID string) error

	// UpdateKYCStatus changes the KYC status of a whitelisted address on
	// the active domain.
	UpdateKYCStatus(ctx context.Context, address string, status domain.KYCStatus, updaterUserID string) error

	// AddToBlacklist bars an address on the active domain's blacklist.
	AddToBlacklist(ctx context.Context, req dto.AddBlacklistRequest, adderUserID string) error

	// RemoveFromBlacklist drops an address from the active domain's
	// blacklist.
	RemoveFromBlacklist(ctx context.Context, address string, removerUserID string) error

	// HandleTrustLineCreated reacts to a new trust line toward the issuer.
	// When the active domain auto-approves, the address is whitelisted and
	// the new entry returned; otherwise the entry is nil and nothing
	// changes.
	HandleTrustLineCreated(ctx context.Context, address string) (*domain.WhitelistEntry, error)
}

// AccessSvcFacade combines all access control service interfaces
type AccessSvcFacade interface {
	AccessReaderSvc
	AccessWriterSvc
}
