package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/google/uuid"
)

// SystemActorID marks records written by the engine itself rather than
// an operator, such as auto-approved trust line holders.
const SystemActorID = "system"

// accessService provides business logic for the token permission gate.
type accessService struct {
	domainRepo portsrepo.DomainRepositoryFacade
}

// NewAccessService creates a new access control service.
func NewAccessService(domainRepo portsrepo.DomainRepositoryFacade) portssvc.AccessSvcFacade {
	return &accessService{domainRepo: domainRepo}
}

// Ensure accessService implements the portssvc.AccessSvcFacade interface
var _ portssvc.AccessSvcFacade = (*accessService)(nil)

func validateAddress(address string) (string, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return "", fmt.Errorf("%w: address is required", apperrors.ErrValidation)
	}
	if !strings.HasPrefix(addr, "r") || len(addr) < 25 || len(addr) > 35 {
		return "", fmt.Errorf("%w: %q is not a valid ledger address", apperrors.ErrValidation, addr)
	}
	return addr, nil
}

// CheckPermission decides whether an address may hold or trade the issued
// token. The gate fails open: with no active domain, or when the domain
// cannot be loaded, the address is allowed so that a misconfigured gate
// cannot freeze the market.
func (s *accessService) CheckPermission(ctx context.Context, address string) (*domain.PermissionDecision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(address)
	if err != nil {
		return nil, err
	}

	active, err := s.domainRepo.FindActiveDomain(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.PermissionDecision{Allowed: true, Reason: "no active permission domain"}, nil
		}
		logger.Error("permission domain unavailable, failing open",
			slog.String("address", addr),
			slog.String("error", err.Error()),
		)
		return &domain.PermissionDecision{Allowed: true, Reason: "permission check unavailable"}, nil
	}

	decision := active.Evaluate(addr)
	if !decision.Allowed {
		logger.Info("permission denied",
			slog.String("address", addr),
			slog.String("domain_id", active.DomainID),
			slog.String("reason", decision.Reason),
		)
	}
	return &decision, nil
}

// GetActiveDomain retrieves the active permission domain with its member lists.
func (s *accessService) GetActiveDomain(ctx context.Context) (*domain.PermissionDomain, error) {
	return s.domainRepo.FindActiveDomain(ctx)
}

// GetDomainByID retrieves a specific domain with its member lists.
func (s *accessService) GetDomainByID(ctx context.Context, domainID string) (*domain.PermissionDomain, error) {
	if domainID == "" {
		return nil, fmt.Errorf("%w: domain ID is required", apperrors.ErrValidation)
	}
	return s.domainRepo.FindDomainByID(ctx, domainID)
}

// ListDomains retrieves all domains without member lists.
func (s *accessService) ListDomains(ctx context.Context, limit, offset int) ([]domain.PermissionDomain, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.domainRepo.FindDomains(ctx, limit, offset)
}

// CreateDomain persists a new permission domain. The first domain ever
// created becomes active immediately so the gate has something to enforce.
func (s *accessService) CreateDomain(ctx context.Context, req dto.CreateDomainRequest, creatorUserID string) (*domain.PermissionDomain, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	domainType, err := domain.ParseDomainType(req.DomainType)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: domain name is required", apperrors.ErrValidation)
	}

	activateNow := false
	if _, err := s.domainRepo.FindActiveDomain(ctx); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check active domain: %w", err)
		}
		activateNow = true
	}

	now := time.Now()
	dom := domain.PermissionDomain{
		DomainID:   uuid.NewString(),
		Name:       name,
		DomainType: domainType,
		Settings: domain.DomainSettings{
			RequireKYC:   req.RequireKYC,
			AutoApproval: req.AutoApproval,
		},
		IsActive: activateNow,
	}
	dom.Touch(creatorUserID, now)

	if err := s.domainRepo.SaveDomain(ctx, dom); err != nil {
		return nil, fmt.Errorf("failed to save domain: %w", err)
	}

	logger.Info("permission domain created",
		slog.String("domain_id", dom.DomainID),
		slog.String("domain_type", string(dom.DomainType)),
		slog.Bool("active", dom.IsActive),
	)
	return &dom, nil
}

// ActivateDomain makes the given domain the single active one.
func (s *accessService) ActivateDomain(ctx context.Context, domainID string, updaterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if domainID == "" {
		return fmt.Errorf("%w: domain ID is required", apperrors.ErrValidation)
	}
	if err := s.domainRepo.ActivateDomain(ctx, domainID, updaterUserID); err != nil {
		return err
	}

	logger.Info("permission domain activated", slog.String("domain_id", domainID))
	return nil
}

// UpdateDomainSettings changes the behavior flags of a domain.
func (s *accessService) UpdateDomainSettings(ctx context.Context, domainID string, req dto.UpdateDomainSettingsRequest, updaterUserID string) (*domain.PermissionDomain, error) {
	if domainID == "" {
		return nil, fmt.Errorf("%w: domain ID is required", apperrors.ErrValidation)
	}

	dom, err := s.domainRepo.FindDomainByID(ctx, domainID)
	if err != nil {
		return nil, err
	}

	settings := dom.Settings
	if req.RequireKYC != nil {
		settings.RequireKYC = *req.RequireKYC
	}
	if req.AutoApproval != nil {
		settings.AutoApproval = *req.AutoApproval
	}

	if err := s.domainRepo.UpdateSettings(ctx, domainID, settings, updaterUserID); err != nil {
		return nil, err
	}

	dom.Settings = settings
	dom.Touch(updaterUserID, time.Now())
	return dom, nil
}

func (s *accessService) activeDomain(ctx context.Context) (*domain.PermissionDomain, error) {
	active, err := s.domainRepo.FindActiveDomain(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active permission domain to modify", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return active, nil
}

// AddToWhitelist admits an address to the active domain's whitelist.
func (s *accessService) AddToWhitelist(ctx context.Context, req dto.AddWhitelistRequest, adderUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(req.Address)
	if err != nil {
		return err
	}

	kycStatus := domain.KYCPending
	if req.KYCStatus != "" {
		kycStatus, err = domain.ParseKYCStatus(req.KYCStatus)
		if err != nil {
			return err
		}
	}

	active, err := s.activeDomain(ctx)
	if err != nil {
		return err
	}

	entry := domain.WhitelistEntry{
		Address:   addr,
		KYCStatus: kycStatus,
		Note:      req.Note,
		AddedAt:   time.Now(),
		AddedBy:   adderUserID,
	}
	if err := s.domainRepo.UpsertWhitelistEntry(ctx, active.DomainID, entry); err != nil {
		return fmt.Errorf("failed to whitelist address: %w", err)
	}

	logger.Info("address whitelisted",
		slog.String("address", addr),
		slog.String("domain_id", active.DomainID),
		slog.String("kyc_status", string(kycStatus)),
	)
	return nil
}

// RemoveFromWhitelist drops an address from the active domain's whitelist.
func (s *accessService) RemoveFromWhitelist(ctx context.Context, address string, removerUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(address)
	if err != nil {
		return err
	}
	active, err := s.activeDomain(ctx)
	if err != nil {
		return err
	}
	if err := s.domainRepo.RemoveWhitelistEntry(ctx, active.DomainID, addr); err != nil {
		return err
	}

	logger.Info("address removed from whitelist",
		slog.String("address", addr),
		slog.String("domain_id", active.DomainID),
		slog.String("removed_by", removerUserID),
	)
	return nil
}

// UpdateKYCStatus changes the KYC status of a whitelisted address on the
// active domain.
func (s *accessService) UpdateKYCStatus(ctx context.Context, address string, status domain.KYCStatus, updaterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(address)
	if err != nil {
		return err
	}
	if _, err := domain.ParseKYCStatus(string(status)); err != nil {
		return err
	}
	active, err := s.activeDomain(ctx)
	if err != nil {
		return err
	}
	if err := s.domainRepo.UpdateKYCStatus(ctx, active.DomainID, addr, status, updaterUserID); err != nil {
		return err
	}

	logger.Info("KYC status updated",
		slog.String("address", addr),
		slog.String("domain_id", active.DomainID),
		slog.String("kyc_status", string(status)),
	)
	return nil
}

// AddToBlacklist bars an address on the active domain's blacklist.
func (s *accessService) AddToBlacklist(ctx context.Context, req dto.AddBlacklistRequest, adderUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(req.Address)
	if err != nil {
		return err
	}
	active, err := s.activeDomain(ctx)
	if err != nil {
		return err
	}

	entry := domain.BlacklistEntry{
		Address: addr,
		Reason:  req.Reason,
		AddedAt: time.Now(),
		AddedBy: adderUserID,
	}
	if err := s.domainRepo.UpsertBlacklistEntry(ctx, active.DomainID, entry); err != nil {
		return fmt.Errorf("failed to blacklist address: %w", err)
	}

	logger.Warn("address blacklisted",
		slog.String("address", addr),
		slog.String("domain_id", active.DomainID),
		slog.String("reason", req.Reason),
	)
	return nil
}

// RemoveFromBlacklist drops an address from the active domain's blacklist.
func (s *accessService) RemoveFromBlacklist(ctx context.Context, address string, removerUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(address)
	if err != nil {
		return err
	}
	active, err := s.activeDomain(ctx)
	if err != nil {
		return err
	}
	if err := s.domainRepo.RemoveBlacklistEntry(ctx, active.DomainID, addr); err != nil {
		return err
	}

	logger.Info("address removed from blacklist",
		slog.String("address", addr),
		slog.String("domain_id", active.DomainID),
		slog.String("removed_by", removerUserID),
	)
	return nil
}

// HandleTrustLineCreated reacts to a new trust line toward the issuer.
// On a domain with auto approval the holder is whitelisted with pending
// KYC; blacklisted or already listed addresses are left untouched.
func (s *accessService) HandleTrustLineCreated(ctx context.Context, address string) (*domain.WhitelistEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	addr, err := validateAddress(address)
	if err != nil {
		return nil, err
	}

	active, err := s.domainRepo.FindActiveDomain(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !active.Settings.AutoApproval {
		return nil, nil
	}
	if active.FindBlacklistEntry(addr) != nil {
		logger.Warn("trust line from blacklisted address ignored",
			slog.String("address", addr),
			slog.String("domain_id", active.DomainID),
		)
		return nil, nil
	}
	if active.FindWhitelistEntry(addr) != nil {
		return nil, nil
	}

	entry := domain.WhitelistEntry{
		Address:   addr,
		KYCStatus: domain.KYCPending,
		Note:      "auto-approved on trust line creation",
		AddedAt:   time.Now(),
		AddedBy:   SystemActorID,
	}
	if err := s.domainRepo.UpsertWhitelistEntry(ctx, active.DomainID, entry); err != nil {
		return nil, fmt.Errorf("failed to auto-approve address: %w", err)
	}

	logger.Info("trust line holder auto-approved",
		slog.String("address", addr),
		slog.String("domain_id", active.DomainID),
	)
	return &entry, nil
}
