package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	"github.com/2025XRRPKOREA/api-server/internal/models"
	"github.com/2025XRRPKOREA/api-server/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const domainColumns = `domain_id, name, domain_type, require_kyc, auto_approval, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

// PgxDomainRepository implements the permission domain repository ports
// using pgxpool. The aggregate spans three tables: the domain row and its
// whitelist and blacklist member tables.
type PgxDomainRepository struct {
	BaseRepository
}

func newPgxDomainRepository(db *pgxpool.Pool) portsrepo.DomainRepositoryWithTx {
	return &PgxDomainRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxDomainRepository implements portsrepo.DomainRepositoryWithTx
var _ portsrepo.DomainRepositoryWithTx = (*PgxDomainRepository)(nil)

func scanDomain(row pgx.Row) (models.PermissionDomain, error) {
	var m models.PermissionDomain
	err := row.Scan(
		&m.DomainID, &m.Name, &m.DomainType, &m.RequireKYC, &m.AutoApproval, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// loadMembers fills the whitelist and blacklist of an already loaded domain.
func (r *PgxDomainRepository) loadMembers(ctx context.Context, dom *domain.PermissionDomain) error {
	rows, err := r.Pool.Query(ctx, `
		SELECT address, kyc_status, note, added_at, added_by
		FROM domain_whitelist_entries
		WHERE domain_id = $1
		ORDER BY added_at`, dom.DomainID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to load whitelist", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.WhitelistEntry
		if err := rows.Scan(&m.Address, &m.KYCStatus, &m.Note, &m.AddedAt, &m.AddedBy); err != nil {
			return apperrors.NewAppError(500, "failed to scan whitelist entry", err)
		}
		dom.Whitelist = append(dom.Whitelist, mapping.ToDomainWhitelistEntry(m))
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating whitelist", err)
	}

	blRows, err := r.Pool.Query(ctx, `
		SELECT address, reason, added_at, added_by
		FROM domain_blacklist_entries
		WHERE domain_id = $1
		ORDER BY added_at`, dom.DomainID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to load blacklist", err)
	}
	defer blRows.Close()
	for blRows.Next() {
		var m models.BlacklistEntry
		if err := blRows.Scan(&m.Address, &m.Reason, &m.AddedAt, &m.AddedBy); err != nil {
			return apperrors.NewAppError(500, "failed to scan blacklist entry", err)
		}
		dom.Blacklist = append(dom.Blacklist, mapping.ToDomainBlacklistEntry(m))
	}
	if err := blRows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating blacklist", err)
	}

	return nil
}

// FindActiveDomain retrieves the single active domain with member lists.
func (r *PgxDomainRepository) FindActiveDomain(ctx context.Context) (*domain.PermissionDomain, error) {
	query := `
		SELECT ` + domainColumns + `
		FROM permission_domains
		WHERE is_active = TRUE
		LIMIT 1;
	`

	m, err := scanDomain(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no active permission domain")
		}
		return nil, apperrors.NewAppError(500, "failed to find active domain", err)
	}

	dom := mapping.ToDomainPermissionDomain(m)
	if err := r.loadMembers(ctx, &dom); err != nil {
		return nil, err
	}
	return &dom, nil
}

// FindDomainByID retrieves a domain with member lists.
func (r *PgxDomainRepository) FindDomainByID(ctx context.Context, domainID string) (*domain.PermissionDomain, error) {
	query := `
		SELECT ` + domainColumns + `
		FROM permission_domains
		WHERE domain_id = $1;
	`

	m, err := scanDomain(r.Pool.QueryRow(ctx, query, domainID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("permission domain with ID " + domainID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get domain by ID", err)
	}

	dom := mapping.ToDomainPermissionDomain(m)
	if err := r.loadMembers(ctx, &dom); err != nil {
		return nil, err
	}
	return &dom, nil
}

// FindDomains retrieves all domains without member lists.
func (r *PgxDomainRepository) FindDomains(ctx context.Context, limit, offset int) ([]domain.PermissionDomain, error) {
	query := `
		SELECT ` + domainColumns + `
		FROM permission_domains
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list domains", err)
	}
	defer rows.Close()

	var domains []domain.PermissionDomain
	for rows.Next() {
		m, err := scanDomain(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan domain", err)
		}
		domains = append(domains, mapping.ToDomainPermissionDomain(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating domains", err)
	}

	return domains, nil
}

// SaveDomain persists a new permission domain row.
func (r *PgxDomainRepository) SaveDomain(ctx context.Context, dom domain.PermissionDomain) error {
	m := mapping.ToModelPermissionDomain(dom)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO permission_domains (
			domain_id, name, domain_type, require_kyc, auto_approval, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.DomainID, m.Name, m.DomainType, m.RequireKYC, m.AutoApproval, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save domain", err)
	}
	return nil
}

// ActivateDomain deactivates every other domain and activates the given one
// inside one transaction.
func (r *PgxDomainRepository) ActivateDomain(ctx context.Context, domainID string, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE permission_domains
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE is_active = TRUE AND domain_id <> $3`,
		now, updatedBy, domainID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate domains", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE permission_domains
		SET is_active = TRUE, last_updated_at = $1, last_updated_by = $2
		WHERE domain_id = $3`,
		now, updatedBy, domainID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to activate domain", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("permission domain with ID " + domainID + " not found")
	}

	return r.Commit(ctx, tx)
}

// UpdateSettings replaces the settings of a domain.
func (r *PgxDomainRepository) UpdateSettings(ctx context.Context, domainID string, settings domain.DomainSettings, updatedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE permission_domains
		SET require_kyc = $1, auto_approval = $2, last_updated_at = $3, last_updated_by = $4
		WHERE domain_id = $5`,
		settings.RequireKYC, settings.AutoApproval, time.Now(), updatedBy, domainID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update domain settings", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("permission domain with ID " + domainID + " not found")
	}
	return nil
}

// UpsertWhitelistEntry adds an address to a domain's whitelist or refreshes
// the existing entry.
func (r *PgxDomainRepository) UpsertWhitelistEntry(ctx context.Context, domainID string, entry domain.WhitelistEntry) error {
	m := mapping.ToModelWhitelistEntry(domainID, entry)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO domain_whitelist_entries (domain_id, address, kyc_status, note, added_at, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (domain_id, address) DO UPDATE SET
			kyc_status = EXCLUDED.kyc_status,
			note = EXCLUDED.note`,
		m.DomainID, m.Address, m.KYCStatus, m.Note, m.AddedAt, m.AddedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert whitelist entry", err)
	}
	return nil
}

// RemoveWhitelistEntry deletes an address from a domain's whitelist.
func (r *PgxDomainRepository) RemoveWhitelistEntry(ctx context.Context, domainID string, address string) error {
	tag, err := r.Pool.Exec(ctx, `
		DELETE FROM domain_whitelist_entries
		WHERE domain_id = $1 AND address = $2`,
		domainID, address,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to remove whitelist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("address " + address + " not on whitelist")
	}
	return nil
}

// UpdateKYCStatus changes the KYC status of a whitelisted address.
func (r *PgxDomainRepository) UpdateKYCStatus(ctx context.Context, domainID string, address string, status domain.KYCStatus, updatedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE domain_whitelist_entries
		SET kyc_status = $1
		WHERE domain_id = $2 AND address = $3`,
		string(status), domainID, address,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update KYC status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("address " + address + " not on whitelist")
	}
	return nil
}

// UpsertBlacklistEntry adds an address to a domain's blacklist or refreshes
// the existing entry.
func (r *PgxDomainRepository) UpsertBlacklistEntry(ctx context.Context, domainID string, entry domain.BlacklistEntry) error {
	m := mapping.ToModelBlacklistEntry(domainID, entry)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO domain_blacklist_entries (domain_id, address, reason, added_at, added_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (domain_id, address) DO UPDATE SET
			reason = EXCLUDED.reason`,
		m.DomainID, m.Address, m.Reason, m.AddedAt, m.AddedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert blacklist entry", err)
	}
	return nil
}

// RemoveBlacklistEntry deletes an address from a domain's blacklist.
func (r *PgxDomainRepository) RemoveBlacklistEntry(ctx context.Context, domainID string, address string) error {
	tag, err := r.Pool.Exec(ctx, `
		DELETE FROM domain_blacklist_entries
		WHERE domain_id = $1 AND address = $2`,
		domainID, address,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to remove blacklist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("address " + address + " not on blacklist")
	}
	return nil
}
