package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	"github.com/2025XRRPKOREA/api-server/internal/models"
	"github.com/2025XRRPKOREA/api-server/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feeConfigColumns = `fee_config_id, swap_type, fee_type, base_fee, min_fee, max_fee, tiered_rates,
		description, is_active, valid_from, valid_to, created_at, created_by, last_updated_at, last_updated_by`

// PgxFeeRepository implements the fee repository ports using pgxpool.
type PgxFeeRepository struct {
	BaseRepository
}

func newPgxFeeRepository(db *pgxpool.Pool) portsrepo.FeeRepositoryWithTx {
	return &PgxFeeRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxFeeRepository implements portsrepo.FeeRepositoryWithTx
var _ portsrepo.FeeRepositoryWithTx = (*PgxFeeRepository)(nil)

func scanFeeConfig(row pgx.Row) (models.FeeConfig, error) {
	var m models.FeeConfig
	err := row.Scan(
		&m.FeeConfigID, &m.SwapType, &m.FeeType, &m.BaseFee, &m.MinFee, &m.MaxFee,
		&m.TieredRates, &m.Description, &m.IsActive, &m.ValidFrom, &m.ValidTo,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindActiveFeeConfig retrieves the effective fee config for a swap type at
// the given instant, newest validFrom winning ties.
func (r *PgxFeeRepository) FindActiveFeeConfig(ctx context.Context, swapType domain.SwapType, at time.Time) (*domain.FeeConfig, error) {
	query := `
		SELECT ` + feeConfigColumns + `
		FROM fee_configs
		WHERE swap_type = $1
		  AND is_active = TRUE
		  AND valid_from <= $2
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from DESC
		LIMIT 1;
	`

	m, err := scanFeeConfig(r.Pool.QueryRow(ctx, query, string(swapType), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no active fee config for swap type " + string(swapType))
		}
		return nil, apperrors.NewAppError(500, "failed to find active fee config", err)
	}

	cfg, err := mapping.ToDomainFeeConfig(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode fee config", err)
	}
	return &cfg, nil
}

// FindFeeConfigByID retrieves a fee config by its ID.
func (r *PgxFeeRepository) FindFeeConfigByID(ctx context.Context, feeConfigID string) (*domain.FeeConfig, error) {
	query := `
		SELECT ` + feeConfigColumns + `
		FROM fee_configs
		WHERE fee_config_id = $1;
	`

	m, err := scanFeeConfig(r.Pool.QueryRow(ctx, query, feeConfigID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("fee config with ID " + feeConfigID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get fee config by ID", err)
	}

	cfg, err := mapping.ToDomainFeeConfig(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode fee config", err)
	}
	return &cfg, nil
}

// FindFeeConfigs retrieves fee configs, optionally narrowed to one swap
// type, newest first.
func (r *PgxFeeRepository) FindFeeConfigs(ctx context.Context, swapType *domain.SwapType, limit, offset int) ([]domain.FeeConfig, error) {
	query := `SELECT ` + feeConfigColumns + ` FROM fee_configs`
	args := []any{}
	argNum := 1

	if swapType != nil {
		query += fmt.Sprintf(" WHERE swap_type = $%d", argNum)
		args = append(args, string(*swapType))
		argNum++
	}
	query += fmt.Sprintf(" ORDER BY valid_from DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list fee configs", err)
	}
	defer rows.Close()

	var configs []domain.FeeConfig
	for rows.Next() {
		m, err := scanFeeConfig(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fee config", err)
		}
		cfg, err := mapping.ToDomainFeeConfig(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode fee config", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fee configs", err)
	}

	return configs, nil
}

// ActivateFeeConfig retires the currently active config for the swap type
// and inserts the new one inside one transaction.
func (r *PgxFeeRepository) ActivateFeeConfig(ctx context.Context, config domain.FeeConfig) error {
	m, err := mapping.ToModelFeeConfig(config)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode fee config", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		UPDATE fee_configs
		SET is_active = FALSE,
		    valid_to = COALESCE(valid_to, $2),
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE swap_type = $1 AND is_active = TRUE`,
		m.SwapType, m.ValidFrom, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to retire active fee configs", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO fee_configs (
			fee_config_id, swap_type, fee_type, base_fee, min_fee, max_fee, tiered_rates,
			description, is_active, valid_from, valid_to, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.FeeConfigID, m.SwapType, m.FeeType, m.BaseFee, m.MinFee, m.MaxFee, m.TieredRates,
		m.Description, m.IsActive, m.ValidFrom, m.ValidTo, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert fee config", err)
	}

	return r.Commit(ctx, tx)
}

// DeactivateFeeConfigs retires all active configs for a swap type.
func (r *PgxFeeRepository) DeactivateFeeConfigs(ctx context.Context, swapType domain.SwapType, deactivatedBy string, at time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fee_configs
		SET is_active = FALSE,
		    valid_to = COALESCE(valid_to, $2),
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE swap_type = $1 AND is_active = TRUE`,
		string(swapType), at, deactivatedBy,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to deactivate fee configs", err)
	}
	return tag.RowsAffected(), nil
}
