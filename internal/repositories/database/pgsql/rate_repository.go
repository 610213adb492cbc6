package pgsql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	"github.com/2025XRRPKOREA/api-server/internal/models"
	"github.com/2025XRRPKOREA/api-server/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rateColumns = `rate_id, base_asset, quote_asset, rate, bid_rate, ask_rate, spread, source,
		is_active, valid_from, valid_to, created_at, created_by, last_updated_at, last_updated_by`

// PgxRateRepository implements the rate repository ports using pgxpool.
type PgxRateRepository struct {
	BaseRepository
}

func newPgxRateRepository(db *pgxpool.Pool) portsrepo.RateRepositoryWithTx {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxRateRepository implements portsrepo.RateRepositoryWithTx
var _ portsrepo.RateRepositoryWithTx = (*PgxRateRepository)(nil)

func scanRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.RateID, &m.BaseAsset, &m.QuoteAsset, &m.Rate, &m.BidRate, &m.AskRate,
		&m.Spread, &m.Source, &m.IsActive, &m.ValidFrom, &m.ValidTo,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindCurrentRate retrieves the effective rate for a pair at the given
// instant. When several records qualify the newest validFrom wins.
func (r *PgxRateRepository) FindCurrentRate(ctx context.Context, baseAsset, quoteAsset string, at time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE base_asset = $1 AND quote_asset = $2
		  AND is_active = TRUE
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $3)
		ORDER BY valid_from DESC
		LIMIT 1;
	`

	m, err := scanRate(r.Pool.QueryRow(ctx, query, strings.ToUpper(baseAsset), strings.ToUpper(quoteAsset), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no current rate for " + baseAsset + "/" + quoteAsset)
		}
		return nil, apperrors.NewAppError(500, "failed to find current rate", err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// FindRateByID retrieves a rate record by its ID.
func (r *PgxRateRepository) FindRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE rate_id = $1;
	`

	m, err := scanRate(r.Pool.QueryRow(ctx, query, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("rate with ID " + rateID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get rate by ID", err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// FindRateHistory retrieves rate records for a pair, newest first.
func (r *PgxRateRepository) FindRateHistory(ctx context.Context, baseAsset, quoteAsset string, limit, offset int) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE base_asset = $1 AND quote_asset = $2
		ORDER BY valid_from DESC
		LIMIT $3 OFFSET $4;
	`

	rows, err := r.Pool.Query(ctx, query, strings.ToUpper(baseAsset), strings.ToUpper(quoteAsset), limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rate history", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		m, err := scanRate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rate", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating rates", err)
	}

	return rates, nil
}

// ReplaceActiveRate deactivates every active rate for the pair and inserts
// the new record inside one transaction. Readers therefore always observe
// exactly one active rate per pair, never zero and never two.
func (r *PgxRateRepository) ReplaceActiveRate(ctx context.Context, rate domain.ExchangeRate) error {
	baseAsset := strings.ToUpper(rate.BaseAsset)
	quoteAsset := strings.ToUpper(rate.QuoteAsset)
	if baseAsset == quoteAsset {
		return apperrors.NewValidationError("base and quote assets cannot be the same")
	}

	m := mapping.ToModelExchangeRate(rate)
	m.BaseAsset = baseAsset
	m.QuoteAsset = quoteAsset

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		UPDATE exchange_rates
		SET is_active = FALSE,
		    valid_to = COALESCE(valid_to, $3),
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE base_asset = $1 AND quote_asset = $2 AND is_active = TRUE`,
		baseAsset, quoteAsset, m.ValidFrom, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to retire active rates", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO exchange_rates (
			rate_id, base_asset, quote_asset, rate, bid_rate, ask_rate, spread, source,
			is_active, valid_from, valid_to, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.RateID, m.BaseAsset, m.QuoteAsset, m.Rate, m.BidRate, m.AskRate, m.Spread, m.Source,
		m.IsActive, m.ValidFrom, m.ValidTo, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert rate", err)
	}

	return r.Commit(ctx, tx)
}

// DeactivateRates retires all active rates for a pair and reports how many
// records were touched.
func (r *PgxRateRepository) DeactivateRates(ctx context.Context, baseAsset, quoteAsset string, deactivatedBy string, at time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE exchange_rates
		SET is_active = FALSE,
		    valid_to = COALESCE(valid_to, $3),
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE base_asset = $1 AND quote_asset = $2 AND is_active = TRUE`,
		strings.ToUpper(baseAsset), strings.ToUpper(quoteAsset), at, deactivatedBy,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to deactivate rates", err)
	}
	return tag.RowsAffected(), nil
}
