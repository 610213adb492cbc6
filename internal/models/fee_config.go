package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeConfig is the fee_configs table row. TieredRates carries the tier
// schedule as JSONB; the mapping layer owns the encoding.
type FeeConfig struct {
	FeeConfigID string           `db:"fee_config_id"` // Primary Key (UUID)
	SwapType    string           `db:"swap_type"`
	FeeType     string           `db:"fee_type"`
	BaseFee     decimal.Decimal  `db:"base_fee"`
	MinFee      decimal.Decimal  `db:"min_fee"`
	MaxFee      *decimal.Decimal `db:"max_fee"` // Nullable
	TieredRates []byte           `db:"tiered_rates"` // JSONB, nullable
	Description string           `db:"description"`
	IsActive    bool             `db:"is_active"`
	ValidFrom   time.Time        `db:"valid_from"`
	ValidTo     *time.Time       `db:"valid_to"` // Nullable
	AuditFields
}
