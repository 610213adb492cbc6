package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the exchange_rates table row. Bid and ask are stored
// alongside the mid rate so reads never recompute pricing.
type ExchangeRate struct {
	RateID     string          `db:"rate_id"` // Primary Key (UUID)
	BaseAsset  string          `db:"base_asset"`
	QuoteAsset string          `db:"quote_asset"`
	Rate       decimal.Decimal `db:"rate"`
	BidRate    decimal.Decimal `db:"bid_rate"`
	AskRate    decimal.Decimal `db:"ask_rate"`
	Spread     decimal.Decimal `db:"spread"`
	Source     string          `db:"source"`
	IsActive   bool            `db:"is_active"`
	ValidFrom  time.Time       `db:"valid_from"`
	ValidTo    *time.Time      `db:"valid_to"` // Nullable
	AuditFields
}
