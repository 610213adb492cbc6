package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/models"
)

// ToModelFeeConfig converts a domain FeeConfig to a model FeeConfig. The
// tier schedule is serialized to JSON for the JSONB column.
func ToModelFeeConfig(d domain.FeeConfig) (models.FeeConfig, error) {
	m := models.FeeConfig{
		FeeConfigID: d.FeeConfigID,
		SwapType:    string(d.SwapType),
		FeeType:     string(d.FeeType),
		BaseFee:     d.BaseFee,
		MinFee:      d.MinFee,
		MaxFee:      d.MaxFee,
		Description: d.Description,
		IsActive:    d.IsActive,
		ValidFrom:   d.ValidFrom,
		ValidTo:     d.ValidTo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if len(d.TieredRates) > 0 {
		tiers, err := json.Marshal(d.TieredRates)
		if err != nil {
			return models.FeeConfig{}, fmt.Errorf("failed to marshal fee tiers: %w", err)
		}
		m.TieredRates = tiers
	}
	return m, nil
}

// ToDomainFeeConfig converts a model FeeConfig to a domain FeeConfig.
func ToDomainFeeConfig(m models.FeeConfig) (domain.FeeConfig, error) {
	d := domain.FeeConfig{
		FeeConfigID: m.FeeConfigID,
		SwapType:    domain.SwapType(m.SwapType),
		FeeType:     domain.FeeType(m.FeeType),
		BaseFee:     m.BaseFee,
		MinFee:      m.MinFee,
		MaxFee:      m.MaxFee,
		Description: m.Description,
		IsActive:    m.IsActive,
		ValidFrom:   m.ValidFrom,
		ValidTo:     m.ValidTo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if len(m.TieredRates) > 0 {
		if err := json.Unmarshal(m.TieredRates, &d.TieredRates); err != nil {
			return domain.FeeConfig{}, fmt.Errorf("failed to unmarshal fee tiers: %w", err)
		}
	}
	return d, nil
}
