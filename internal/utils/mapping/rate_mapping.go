package mapping

import (
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		RateID:      d.RateID,
		BaseAsset:   d.BaseAsset,
		QuoteAsset:  d.QuoteAsset,
		Rate:        d.Rate,
		BidRate:     d.BidRate,
		AskRate:     d.AskRate,
		Spread:      d.Spread,
		Source:      d.Source,
		IsActive:    d.IsActive,
		ValidFrom:   d.ValidFrom,
		ValidTo:     d.ValidTo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		RateID:      m.RateID,
		BaseAsset:   m.BaseAsset,
		QuoteAsset:  m.QuoteAsset,
		Rate:        m.Rate,
		BidRate:     m.BidRate,
		AskRate:     m.AskRate,
		Spread:      m.Spread,
		Source:      m.Source,
		IsActive:    m.IsActive,
		ValidFrom:   m.ValidFrom,
		ValidTo:     m.ValidTo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
