package mapping

import (
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/models"
)

// ToModelPermissionDomain converts a domain PermissionDomain to its model.
// Member lists are mapped separately because they live in their own tables.
func ToModelPermissionDomain(d domain.PermissionDomain) models.PermissionDomain {
	return models.PermissionDomain{
		DomainID:     d.DomainID,
		Name:         d.Name,
		DomainType:   string(d.DomainType),
		RequireKYC:   d.Settings.RequireKYC,
		AutoApproval: d.Settings.AutoApproval,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPermissionDomain converts a model PermissionDomain to its domain
// form, without member lists.
func ToDomainPermissionDomain(m models.PermissionDomain) domain.PermissionDomain {
	return domain.PermissionDomain{
		DomainID:   m.DomainID,
		Name:       m.Name,
		DomainType: domain.DomainType(m.DomainType),
		Settings: domain.DomainSettings{
			RequireKYC:   m.RequireKYC,
			AutoApproval: m.AutoApproval,
		},
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelWhitelistEntry converts a domain WhitelistEntry for a domain ID.
func ToModelWhitelistEntry(domainID string, d domain.WhitelistEntry) models.WhitelistEntry {
	return models.WhitelistEntry{
		DomainID:  domainID,
		Address:   d.Address,
		KYCStatus: string(d.KYCStatus),
		Note:      d.Note,
		AddedAt:   d.AddedAt,
		AddedBy:   d.AddedBy,
	}
}

// ToDomainWhitelistEntry converts a model WhitelistEntry to its domain form.
func ToDomainWhitelistEntry(m models.WhitelistEntry) domain.WhitelistEntry {
	return domain.WhitelistEntry{
		Address:   m.Address,
		KYCStatus: domain.KYCStatus(m.KYCStatus),
		Note:      m.Note,
		AddedAt:   m.AddedAt,
		AddedBy:   m.AddedBy,
	}
}

// ToModelBlacklistEntry converts a domain BlacklistEntry for a domain ID.
func ToModelBlacklistEntry(domainID string, d domain.BlacklistEntry) models.BlacklistEntry {
	return models.BlacklistEntry{
		DomainID: domainID,
		Address:  d.Address,
		Reason:   d.Reason,
		AddedAt:  d.AddedAt,
		AddedBy:  d.AddedBy,
	}
}

// ToDomainBlacklistEntry converts a model BlacklistEntry to its domain form.
func ToDomainBlacklistEntry(m models.BlacklistEntry) domain.BlacklistEntry {
	return domain.BlacklistEntry{
		Address: m.Address,
		Reason:  m.Reason,
		AddedAt: m.AddedAt,
		AddedBy: m.AddedBy,
	}
}
