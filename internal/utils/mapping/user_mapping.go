package mapping

import (
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:        d.UserID,
		Email:         d.Email,
		Name:          d.Name,
		PasswordHash:  d.PasswordHash,
		Role:          string(d.Role),
		WalletAddress: d.WalletAddress,
		WalletSeed:    d.WalletSeed,
		AuditFields:   ToModelAuditFields(d.AuditFields),
		DeletedAt:     d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:        m.UserID,
		Email:         m.Email,
		Name:          m.Name,
		PasswordHash:  m.PasswordHash,
		Role:          domain.UserRole(m.Role),
		WalletAddress: m.WalletAddress,
		WalletSeed:    m.WalletSeed,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
		DeletedAt:     m.DeletedAt,
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
