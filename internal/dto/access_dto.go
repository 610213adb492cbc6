package dto

import (
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
)

// CreateDomainRequest defines the structure for creating a permission domain.
type CreateDomainRequest struct {
	Name         string `json:"name" binding:"required"`
	DomainType   string `json:"domainType" binding:"required,oneof=whitelist blacklist kyc_required"`
	RequireKYC   bool   `json:"requireKyc"`
	AutoApproval bool   `json:"autoApproval"`
}

// UpdateDomainSettingsRequest changes the behavior flags of a domain. Nil
// fields keep their current value.
type UpdateDomainSettingsRequest struct {
	RequireKYC   *bool `json:"requireKyc,omitempty"`
	AutoApproval *bool `json:"autoApproval,omitempty"`
}

// AddWhitelistRequest admits an address to the active domain's whitelist.
type AddWhitelistRequest struct {
	Address   string `json:"address" binding:"required"`
	KYCStatus string `json:"kycStatus,omitempty" binding:"omitempty,oneof=PENDING VERIFIED REJECTED"`
	Note      string `json:"note,omitempty"`
}

// UpdateKYCRequest changes the KYC status of a whitelisted address. The
// address itself travels in the URL path.
type UpdateKYCRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING VERIFIED REJECTED"`
}

// AddBlacklistRequest bars an address on the active domain's blacklist.
type AddBlacklistRequest struct {
	Address string `json:"address" binding:"required"`
	Reason  string `json:"reason,omitempty"`
}

// TrustLineCreatedRequest reports a newly observed trust line toward the
// issuer.
type TrustLineCreatedRequest struct {
	Address string `json:"address" binding:"required"`
}

// ListDomainsParams defines query parameters for listing domains.
type ListDomainsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// WhitelistEntryResponse is one whitelisted address in API responses.
type WhitelistEntryResponse struct {
	Address   string    `json:"address"`
	KYCStatus string    `json:"kycStatus"`
	Note      string    `json:"note,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
	AddedBy   string    `json:"addedBy"`
}

// BlacklistEntryResponse is one blacklisted address in API responses.
type BlacklistEntryResponse struct {
	Address string    `json:"address"`
	Reason  string    `json:"reason,omitempty"`
	AddedAt time.Time `json:"addedAt"`
	AddedBy string    `json:"addedBy"`
}

// DomainResponse defines the structure for API responses containing a
// permission domain. Member lists are included only where the service
// loaded them.
type DomainResponse struct {
	DomainID     string                   `json:"domainID"`
	Name         string                   `json:"name"`
	DomainType   string                   `json:"domainType"`
	RequireKYC   bool                     `json:"requireKyc"`
	AutoApproval bool                     `json:"autoApproval"`
	IsActive     bool                     `json:"isActive"`
	Whitelist    []WhitelistEntryResponse `json:"whitelist,omitempty"`
	Blacklist    []BlacklistEntryResponse `json:"blacklist,omitempty"`
	CreatedAt    time.Time                `json:"createdAt"`
	CreatedBy    string                   `json:"createdBy"`
}

// ToDomainResponse converts a domain.PermissionDomain to DomainResponse DTO
func ToDomainResponse(dom *domain.PermissionDomain) DomainResponse {
	resp := DomainResponse{
		DomainID:     dom.DomainID,
		Name:         dom.Name,
		DomainType:   string(dom.DomainType),
		RequireKYC:   dom.Settings.RequireKYC,
		AutoApproval: dom.Settings.AutoApproval,
		IsActive:     dom.IsActive,
		CreatedAt:    dom.CreatedAt,
		CreatedBy:    dom.CreatedBy,
	}
	for _, e := range dom.Whitelist {
		resp.Whitelist = append(resp.Whitelist, WhitelistEntryResponse{
			Address:   e.Address,
			KYCStatus: string(e.KYCStatus),
			Note:      e.Note,
			AddedAt:   e.AddedAt,
			AddedBy:   e.AddedBy,
		})
	}
	for _, e := range dom.Blacklist {
		resp.Blacklist = append(resp.Blacklist, BlacklistEntryResponse{
			Address: e.Address,
			Reason:  e.Reason,
			AddedAt: e.AddedAt,
			AddedBy: e.AddedBy,
		})
	}
	return resp
}

// ToListDomainResponse converts a slice of domains to DTOs.
func ToListDomainResponse(domains []domain.PermissionDomain) []DomainResponse {
	responses := make([]DomainResponse, len(domains))
	for i := range domains {
		responses[i] = ToDomainResponse(&domains[i])
	}
	return responses
}

// PermissionCheckResponse reports the gate's decision for one address.
type PermissionCheckResponse struct {
	Address    string `json:"address"`
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason"`
	DomainType string `json:"domainType,omitempty"`
}

// ToPermissionCheckResponse converts a decision to its DTO.
func ToPermissionCheckResponse(address string, d *domain.PermissionDecision) PermissionCheckResponse {
	return PermissionCheckResponse{
		Address:    address,
		Allowed:    d.Allowed,
		Reason:     d.Reason,
		DomainType: string(d.DomainType),
	}
}
