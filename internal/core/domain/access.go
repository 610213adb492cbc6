package domain

import (
	"fmt"
	"time"
)

// DomainType selects the gating policy a permission domain enforces.
type DomainType string

const (
	// DomainWhitelist allows only addresses present on the whitelist.
	DomainWhitelist DomainType = "whitelist"
	// DomainBlacklist allows every address not present on the blacklist.
	DomainBlacklist DomainType = "blacklist"
	// DomainKYCRequired allows only whitelisted addresses whose KYC status
	// is verified.
	DomainKYCRequired DomainType = "kyc_required"
)

// ParseDomainType validates a domain type string.
func ParseDomainType(s string) (DomainType, error) {
	switch DomainType(s) {
	case DomainWhitelist, DomainBlacklist, DomainKYCRequired:
		return DomainType(s), nil
	default:
		return "", fmt.Errorf("unknown domain type %q", s)
	}
}

// KYCStatus tracks the verification state of a whitelisted address.
type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCVerified KYCStatus = "VERIFIED"
	KYCRejected KYCStatus = "REJECTED"
)

// ParseKYCStatus validates a KYC status string.
func ParseKYCStatus(s string) (KYCStatus, error) {
	switch KYCStatus(s) {
	case KYCPending, KYCVerified, KYCRejected:
		return KYCStatus(s), nil
	default:
		return "", fmt.Errorf("unknown KYC status %q", s)
	}
}

// DomainSettings carries the tunable behavior of a permission domain.
type DomainSettings struct {
	// RequireKYC upgrades a whitelist domain to also demand verified KYC.
	RequireKYC bool `json:"requireKyc"`
	// AutoApproval whitelists an address automatically when the ledger
	// reports a new trust line toward the issuer.
	AutoApproval bool `json:"autoApproval"`
}

// WhitelistEntry is one address admitted to a permission domain.
type WhitelistEntry struct {
	Address   string    `json:"address"`
	KYCStatus KYCStatus `json:"kycStatus"`
	Note      string    `json:"note,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
	AddedBy   string    `json:"addedBy"`
}

// BlacklistEntry is one address barred from a permission domain.
type BlacklistEntry struct {
	Address string    `json:"address"`
	Reason  string    `json:"reason,omitempty"`
	AddedAt time.Time `json:"addedAt"`
	AddedBy string    `json:"addedBy"`
}

// PermissionDomain is the aggregate controlling who may hold or trade the
// issued token. At most one domain is active at a time; evaluation against
// the active domain happens in memory after the aggregate is loaded.
type PermissionDomain struct {
	DomainID   string           `json:"domainId"`
	Name       string           `json:"name"`
	DomainType DomainType       `json:"domainType"`
	Settings   DomainSettings   `json:"settings"`
	Whitelist  []WhitelistEntry `json:"whitelist"`
	Blacklist  []BlacklistEntry `json:"blacklist"`
	IsActive   bool             `json:"isActive"`
	AuditFields
}

// PermissionDecision is the outcome of evaluating an address against a
// permission domain.
type PermissionDecision struct {
	Allowed    bool       `json:"allowed"`
	Reason     string     `json:"reason"`
	DomainType DomainType `json:"domainType,omitempty"`
}

// FindWhitelistEntry returns the whitelist entry for address, or nil.
func (d *PermissionDomain) FindWhitelistEntry(address string) *WhitelistEntry {
	for i := range d.Whitelist {
		if d.Whitelist[i].Address == address {
			return &d.Whitelist[i]
		}
	}
	return nil
}

// FindBlacklistEntry returns the blacklist entry for address, or nil.
func (d *PermissionDomain) FindBlacklistEntry(address string) *BlacklistEntry {
	for i := range d.Blacklist {
		if d.Blacklist[i].Address == address {
			return &d.Blacklist[i]
		}
	}
	return nil
}

// Evaluate decides whether address may hold or trade the issued token under
// this domain's rules. The blacklist is consulted first for every policy, so
// an address on both lists is denied.
func (d *PermissionDomain) Evaluate(address string) PermissionDecision {
	if entry := d.FindBlacklistEntry(address); entry != nil {
		reason := "address is blacklisted"
		if entry.Reason != "" {
			reason = fmt.Sprintf("address is blacklisted: %s", entry.Reason)
		}
		return PermissionDecision{Allowed: false, Reason: reason, DomainType: d.DomainType}
	}

	switch d.DomainType {
	case DomainBlacklist:
		return PermissionDecision{Allowed: true, Reason: "address is not blacklisted", DomainType: d.DomainType}
	case DomainWhitelist:
		entry := d.FindWhitelistEntry(address)
		if entry == nil {
			return PermissionDecision{Allowed: false, Reason: "address is not whitelisted", DomainType: d.DomainType}
		}
		if d.Settings.RequireKYC && entry.KYCStatus != KYCVerified {
			return PermissionDecision{Allowed: false, Reason: "KYC verification required", DomainType: d.DomainType}
		}
		return PermissionDecision{Allowed: true, Reason: "address is whitelisted", DomainType: d.DomainType}
	case DomainKYCRequired:
		entry := d.FindWhitelistEntry(address)
		if entry == nil {
			return PermissionDecision{Allowed: false, Reason: "address is not whitelisted", DomainType: d.DomainType}
		}
		if entry.KYCStatus != KYCVerified {
			return PermissionDecision{Allowed: false, Reason: "KYC verification required", DomainType: d.DomainType}
		}
		return PermissionDecision{Allowed: true, Reason: "KYC verified", DomainType: d.DomainType}
	default:
		// Unknown policy behaves like no policy at all.
		return PermissionDecision{Allowed: true, Reason: "no enforceable policy", DomainType: d.DomainType}
	}
}
