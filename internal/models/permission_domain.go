package models

import "time"

// PermissionDomain is the permission_domains table row. Member lists live
// in their own tables keyed by domain_id.
type PermissionDomain struct {
	DomainID     string `db:"domain_id"` // Primary Key (UUID)
	Name         string `db:"name"`
	DomainType   string `db:"domain_type"`
	RequireKYC   bool   `db:"require_kyc"`
	AutoApproval bool   `db:"auto_approval"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// WhitelistEntry is the domain_whitelist_entries table row.
type WhitelistEntry struct {
	DomainID  string    `db:"domain_id"`
	Address   string    `db:"address"`
	KYCStatus string    `db:"kyc_status"`
	Note      string    `db:"note"`
	AddedAt   time.Time `db:"added_at"`
	AddedBy   string    `db:"added_by"`
}

// BlacklistEntry is the domain_blacklist_entries table row.
type BlacklistEntry struct {
	DomainID string    `db:"domain_id"`
	Address  string    `db:"address"`
	Reason   string    `db:"reason"`
	AddedAt  time.Time `db:"added_at"`
	AddedBy  string    `db:"added_by"`
}
