package models

import "time"

// User is the users table row. The wallet seed is custodial material and
// must never leave the repository layer except inside a domain.User.
type User struct {
	UserID        string `db:"user_id"` // Primary Key (UUID)
	Email         string `db:"email"`
	Name          string `db:"name"`
	PasswordHash  string `db:"password_hash"`
	Role          string `db:"role"`
	WalletAddress string `db:"wallet_address"`
	WalletSeed    string `db:"wallet_seed"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Soft delete marker
}
