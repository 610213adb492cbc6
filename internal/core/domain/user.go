package domain

import "time"

// UserRole separates operator accounts from end users.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents an account of the application in the domain. Every user
// carries a custodial ledger wallet; the seed never leaves the server.
type User struct {
	UserID        string   `json:"userID"` // Primary Key (UUID)
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	PasswordHash  string   `json:"-"`
	Role          UserRole `json:"role"`
	WalletAddress string   `json:"walletAddress"`
	WalletSeed    string   `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// IsAdmin reports whether the user holds the operator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Wallet returns the user's custodial wallet.
func (u User) Wallet() Wallet {
	return Wallet{Address: u.WalletAddress, Seed: u.WalletSeed}
}
