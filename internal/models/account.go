package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account is the anonymous identity behind every post, comment, reaction and report.
// It is the single source of truth for ban and strike state.
type Account struct {
	ID        uuid.UUID `json:"id"`
	AnonID    string    `json:"-"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Moderation state
	IsBanned     bool       `json:"is_banned"`
	BanExpiresAt *time.Time `json:"ban_expires_at,omitempty"`
	IsReadOnly   bool       `json:"is_read_only"`
	StrikeCount  int        `json:"strike_count"`
}

// IsAdmin reports whether the account may use the admin surface.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TemporarilyBannedAt reports whether a temporary ban is still running at now.
// A nil or past expiry never blocks.
func (a *Account) TemporarilyBannedAt(now time.Time) bool {
	return a.BanExpiresAt != nil && a.BanExpiresAt.After(now)
}

// AdminCredential is the password login attached to an admin account.
type AdminCredential struct {
	AccountID    uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
