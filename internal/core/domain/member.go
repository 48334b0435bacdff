package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PasswordMaxAge is the fixed credential-expiry policy: passwords older than
// this are flagged as expired in member summaries.
const PasswordMaxAge = 180 * 24 * time.Hour

// Member models an authenticated account in the marketplace.
type Member struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Nickname          string    `json:"nickname"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	PasswordChangedAt time.Time `json:"password_changed_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PasswordExpired reports whether the member's password is older than the
// PasswordMaxAge policy at the given instant.
func (m *Member) PasswordExpired(now time.Time) bool {
	if m.PasswordChangedAt.IsZero() {
		return false
	}
	return now.Sub(m.PasswordChangedAt) > PasswordMaxAge
}
