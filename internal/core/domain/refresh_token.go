package domain

import "time"

// RefreshToken is the server-side record of an issued refresh token.
//
// The token string itself is a signed JWT handed to the client; this record
// tracks its lifecycle so that each token can be used exactly once. Revocation
// is one-way: once Revoked flips to true it never flips back.
type RefreshToken struct {
	ID        string    `json:"id"`
	MemberID  int64     `json:"member_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the record is still usable for a refresh: not yet
// revoked and not past its expiry.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
