package ports

import (
	"time"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

// TokenProvider mints and verifies the signed bearer tokens used by the
// authentication flow.
//
// Validate and ExtractSubject are deliberately asymmetric: Validate is strict
// (any failure, including expiry, yields false) because it gates whether a
// token may be presented at all, while ExtractSubject tolerates expiry so the
// flow can still read the subject out of an expired token.
type TokenProvider interface {
	GenerateAccessToken(member *domain.Member) (string, error)
	GenerateRefreshToken(member *domain.Member) (string, error)
	Validate(token string) bool
	ExtractSubject(token string) (string, error)
	RefreshTokenTTL() time.Duration
}
