// Package token implements the JWT provider used by the authentication flow:
// minting of access and refresh tokens, strict validation, and lenient claim
// extraction.
//
// Access tokens are self-contained and never tracked server-side, so they
// cannot be revoked before expiry — logout and password changes do not cut
// short an already-issued access token. Keep the access TTL small.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

const minKeyBytes = 32

// Claims is the token payload: registered claims plus the member's role and
// nickname. Refresh tokens carry the subject only — the longer a credential
// lives, the less it should say.
type Claims struct {
	jwt.RegisteredClaims
	MemberID int64  `json:"member_id,omitempty"`
	Role     string `json:"role,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// Provider mints and verifies HS256-signed tokens. The key material is
// immutable after construction, so a single Provider is safe for concurrent
// use.
type Provider struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

// NewProvider builds a Provider from a base64-encoded symmetric secret.
// Secrets shorter than 256 bits are rejected.
func NewProvider(secretBase64 string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) (*Provider, error) {
	key, err := base64.StdEncoding.DecodeString(secretBase64)
	if err != nil {
		return nil, fmt.Errorf("token: decode secret: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("token: secret must be at least %d bytes, got %d", minKeyBytes, len(key))
	}
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 14 * 24 * time.Hour
	}
	return &Provider{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}, nil
}

// GenerateAccessToken mints a short-lived token carrying the member's email
// as subject plus role and nickname claims.
func (p *Provider) GenerateAccessToken(member *domain.Member) (string, error) {
	return p.sign(Claims{
		RegisteredClaims: p.registered(member.Email, p.accessTTL),
		MemberID:         member.ID,
		Role:             member.Role,
		Nickname:         member.Nickname,
	})
}

// GenerateRefreshToken mints a longer-lived, subject-only token.
func (p *Provider) GenerateRefreshToken(member *domain.Member) (string, error) {
	return p.sign(Claims{
		RegisteredClaims: p.registered(member.Email, p.refreshTTL),
	})
}

// Validate reports whether the token is presentable: well-formed, signed with
// our key, and unexpired. Every failure collapses to false so that callers
// never leak why a token was rejected; the reason is logged at debug level.
func (p *Provider) Validate(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, p.keyFunc)
	if err != nil || !parsed.Valid {
		p.log.Debug().Err(err).Msg("token validation failed")
		return false
	}
	return true
}

// ExtractClaims parses the token payload, tolerating expiry: an expired but
// correctly signed token still yields its claims. Any other failure (bad
// signature, malformed input) returns an error.
func (p *Provider) ExtractClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, p.keyFunc)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return nil, fmt.Errorf("token: parse claims: %w", err)
	}
	return claims, nil
}

// ExtractSubject returns the subject (member email) embedded in the token,
// even if the token has expired.
func (p *Provider) ExtractSubject(tokenString string) (string, error) {
	claims, err := p.ExtractClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim, tolerating expiry.
func (p *Provider) ExtractRole(tokenString string) (string, error) {
	claims, err := p.ExtractClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// ExtractMemberID returns the numeric member id claim, tolerating expiry.
// Refresh tokens carry no member id; zero means the claim was absent.
func (p *Provider) ExtractMemberID(tokenString string) (int64, error) {
	claims, err := p.ExtractClaims(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.MemberID, nil
}

// ExtractNickname returns the nickname claim, tolerating expiry.
func (p *Provider) ExtractNickname(tokenString string) (string, error) {
	claims, err := p.ExtractClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Nickname, nil
}

// RefreshTokenTTL exposes the configured refresh TTL so callers can compute
// absolute expiry timestamps for persisted records.
func (p *Provider) RefreshTokenTTL() time.Duration {
	return p.refreshTTL
}

func (p *Provider) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (p *Provider) sign(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

func (p *Provider) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return p.key, nil
}
