package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func newTestProvider(t *testing.T, accessTTL, refreshTTL time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(testSecret, accessTTL, refreshTTL, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func testMember() *domain.Member {
	return &domain.Member{
		ID:       1,
		Email:    "alice@example.com",
		Nickname: "alice",
		Role:     domain.RoleUser,
	}
}

func TestNewProvider_RejectsShortSecret(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	if _, err := NewProvider(short, time.Hour, time.Hour, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for short secret")
	}
}

func TestNewProvider_RejectsInvalidBase64(t *testing.T) {
	if _, err := NewProvider("not base64!!", time.Hour, time.Hour, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	p := newTestProvider(t, time.Hour, 24*time.Hour)
	m := testMember()

	signed, err := p.GenerateAccessToken(m)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !p.Validate(signed) {
		t.Fatalf("fresh access token should validate")
	}

	subject, err := p.ExtractSubject(signed)
	if err != nil {
		t.Fatalf("ExtractSubject: %v", err)
	}
	if subject != m.Email {
		t.Fatalf("subject = %q, want %q", subject, m.Email)
	}

	role, err := p.ExtractRole(signed)
	if err != nil || role != domain.RoleUser {
		t.Fatalf("role = %q (%v), want %q", role, err, domain.RoleUser)
	}

	nickname, err := p.ExtractNickname(signed)
	if err != nil || nickname != "alice" {
		t.Fatalf("nickname = %q (%v), want alice", nickname, err)
	}

	memberID, err := p.ExtractMemberID(signed)
	if err != nil || memberID != m.ID {
		t.Fatalf("member id = %d (%v), want %d", memberID, err, m.ID)
	}
}

func TestRefreshToken_SubjectOnly(t *testing.T) {
	p := newTestProvider(t, time.Hour, 24*time.Hour)

	signed, err := p.GenerateRefreshToken(testMember())
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := p.ExtractClaims(signed)
	if err != nil {
		t.Fatalf("ExtractClaims: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Role != "" || claims.Nickname != "" || claims.MemberID != 0 {
		t.Fatalf("refresh token should carry no auxiliary claims, got %+v", claims)
	}
}

func TestValidate_Garbage(t *testing.T) {
	p := newTestProvider(t, time.Hour, 24*time.Hour)

	if p.Validate("garbage-not-a-jwt") {
		t.Fatalf("garbage should not validate")
	}
	if p.Validate("") {
		t.Fatalf("empty string should not validate")
	}
}

func TestValidate_WrongKey(t *testing.T) {
	p := newTestProvider(t, time.Hour, 24*time.Hour)
	otherSecret := base64.StdEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff"))
	other, err := NewProvider(otherSecret, time.Hour, 24*time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	signed, err := other.GenerateAccessToken(testMember())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if p.Validate(signed) {
		t.Fatalf("token signed with a different key should not validate")
	}
	if _, err := p.ExtractSubject(signed); err == nil {
		t.Fatalf("claim extraction must reject a bad signature")
	}
}

func TestValidate_RejectsWrongAlgorithm(t *testing.T) {
	p := newTestProvider(t, time.Hour, 24*time.Hour)

	// alg=none with an empty signature must never pass.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice@example.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if p.Validate(unsigned) {
		t.Fatalf("unsigned token should not validate")
	}
}

func TestExpiredToken_StrictValidateLenientExtract(t *testing.T) {
	// Negative TTL yields an already-expired but correctly signed token.
	p := newTestProvider(t, -time.Minute, 24*time.Hour)
	m := testMember()

	signed, err := p.GenerateAccessToken(m)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if p.Validate(signed) {
		t.Fatalf("expired token should not validate")
	}

	// The same token still yields its claims.
	claims, err := p.ExtractClaims(signed)
	if err != nil {
		t.Fatalf("ExtractClaims on expired token: %v", err)
	}
	if claims.Subject != m.Email || claims.Role != m.Role {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestGeneratedTokensAreUnique(t *testing.T) {
	p := newTestProvider(t, time.Hour, 24*time.Hour)
	m := testMember()

	a, err := p.GenerateRefreshToken(m)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, err := p.GenerateRefreshToken(m)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens minted for the same member must differ")
	}
}

func TestRefreshTokenTTL(t *testing.T) {
	p := newTestProvider(t, time.Hour, 36*time.Hour)
	if got := p.RefreshTokenTTL(); got != 36*time.Hour {
		t.Fatalf("RefreshTokenTTL = %v", got)
	}
}
