package ports

import (
	"context"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

// RefreshTokenRepository defines the interface for refresh-token persistence.
type RefreshTokenRepository interface {
	Save(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	FindByMemberAndToken(ctx context.Context, memberID int64, token string) (*domain.RefreshToken, error)

	// Revoke flips the record's revoked flag, but only if it is still false.
	// It returns true when this call performed the transition and false when
	// the record was already revoked. Revoking twice is not an error — the
	// second call simply reports false, which is how the refresh flow detects
	// token reuse without a separate read-check-write window.
	Revoke(ctx context.Context, token string) (bool, error)

	// DeleteByMember removes every refresh-token record owned by the member.
	DeleteByMember(ctx context.Context, memberID int64) error
}
