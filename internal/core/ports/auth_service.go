package ports

import (
	"context"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

// TokenPair is the access/refresh credential pair returned by login and
// refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MemberSummary is the caller-facing view of a member, returned alongside
// freshly minted tokens.
type MemberSummary struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	Role            string `json:"role"`
	PasswordExpired bool   `json:"password_expired"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*domain.Member, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *MemberSummary, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *MemberSummary, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, email, currentPassword, newPassword, confirmPassword string) error

	// Unfinished flows carried over as deliberate stubs; both return
	// domain.ErrNotImplemented.
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
}
