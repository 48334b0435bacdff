package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/craftmarket/auth-api/internal/core/domain"
	"github.com/craftmarket/auth-api/internal/core/ports"
)

// AuthService implements registration, login, refresh-token rotation,
// logout, and password changes.
//
// Refresh tokens are single-use: every successful refresh revokes its input
// before minting a replacement, so a leaked refresh token is good for at most
// one rotation. Revocation is a conditional update at the store level, which
// also closes the window where two concurrent refreshes could both rotate the
// same token.
type AuthService struct {
	members  ports.MemberRepository
	tokens   ports.RefreshTokenRepository
	provider ports.TokenProvider
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(
	members ports.MemberRepository,
	tokens ports.RefreshTokenRepository,
	provider ports.TokenProvider,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		members:  members,
		tokens:   tokens,
		provider: provider,
		throttle: throttle,
		log:      log,
	}
}

// Register creates a new member account with the default user role.
func (s *AuthService) Register(ctx context.Context, email, password, nickname string) (*domain.Member, error) {
	if email == "" || password == "" || nickname == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if taken, err := s.members.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrMemberExists
	}
	if taken, err := s.members.ExistsByNickname(ctx, nickname); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrMemberExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.Member{
		Email:             email,
		Nickname:          nickname,
		PasswordHash:      string(hash),
		Role:              domain.RoleUser,
		PasswordChangedAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.members.Create(ctx, member)
}

// Login verifies the credentials and issues a fresh access/refresh pair.
// Unknown email and wrong password both surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *ports.MemberSummary, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if blocked, err := s.throttle.TooManyAttempts(ctx, email); err != nil {
		return nil, nil, err
	} else if blocked {
		return nil, nil, domain.ErrTooManyAttempts
	}

	member, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			s.recordFailure(ctx, email)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("throttle reset failed")
	}

	pair, err := s.issueTokens(ctx, member)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Int64("member_id", member.ID).Msg("member logged in")
	return pair, summarize(member), nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// access/refresh pair is issued. A token that was already rotated is rejected
// with ErrRefreshTokenReused.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, *ports.MemberSummary, error) {
	if !s.provider.Validate(refreshToken) {
		return nil, nil, domain.ErrInvalidRefreshToken
	}

	email, err := s.provider.ExtractSubject(refreshToken)
	if err != nil {
		return nil, nil, domain.ErrInvalidRefreshToken
	}

	member, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, nil, domain.ErrMemberNotFound
		}
		return nil, nil, err
	}

	// The token verifies cryptographically, but it must also match a record
	// we issued: a deleted or never-stored token is rejected here.
	record, err := s.tokens.FindByMemberAndToken(ctx, member.ID, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	// Conditional revoke. Losing the update means another call (or an
	// attacker replaying the token) already rotated it.
	revoked, err := s.tokens.Revoke(ctx, record.Token)
	if err != nil {
		return nil, nil, err
	}
	if !revoked {
		s.log.Warn().Int64("member_id", member.ID).Msg("revoked refresh token presented again")
		return nil, nil, domain.ErrRefreshTokenReused
	}

	pair, err := s.issueTokens(ctx, member)
	if err != nil {
		return nil, nil, err
	}

	s.log.Debug().Int64("member_id", member.ID).Msg("refresh token rotated")
	return pair, summarize(member), nil
}

// Logout revokes the presented refresh token and then deletes every
// refresh-token record owned by the same member, logging the account out
// everywhere. The bulk delete runs even when the presented token was already
// revoked.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if !s.provider.Validate(refreshToken) {
		return domain.ErrInvalidRefreshToken
	}

	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if _, err := s.tokens.Revoke(ctx, record.Token); err != nil {
		return err
	}

	if err := s.tokens.DeleteByMember(ctx, record.MemberID); err != nil {
		return err
	}

	s.log.Info().Int64("member_id", record.MemberID).Msg("member logged out")
	return nil
}

// ChangePassword verifies the current password, then the confirmation, in
// that order, and persists a freshly hashed password with a new
// password-changed-at timestamp.
func (s *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword, confirmPassword string) error {
	member, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidPassword
	}
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.members.UpdatePassword(ctx, member.ID, string(hash), time.Now().UTC())
}

// RequestPasswordReset is an unfinished flow carried over from the original
// service.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return domain.ErrNotImplemented
}

// VerifyEmail is an unfinished flow carried over from the original service.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	return domain.ErrNotImplemented
}

// issueTokens mints an access/refresh pair and persists the refresh record.
func (s *AuthService) issueTokens(ctx context.Context, member *domain.Member) (*ports.TokenPair, error) {
	accessToken, err := s.provider.GenerateAccessToken(member)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.provider.GenerateRefreshToken(member)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.tokens.Save(ctx, &domain.RefreshToken{
		MemberID:  member.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(s.provider.RefreshTokenTTL()),
		Revoked:   false,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return &ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("throttle record failed")
	}
}

func summarize(member *domain.Member) *ports.MemberSummary {
	return &ports.MemberSummary{
		ID:              member.ID,
		Email:           member.Email,
		Nickname:        member.Nickname,
		Role:            member.Role,
		PasswordExpired: member.PasswordExpired(time.Now().UTC()),
	}
}
