package ports

import (
	"context"
	"time"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

// MemberRepository defines the interface for member account persistence.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (*domain.Member, error)
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	FindByID(ctx context.Context, id int64) (*domain.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
	List(ctx context.Context) ([]*domain.Member, error)
}
