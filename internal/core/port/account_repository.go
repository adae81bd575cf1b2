package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// AccountFilter narrows list and count queries. Text fields match partially
// and case-insensitively on their indexed columns.
type AccountFilter struct {
	Nickname      string
	Email         string
	Role          *domain.Role
	EmailVerified *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Offset        int
	Limit         int
}

// LoginState captures the mutation a login attempt applies to an account row.
// Every branch of authentication persists exactly one of these.
type LoginState struct {
	FailedLoginAttempts int
	IsLocked            bool
	LastLoginAt         *time.Time
}

// AccountRepository exposes persistence behavior for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	UpdateLoginState(ctx context.Context, id string, state LoginState) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter AccountFilter) (int, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	ListInactiveSince(ctx context.Context, cutoff time.Time) ([]domain.Account, error)
}
