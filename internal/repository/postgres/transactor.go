package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// Transactor implements port.Transactor over a pgx pool. Each call runs its
// function against repositories bound to one transaction; fn returning an
// error rolls the whole transaction back.
type Transactor struct {
	pool      *pgxpool.Pool
	accounts  *AccountRepository
	analytics *AnalyticsRepository
}

// NewTransactor wires a transactor sharing the provided repositories.
func NewTransactor(pool *pgxpool.Pool, accounts *AccountRepository, analytics *AnalyticsRepository) *Transactor {
	return &Transactor{pool: pool, accounts: accounts, analytics: analytics}
}

type txRepositories struct {
	accounts  *AccountRepository
	analytics *AnalyticsRepository
}

func (r *txRepositories) Accounts() port.AccountRepository {
	return r.accounts
}

func (r *txRepositories) Analytics() port.AnalyticsRepository {
	return r.analytics
}

// WithinTransaction begins a transaction, binds the repositories to it, and
// commits on success. A rollback after a failed commit is a no-op in pgx, so
// the deferred rollback covers every abandoned path including cancellation.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(repos port.Repositories) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	scope := &txRepositories{
		accounts:  t.accounts.WithTx(tx),
		analytics: t.analytics.WithTx(tx),
	}

	if err := fn(scope); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

var _ port.Transactor = (*Transactor)(nil)
