package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// AnalyticsRepository implements port.AnalyticsRepository using PostgreSQL.
// The ledger is append-only: no update or delete statements exist here.
type AnalyticsRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAnalyticsRepository wires a PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AnalyticsRepository) WithTx(tx pgx.Tx) *AnalyticsRepository {
	if tx == nil {
		return r
	}
	return &AnalyticsRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Insert appends one event row.
func (r *AnalyticsRepository) Insert(ctx context.Context, event domain.AnalyticsEvent) error {
	stmt, args, err := r.builder.Insert("account_analytics").
		Columns(
			"id",
			"account_id",
			"session_id",
			"event_type",
			"previous_role",
			"new_role",
			"timestamp",
			"event_metadata",
		).
		Values(
			event.ID,
			event.AccountID,
			event.SessionID,
			event.EventType,
			event.PreviousRole,
			event.NewRole,
			event.Timestamp,
			event.Metadata,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert analytics event sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}

	return nil
}

// CountDistinctSessions counts unique session correlators matching the query
// inside its time window.
func (r *AnalyticsRepository) CountDistinctSessions(ctx context.Context, query port.SessionCountQuery) (int, error) {
	builder := r.builder.Select("COUNT(DISTINCT session_id)").
		From("account_analytics").
		Where(squirrel.Eq{"event_type": query.EventType}).
		Where(squirrel.GtOrEq{"timestamp": query.Start}).
		Where(squirrel.LtOrEq{"timestamp": query.End})

	if query.PreviousRole != nil {
		builder = builder.Where(squirrel.Eq{"previous_role": *query.PreviousRole})
	}
	if query.NewRole != nil {
		builder = builder.Where(squirrel.Eq{"new_role": *query.NewRole})
	}

	stmt, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count distinct sessions sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan distinct session count: %w", err)
	}

	return int(count), nil
}

var _ port.AnalyticsRepository = (*AnalyticsRepository)(nil)
