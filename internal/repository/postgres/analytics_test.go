package postgres

import (
	"context"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

func newMockAnalyticsRepo(t *testing.T) (*AnalyticsRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &AnalyticsRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestAnalyticsRepositoryInsert(t *testing.T) {
	repo, mock := newMockAnalyticsRepo(t)

	anonymous := domain.RoleAnonymous
	now := time.Now().UTC()
	event := domain.AnalyticsEvent{
		ID:           "event-1",
		SessionID:    "session-1",
		EventType:    domain.AnalyticsEventVisit,
		PreviousRole: &anonymous,
		Timestamp:    now,
	}

	mock.ExpectExec(`INSERT INTO account_analytics`).
		WithArgs(
			event.ID,
			event.AccountID,
			event.SessionID,
			event.EventType,
			event.PreviousRole,
			event.NewRole,
			event.Timestamp,
			event.Metadata,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), event); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAnalyticsRepositoryCountDistinctSessions(t *testing.T) {
	repo, mock := newMockAnalyticsRepo(t)

	anonymous := domain.RoleAnonymous
	authenticated := domain.RoleAuthenticated
	start := time.Now().UTC().Add(-time.Hour)
	end := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(3))

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT session_id\) FROM account_analytics`).
		WithArgs(domain.AnalyticsEventConversion, start, end, anonymous, authenticated).
		WillReturnRows(rows)

	count, err := repo.CountDistinctSessions(context.Background(), port.SessionCountQuery{
		EventType:    domain.AnalyticsEventConversion,
		PreviousRole: &anonymous,
		NewRole:      &authenticated,
		Start:        start,
		End:          end,
	})
	if err != nil {
		t.Fatalf("CountDistinctSessions returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 distinct sessions, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
