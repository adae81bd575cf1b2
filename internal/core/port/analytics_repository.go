package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// SessionCountQuery selects ledger rows for distinct-session aggregation.
// Role filters match only when the stored snapshot equals the given value.
type SessionCountQuery struct {
	EventType    string
	PreviousRole *domain.Role
	NewRole      *domain.Role
	Start        time.Time
	End          time.Time
}

// AnalyticsRepository persists the append-only event ledger. There are no
// update or delete operations: rows are write-once-read-many.
type AnalyticsRepository interface {
	Insert(ctx context.Context, event domain.AnalyticsEvent) error
	CountDistinctSessions(ctx context.Context, query SessionCountQuery) (int, error)
}
