package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/telemetry"
)

// AnalyticsService records events into the append-only ledger and derives
// engagement reports from it.
type AnalyticsService struct {
	tx        port.Transactor
	accounts  port.AccountRepository
	analytics port.AnalyticsRepository
	metrics   *telemetry.LifecycleMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(
	tx port.Transactor,
	accounts port.AccountRepository,
	analytics port.AnalyticsRepository,
	log *zap.Logger,
) *AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}

	return &AnalyticsService{
		tx:        tx,
		accounts:  accounts,
		analytics: analytics,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithMetrics attaches lifecycle metric collectors.
func (s *AnalyticsService) WithMetrics(metrics *telemetry.LifecycleMetrics) *AnalyticsService {
	s.metrics = metrics
	return s
}

// WithClock overrides the time source. Used by tests.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// RecordEventInput carries one ledger append. AccountID is nil for anonymous
// traffic; the role snapshots capture the transition the event witnessed.
type RecordEventInput struct {
	EventType    string
	SessionID    string
	AccountID    *string
	PreviousRole *domain.Role
	NewRole      *domain.Role
	Metadata     *string
}

// RecordEvent appends one event to the ledger inside a transaction. A failed
// append rolls back and surfaces the error; nothing is retried silently.
func (s *AnalyticsService) RecordEvent(ctx context.Context, input RecordEventInput) (*domain.AnalyticsEvent, error) {
	if input.EventType == "" {
		return nil, fmt.Errorf("%w: event type is required", ErrInvalidEvent)
	}
	if input.SessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidEvent)
	}
	if input.PreviousRole != nil && !input.PreviousRole.Valid() {
		return nil, fmt.Errorf("%w: unknown previous role", ErrInvalidEvent)
	}
	if input.NewRole != nil && !input.NewRole.Valid() {
		return nil, fmt.Errorf("%w: unknown new role", ErrInvalidEvent)
	}

	event := domain.AnalyticsEvent{
		ID:           uuid.NewString(),
		AccountID:    input.AccountID,
		SessionID:    input.SessionID,
		EventType:    input.EventType,
		PreviousRole: input.PreviousRole,
		NewRole:      input.NewRole,
		Timestamp:    s.now().UTC(),
		Metadata:     input.Metadata,
	}

	err := s.tx.WithinTransaction(ctx, func(repos port.Repositories) error {
		return repos.Analytics().Insert(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}

	s.metrics.ObserveAnalyticsEvent(event.EventType)

	return &event, nil
}

// InactiveSince lists accounts whose last login predates the given period.
// Accounts that never logged in are excluded: absence of a login timestamp
// is not evidence of inactivity.
func (s *AnalyticsService) InactiveSince(ctx context.Context, inactiveFor time.Duration) ([]domain.Account, error) {
	if inactiveFor <= 0 {
		return nil, fmt.Errorf("inactivity period must be positive")
	}

	cutoff := s.now().UTC().Add(-inactiveFor)

	accounts, err := s.accounts.ListInactiveSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list inactive accounts: %w", err)
	}

	for i := range accounts {
		accounts[i] = accounts[i].Sanitized()
	}

	return accounts, nil
}

// ConversionRate reports distinct anonymous visit sessions against distinct
// converted sessions inside [start, end]. The rate is a percentage rounded
// to two decimals, zero when there were no visits.
func (s *AnalyticsService) ConversionRate(ctx context.Context, start, end time.Time) (domain.ConversionReport, error) {
	anonymous := domain.RoleAnonymous
	authenticated := domain.RoleAuthenticated

	visits, err := s.analytics.CountDistinctSessions(ctx, port.SessionCountQuery{
		EventType:    domain.AnalyticsEventVisit,
		PreviousRole: &anonymous,
		Start:        start,
		End:          end,
	})
	if err != nil {
		return domain.ConversionReport{}, fmt.Errorf("count visit sessions: %w", err)
	}

	converted, err := s.analytics.CountDistinctSessions(ctx, port.SessionCountQuery{
		EventType:    domain.AnalyticsEventConversion,
		PreviousRole: &anonymous,
		NewRole:      &authenticated,
		Start:        start,
		End:          end,
	})
	if err != nil {
		return domain.ConversionReport{}, fmt.Errorf("count converted sessions: %w", err)
	}

	report := domain.ConversionReport{
		TotalAnonymousVisits: visits,
		TotalConverted:       converted,
	}

	if visits > 0 {
		report.Rate = math.Round(float64(converted)/float64(visits)*100*100) / 100
	}

	return report, nil
}
