package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// memoryAccountRepo is an in-memory port.AccountRepository that mirrors the
// store's uniqueness and not-found semantics.
type memoryAccountRepo struct {
	accounts map[string]domain.Account
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[string]domain.Account)}
}

func (m *memoryAccountRepo) snapshot() map[string]domain.Account {
	copied := make(map[string]domain.Account, len(m.accounts))
	for id, account := range m.accounts {
		copied[id] = account
	}
	return copied
}

func (m *memoryAccountRepo) restore(snapshot map[string]domain.Account) {
	m.accounts = snapshot
}

func (m *memoryAccountRepo) Create(_ context.Context, account domain.Account) error {
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Nickname == account.Nickname {
			return repository.ErrDuplicateNickname
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *memoryAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (m *memoryAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range m.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccountRepo) GetByNickname(_ context.Context, nickname string) (*domain.Account, error) {
	for _, account := range m.accounts {
		if account.Nickname == nickname {
			copied := account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccountRepo) Update(_ context.Context, account domain.Account) error {
	if _, ok := m.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range m.accounts {
		if id == account.ID {
			continue
		}
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Nickname == account.Nickname {
			return repository.ErrDuplicateNickname
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *memoryAccountRepo) UpdateLoginState(_ context.Context, id string, state port.LoginState) error {
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.FailedLoginAttempts = state.FailedLoginAttempts
	account.IsLocked = state.IsLocked
	if state.LastLoginAt != nil {
		at := *state.LastLoginAt
		account.LastLoginAt = &at
	}
	m.accounts[id] = account
	return nil
}

func (m *memoryAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *memoryAccountRepo) matches(account domain.Account, filter port.AccountFilter) bool {
	if filter.Nickname != "" && !strings.Contains(strings.ToLower(account.Nickname), strings.ToLower(filter.Nickname)) {
		return false
	}
	if filter.Email != "" && !strings.Contains(strings.ToLower(account.Email), strings.ToLower(filter.Email)) {
		return false
	}
	if filter.Role != nil && account.Role != *filter.Role {
		return false
	}
	if filter.EmailVerified != nil && account.EmailVerified != *filter.EmailVerified {
		return false
	}
	if filter.CreatedFrom != nil && account.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && account.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func (m *memoryAccountRepo) Count(_ context.Context, filter port.AccountFilter) (int, error) {
	count := 0
	for _, account := range m.accounts {
		if m.matches(account, filter) {
			count++
		}
	}
	return count, nil
}

func (m *memoryAccountRepo) List(_ context.Context, filter port.AccountFilter) ([]domain.Account, error) {
	matched := make([]domain.Account, 0)
	for _, account := range m.accounts {
		if m.matches(account, filter) {
			matched = append(matched, account)
		}
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *memoryAccountRepo) ListInactiveSince(_ context.Context, cutoff time.Time) ([]domain.Account, error) {
	inactive := make([]domain.Account, 0)
	for _, account := range m.accounts {
		if account.LastLoginAt != nil && account.LastLoginAt.Before(cutoff) {
			inactive = append(inactive, account)
		}
	}
	return inactive, nil
}

var _ port.AccountRepository = (*memoryAccountRepo)(nil)

// memoryAnalyticsRepo is an in-memory append-only ledger.
type memoryAnalyticsRepo struct {
	events    []domain.AnalyticsEvent
	insertErr error
}

func (m *memoryAnalyticsRepo) snapshot() []domain.AnalyticsEvent {
	copied := make([]domain.AnalyticsEvent, len(m.events))
	copy(copied, m.events)
	return copied
}

func (m *memoryAnalyticsRepo) restore(snapshot []domain.AnalyticsEvent) {
	m.events = snapshot
}

func (m *memoryAnalyticsRepo) Insert(_ context.Context, event domain.AnalyticsEvent) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memoryAnalyticsRepo) CountDistinctSessions(_ context.Context, query port.SessionCountQuery) (int, error) {
	sessions := make(map[string]struct{})
	for _, event := range m.events {
		if event.EventType != query.EventType {
			continue
		}
		if event.Timestamp.Before(query.Start) || event.Timestamp.After(query.End) {
			continue
		}
		if query.PreviousRole != nil && (event.PreviousRole == nil || *event.PreviousRole != *query.PreviousRole) {
			continue
		}
		if query.NewRole != nil && (event.NewRole == nil || *event.NewRole != *query.NewRole) {
			continue
		}
		sessions[event.SessionID] = struct{}{}
	}
	return len(sessions), nil
}

var _ port.AnalyticsRepository = (*memoryAnalyticsRepo)(nil)

// memoryTransactor exposes the in-memory repos as one transaction scope and
// rolls both back when the callback fails.
type memoryTransactor struct {
	accounts  *memoryAccountRepo
	analytics *memoryAnalyticsRepo
}

func newMemoryTransactor(accounts *memoryAccountRepo, analytics *memoryAnalyticsRepo) *memoryTransactor {
	return &memoryTransactor{accounts: accounts, analytics: analytics}
}

func (t *memoryTransactor) Accounts() port.AccountRepository    { return t.accounts }
func (t *memoryTransactor) Analytics() port.AnalyticsRepository { return t.analytics }

func (t *memoryTransactor) WithinTransaction(_ context.Context, fn func(repos port.Repositories) error) error {
	accountsSnapshot := t.accounts.snapshot()
	analyticsSnapshot := t.analytics.snapshot()

	if err := fn(t); err != nil {
		t.accounts.restore(accountsSnapshot)
		t.analytics.restore(analyticsSnapshot)
		return err
	}
	return nil
}

var _ port.Transactor = (*memoryTransactor)(nil)

// recordedNotification captures one Notify call.
type recordedNotification struct {
	kind      port.NotificationKind
	accountID string
	data      map[string]any
}

type recordingNotifier struct {
	sent []recordedNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, kind port.NotificationKind, account domain.Account, data map[string]any) error {
	n.sent = append(n.sent, recordedNotification{kind: kind, accountID: account.ID, data: data})
	return n.err
}

func (n *recordingNotifier) kinds() []port.NotificationKind {
	kinds := make([]port.NotificationKind, 0, len(n.sent))
	for _, notification := range n.sent {
		kinds = append(kinds, notification.kind)
	}
	return kinds
}

var _ port.Notifier = (*recordingNotifier)(nil)

// recordingPublisher captures published lifecycle event types in order.
type recordingPublisher struct {
	published  []string
	lastLocked domain.AccountLockedEvent
	lastRole   domain.RoleChangedEvent
	err        error
}

func (p *recordingPublisher) PublishAccountRegistered(_ context.Context, _ domain.AccountRegisteredEvent) error {
	p.published = append(p.published, "account.registered")
	return p.err
}

func (p *recordingPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.published = append(p.published, "account.locked")
	p.lastLocked = event
	return p.err
}

func (p *recordingPublisher) PublishAccountUnlocked(_ context.Context, _ domain.AccountUnlockedEvent) error {
	p.published = append(p.published, "account.unlocked")
	return p.err
}

func (p *recordingPublisher) PublishRoleChanged(_ context.Context, event domain.RoleChangedEvent) error {
	p.published = append(p.published, "account.role.changed")
	p.lastRole = event
	return p.err
}

func (p *recordingPublisher) PublishPasswordChanged(_ context.Context, _ domain.PasswordChangedEvent) error {
	p.published = append(p.published, "account.password.changed")
	return p.err
}

func (p *recordingPublisher) count(eventType string) int {
	total := 0
	for _, published := range p.published {
		if published == eventType {
			total++
		}
	}
	return total
}

var _ port.EventPublisher = (*recordingPublisher)(nil)

// stubRateLimitStore returns a fixed attempt count per identifier.
type stubRateLimitStore struct {
	counts   map[string]int
	recorded []string
	countErr error
}

func (s *stubRateLimitStore) RecordAttempt(_ context.Context, identifier string, _ time.Time) error {
	s.recorded = append(s.recorded, identifier)
	return nil
}

func (s *stubRateLimitStore) CountAttempts(_ context.Context, identifier string, _ time.Duration, _ time.Time) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.counts[identifier], nil
}

var _ port.RateLimitStore = (*stubRateLimitStore)(nil)
