package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/infra/telemetry"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const (
	verificationTokenBytes = 32
	maxNicknameAttempts    = 5
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// AccountService coordinates the account lifecycle: registration,
// authentication, verification, lockout, and profile maintenance.
type AccountService struct {
	cfg         *config.AppConfig
	tx          port.Transactor
	accounts    port.AccountRepository
	notifier    port.Notifier
	publisher   port.EventPublisher
	validator   *security.PasswordValidator
	rateLimits  port.RateLimitStore
	metrics     *telemetry.LifecycleMetrics
	logger      *zap.Logger
	now         func() time.Time
	newNickname func() string
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(
	cfg *config.AppConfig,
	tx port.Transactor,
	accounts port.AccountRepository,
	notifier port.Notifier,
	publisher port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &AccountService{
		cfg:         cfg,
		tx:          tx,
		accounts:    accounts,
		notifier:    notifier,
		publisher:   publisher,
		validator:   validator,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
		newNickname: GenerateNickname,
	}
}

// WithRateLimitStore enables the pre-credential sliding-window throttle.
func (s *AccountService) WithRateLimitStore(store port.RateLimitStore) *AccountService {
	s.rateLimits = store
	return s
}

// WithMetrics attaches lifecycle metric collectors.
func (s *AccountService) WithMetrics(metrics *telemetry.LifecycleMetrics) *AccountService {
	s.metrics = metrics
	return s
}

// WithClock overrides the time source. Used by tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// WithNicknameGenerator overrides the nickname source. Used by tests.
func (s *AccountService) WithNicknameGenerator(generate func() string) *AccountService {
	s.newNickname = generate
	return s
}

// CreateAccountInput carries registration data. Nickname is optional; a
// unique handle is generated when absent. Role is optional; the first account
// ever created becomes an admin regardless.
type CreateAccountInput struct {
	Nickname           string
	Email              string
	Password           string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	LinkedinProfileURL *string
	GithubProfileURL   *string
	Role               *domain.Role
}

// Create registers a new account. Role determination, uniqueness checks, and
// the insert run in a single transaction so the first-registrant-becomes-admin
// rule holds under concurrency.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if input.Nickname != "" && !nicknamePattern.MatchString(input.Nickname) {
		return nil, ErrInvalidNickname
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPasswordPolicyViolation, err)
	}

	if input.Role != nil && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	for _, link := range []*string{input.ProfilePictureURL, input.LinkedinProfileURL, input.GithubProfileURL} {
		if err := validateProfileURL(link); err != nil {
			return nil, err
		}
	}

	hash, err := security.HashPassword(input.Password, s.bcryptCost())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := security.GenerateSecureToken(verificationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:                 uuid.NewString(),
		Nickname:           input.Nickname,
		Email:              email,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Bio:                input.Bio,
		ProfilePictureURL:  input.ProfilePictureURL,
		LinkedinProfileURL: input.LinkedinProfileURL,
		GithubProfileURL:   input.GithubProfileURL,
		CreatedAt:          now,
		UpdatedAt:          now,
		VerificationToken:  &token,
		HashedPassword:     hash,
	}

	err = s.tx.WithinTransaction(ctx, func(repos port.Repositories) error {
		store := repos.Accounts()

		total, err := store.Count(ctx, port.AccountFilter{})
		if err != nil {
			return fmt.Errorf("count accounts: %w", err)
		}

		switch {
		case total == 0:
			account.Role = domain.RoleAdmin
		case input.Role != nil:
			account.Role = *input.Role
		default:
			account.Role = domain.RoleAuthenticated
		}

		if _, err := store.GetByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check email: %w", err)
		}

		if account.Nickname == "" {
			nickname, err := s.pickNickname(ctx, store)
			if err != nil {
				return err
			}
			account.Nickname = nickname
		} else if _, err := store.GetByNickname(ctx, account.Nickname); err == nil {
			return ErrNicknameTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check nickname: %w", err)
		}

		if err := store.Create(ctx, account); err != nil {
			return translateDuplicate(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRegistration(string(account.Role))

	s.publishEvent("account.registered", account.ID, func() error {
		return s.publisher.PublishAccountRegistered(ctx, domain.AccountRegisteredEvent{
			EventID:      uuid.NewString(),
			AccountID:    account.ID,
			Nickname:     account.Nickname,
			Email:        account.Email,
			Role:         account.Role,
			RegisteredAt: now,
		})
	})

	s.notify(ctx, port.NotificationVerification, account, map[string]any{
		"display_name":     account.DisplayName(),
		"verification_url": s.verificationURL(account.ID, token),
	})

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// Login authenticates by email and password. Unknown accounts, unverified
// accounts, locked accounts, and wrong passwords all surface as
// ErrInvalidCredentials. A wrong password increments the failure counter and
// locks the account when the configured ceiling is reached.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.throttle(ctx, email); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.ObserveLogin(telemetry.LoginResultFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.EmailVerified || account.IsLocked {
		s.logger.Debug("login rejected before credential check",
			zap.String("account_id", account.ID),
			zap.Bool("email_verified", account.EmailVerified),
			zap.Bool("is_locked", account.IsLocked),
		)
		s.metrics.ObserveLogin(telemetry.LoginResultFailure)
		return nil, ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, account.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		return nil, s.recordFailedAttempt(ctx, account)
	}

	now := s.now().UTC()
	state := port.LoginState{FailedLoginAttempts: 0, IsLocked: false, LastLoginAt: &now}
	if err := s.accounts.UpdateLoginState(ctx, account.ID, state); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	account.FailedLoginAttempts = 0
	account.LastLoginAt = &now
	s.metrics.ObserveLogin(telemetry.LoginResultSuccess)

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// recordFailedAttempt bumps the failure counter and locks the account when
// the counter reaches the ceiling. The increment and the lock land in one
// persisted write.
func (s *AccountService) recordFailedAttempt(ctx context.Context, account *domain.Account) error {
	attempts := account.FailedLoginAttempts + 1
	locked := attempts >= s.maxLoginAttempts()

	state := port.LoginState{FailedLoginAttempts: attempts, IsLocked: locked}
	if err := s.accounts.UpdateLoginState(ctx, account.ID, state); err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}

	s.metrics.ObserveLogin(telemetry.LoginResultFailure)

	if locked {
		s.metrics.ObserveLockout()
		s.logger.Warn("account locked after repeated login failures",
			zap.String("account_id", account.ID),
			zap.Int("failed_attempts", attempts),
		)

		lockedAt := s.now().UTC()
		s.publishEvent("account.locked", account.ID, func() error {
			return s.publisher.PublishAccountLocked(ctx, domain.AccountLockedEvent{
				EventID:        uuid.NewString(),
				AccountID:      account.ID,
				FailedAttempts: attempts,
				LockedAt:       lockedAt,
			})
		})

		s.notify(ctx, port.NotificationAccountLocked, *account, map[string]any{
			"display_name":    account.DisplayName(),
			"failed_attempts": attempts,
		})
	}

	return ErrInvalidCredentials
}

// VerifyEmail redeems a verification token. Returns false when the account is
// missing or the token does not match exactly; no detail beyond the boolean
// leaks. A successful match clears the token, marks the email verified, and
// promotes an anonymous account to authenticated.
func (s *AccountService) VerifyEmail(ctx context.Context, id, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup account: %w", err)
	}

	if account.VerificationToken == nil || *account.VerificationToken != token {
		return false, nil
	}

	account.VerificationToken = nil
	account.EmailVerified = true
	if account.Role == domain.RoleAnonymous {
		account.Role = domain.RoleAuthenticated
	}

	if err := s.accounts.Update(ctx, *account); err != nil {
		return false, fmt.Errorf("verify email: %w", err)
	}

	return true, nil
}

// ResetPassword replaces the password and clears any lockout state. Returns
// false when the account does not exist.
func (s *AccountService) ResetPassword(ctx context.Context, id, newPassword string) (bool, error) {
	if err := s.validator.Validate(newPassword); err != nil {
		return false, fmt.Errorf("%w: %s", ErrPasswordPolicyViolation, err)
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := security.HashPassword(newPassword, s.bcryptCost())
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	account.HashedPassword = hash
	account.FailedLoginAttempts = 0
	account.IsLocked = false

	if err := s.accounts.Update(ctx, *account); err != nil {
		return false, fmt.Errorf("reset password: %w", err)
	}

	changedAt := s.now().UTC()
	s.publishEvent("account.password.changed", account.ID, func() error {
		return s.publisher.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			AccountID: account.ID,
			ChangedAt: changedAt,
			Reset:     true,
		})
	})

	s.notify(ctx, port.NotificationPasswordReset, *account, map[string]any{
		"display_name": account.DisplayName(),
	})

	return true, nil
}

// Unlock clears the lockout flag and counter. Returns false when the account
// is missing or not locked.
func (s *AccountService) Unlock(ctx context.Context, id, unlockedBy string) (bool, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup account: %w", err)
	}

	if !account.IsLocked {
		return false, nil
	}

	account.IsLocked = false
	account.FailedLoginAttempts = 0

	if err := s.accounts.Update(ctx, *account); err != nil {
		return false, fmt.Errorf("unlock account: %w", err)
	}

	unlockedAt := s.now().UTC()
	s.publishEvent("account.unlocked", account.ID, func() error {
		return s.publisher.PublishAccountUnlocked(ctx, domain.AccountUnlockedEvent{
			EventID:    uuid.NewString(),
			AccountID:  account.ID,
			UnlockedBy: unlockedBy,
			UnlockedAt: unlockedAt,
		})
	})

	s.notify(ctx, port.NotificationAccountUnlocked, *account, map[string]any{
		"display_name": account.DisplayName(),
	})

	return true, nil
}

// UpdateAccountInput carries a partial profile update. Nil fields are left
// untouched. Role is deliberately absent: role transitions go through
// ChangeRole so they are always audited.
type UpdateAccountInput struct {
	Nickname           *string
	Email              *string
	Password           *string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	LinkedinProfileURL *string
	GithubProfileURL   *string
}

// Update applies a partial profile update. Nickname and email changes
// re-check uniqueness excluding the account itself.
func (s *AccountService) Update(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	var updated domain.Account

	err := s.tx.WithinTransaction(ctx, func(repos port.Repositories) error {
		store := repos.Accounts()

		account, err := store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("lookup account: %w", err)
		}

		if input.Nickname != nil && *input.Nickname != account.Nickname {
			if !nicknamePattern.MatchString(*input.Nickname) {
				return ErrInvalidNickname
			}
			existing, err := store.GetByNickname(ctx, *input.Nickname)
			if err == nil && existing.ID != id {
				return ErrNicknameTaken
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("check nickname: %w", err)
			}
			account.Nickname = *input.Nickname
		}

		if input.Email != nil {
			email, err := normalizeEmail(*input.Email)
			if err != nil {
				return err
			}
			if email != account.Email {
				existing, err := store.GetByEmail(ctx, email)
				if err == nil && existing.ID != id {
					return ErrEmailTaken
				}
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("check email: %w", err)
				}
				account.Email = email
			}
		}

		if input.Password != nil {
			if err := s.validator.Validate(*input.Password); err != nil {
				return fmt.Errorf("%w: %s", ErrPasswordPolicyViolation, err)
			}
			hash, err := security.HashPassword(*input.Password, s.bcryptCost())
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			account.HashedPassword = hash
		}

		if input.FirstName != nil {
			account.FirstName = input.FirstName
		}
		if input.LastName != nil {
			account.LastName = input.LastName
		}
		if input.Bio != nil {
			account.Bio = input.Bio
		}

		if input.ProfilePictureURL != nil {
			if err := validateProfileURL(input.ProfilePictureURL); err != nil {
				return err
			}
			account.ProfilePictureURL = input.ProfilePictureURL
		}
		if input.LinkedinProfileURL != nil {
			if err := validateProfileURL(input.LinkedinProfileURL); err != nil {
				return err
			}
			account.LinkedinProfileURL = input.LinkedinProfileURL
		}
		if input.GithubProfileURL != nil {
			if err := validateProfileURL(input.GithubProfileURL); err != nil {
				return err
			}
			account.GithubProfileURL = input.GithubProfileURL
		}

		if err := store.Update(ctx, *account); err != nil {
			return translateDuplicate(err)
		}

		updated = *account
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		changedAt := s.now().UTC()
		s.publishEvent("account.password.changed", updated.ID, func() error {
			return s.publisher.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
				EventID:   uuid.NewString(),
				AccountID: updated.ID,
				ChangedAt: changedAt,
			})
		})

		s.notify(ctx, port.NotificationPasswordUpdated, updated, map[string]any{
			"display_name": updated.DisplayName(),
		})
	}

	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// ChangeRole transitions the account to a new role and emits an audited
// event. Assigning the current role is a no-op.
func (s *AccountService) ChangeRole(ctx context.Context, id string, newRole domain.Role, changedBy string) (*domain.Account, error) {
	if !newRole.Valid() {
		return nil, ErrInvalidRole
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if account.Role == newRole {
		sanitized := account.Sanitized()
		return &sanitized, nil
	}

	previous := account.Role
	account.Role = newRole

	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	changedAt := s.now().UTC()
	s.publishEvent("account.role.changed", account.ID, func() error {
		return s.publisher.PublishRoleChanged(ctx, domain.RoleChangedEvent{
			EventID:      uuid.NewString(),
			AccountID:    account.ID,
			PreviousRole: previous,
			NewRole:      newRole,
			ChangedBy:    changedBy,
			ChangedAt:    changedAt,
		})
	})

	s.notify(ctx, port.NotificationRoleUpdated, *account, map[string]any{
		"display_name":  account.DisplayName(),
		"previous_role": string(previous),
		"new_role":      string(newRole),
	})

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// SetProfessionalStatus flips the professional flag and stamps the change
// time in the same write. Setting the current value is a no-op.
func (s *AccountService) SetProfessionalStatus(ctx context.Context, id string, professional bool) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if account.IsProfessional == professional {
		sanitized := account.Sanitized()
		return &sanitized, nil
	}

	changedAt := s.now().UTC()
	account.IsProfessional = professional
	account.ProfessionalUpdatedAt = &changedAt

	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("set professional status: %w", err)
	}

	s.notify(ctx, port.NotificationProfessionalStatus, *account, map[string]any{
		"display_name":    account.DisplayName(),
		"is_professional": professional,
	})

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// Delete removes the account. Returns false when it does not exist, so
// repeated deletes are idempotent.
func (s *AccountService) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete account: %w", err)
	}
	return true, nil
}

// GetByID fetches an account by identifier.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// GetByEmail fetches an account by normalised email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// Search returns one page of accounts plus the total match count computed
// independently of pagination.
func (s *AccountService) Search(ctx context.Context, filter port.AccountFilter) ([]domain.Account, int, error) {
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	countFilter := filter
	countFilter.Offset = 0
	countFilter.Limit = 0

	total, err := s.accounts.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	for i := range accounts {
		accounts[i] = accounts[i].Sanitized()
	}

	return accounts, total, nil
}

// throttle rejects the attempt when the identifier exceeded the configured
// sliding-window ceiling. Store errors are logged and ignored so a throttle
// outage never blocks authentication.
func (s *AccountService) throttle(ctx context.Context, email string) error {
	if s.rateLimits == nil {
		return nil
	}

	window := s.cfg.Security.LoginThrottleWindow
	limit := s.cfg.Security.LoginThrottleMax
	if window <= 0 || limit <= 0 {
		return nil
	}

	now := s.now()
	count, err := s.rateLimits.CountAttempts(ctx, email, window, now)
	if err != nil {
		s.logger.Warn("throttle count failed", zap.String("email", logger.MaskEmail(email)), zap.Error(err))
		return nil
	}

	if count >= limit {
		s.metrics.ObserveLogin(telemetry.LoginResultThrottled)
		return ErrTooManyLoginAttempts
	}

	if err := s.rateLimits.RecordAttempt(ctx, email, now); err != nil {
		s.logger.Warn("throttle record failed", zap.String("email", logger.MaskEmail(email)), zap.Error(err))
	}

	return nil
}

func (s *AccountService) pickNickname(ctx context.Context, store port.AccountRepository) (string, error) {
	for attempt := 0; attempt < maxNicknameAttempts; attempt++ {
		candidate := s.newNickname()
		_, err := store.GetByNickname(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check nickname: %w", err)
		}
	}
	return "", fmt.Errorf("generate nickname: exhausted %d attempts", maxNicknameAttempts)
}

// notify dispatches a notification, logging failures. The triggering write
// has already committed, so delivery errors never propagate.
func (s *AccountService) notify(ctx context.Context, kind port.NotificationKind, account domain.Account, data map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, kind, account, data); err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("kind", string(kind)),
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
}

// publishEvent runs the publish closure, logging failures. Lifecycle events
// are best-effort.
func (s *AccountService) publishEvent(eventType, accountID string, publish func() error) {
	if s.publisher == nil {
		return
	}
	if err := publish(); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", eventType),
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}
}

func (s *AccountService) bcryptCost() int {
	if s.cfg != nil && s.cfg.Security.BcryptCost > 0 {
		return s.cfg.Security.BcryptCost
	}
	return security.DefaultBcryptCost
}

func (s *AccountService) maxLoginAttempts() int {
	if s.cfg != nil && s.cfg.Security.MaxLoginAttempts > 0 {
		return s.cfg.Security.MaxLoginAttempts
	}
	return 5
}

func (s *AccountService) verificationURL(id, token string) string {
	base := ""
	if s.cfg != nil {
		base = strings.TrimSuffix(s.cfg.App.BaseURL, "/")
	}
	return fmt.Sprintf("%s/accounts/%s/verify?token=%s", base, id, token)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func validateProfileURL(link *string) error {
	if link == nil || *link == "" {
		return nil
	}
	parsed, err := url.ParseRequestURI(*link)
	if err != nil {
		return ErrInvalidProfileURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidProfileURL
	}
	return nil
}

func translateDuplicate(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateNickname):
		return ErrNicknameTaken
	default:
		return fmt.Errorf("persist account: %w", err)
	}
}
