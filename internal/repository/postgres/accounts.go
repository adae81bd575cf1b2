package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

var accountColumns = []string{
	"id",
	"nickname",
	"email",
	"first_name",
	"last_name",
	"bio",
	"profile_picture_url",
	"linkedin_profile_url",
	"github_profile_url",
	"role",
	"is_professional",
	"professional_status_updated_at",
	"last_login_at",
	"failed_login_attempts",
	"is_locked",
	"created_at",
	"updated_at",
	"verification_token",
	"email_verified",
	"hashed_password",
}

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository wires a PostgreSQL-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new account row. Unique violations on email or nickname
// surface as the repository's duplicate errors.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	stmt, args, err := r.builder.Insert("accounts").
		Columns(accountColumns...).
		Values(
			account.ID,
			account.Nickname,
			account.Email,
			account.FirstName,
			account.LastName,
			account.Bio,
			account.ProfilePictureURL,
			account.LinkedinProfileURL,
			account.GithubProfileURL,
			account.Role,
			account.IsProfessional,
			account.ProfessionalUpdatedAt,
			account.LastLoginAt,
			account.FailedLoginAttempts,
			account.IsLocked,
			account.CreatedAt,
			account.UpdatedAt,
			account.VerificationToken,
			account.EmailVerified,
			account.HashedPassword,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateUniqueViolation(err); translated != err {
			return translated
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an account by its unique email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

// GetByNickname retrieves an account by its unique nickname.
func (r *AccountRepository) GetByNickname(ctx context.Context, nickname string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"nickname": nickname})
}

func (r *AccountRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("accounts").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	account, err := scanAccount(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return account, nil
}

// Update rewrites all mutable columns of an account row.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	stmt, args, err := r.builder.Update("accounts").
		Set("nickname", account.Nickname).
		Set("email", account.Email).
		Set("first_name", account.FirstName).
		Set("last_name", account.LastName).
		Set("bio", account.Bio).
		Set("profile_picture_url", account.ProfilePictureURL).
		Set("linkedin_profile_url", account.LinkedinProfileURL).
		Set("github_profile_url", account.GithubProfileURL).
		Set("role", account.Role).
		Set("is_professional", account.IsProfessional).
		Set("professional_status_updated_at", account.ProfessionalUpdatedAt).
		Set("last_login_at", account.LastLoginAt).
		Set("failed_login_attempts", account.FailedLoginAttempts).
		Set("is_locked", account.IsLocked).
		Set("updated_at", time.Now().UTC()).
		Set("verification_token", account.VerificationToken).
		Set("email_verified", account.EmailVerified).
		Set("hashed_password", account.HashedPassword).
		Where(squirrel.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if translated := translateUniqueViolation(err); translated != err {
			return translated
		}
		return fmt.Errorf("update account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateLoginState persists the outcome of one authentication attempt in a
// single statement so counter, lock flag, and login timestamp move together.
func (r *AccountRepository) UpdateLoginState(ctx context.Context, id string, state port.LoginState) error {
	query := r.builder.Update("accounts").
		Set("failed_login_attempts", state.FailedLoginAttempts).
		Set("is_locked", state.IsLocked).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if state.LastLoginAt != nil {
		query = query.Set("last_login_at", *state.LastLoginAt)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update login state sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update login state: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an account row. Owned analytics rows follow the schema's
// referential policy (ON DELETE CASCADE), not application logic.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("accounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete account sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Count returns the total number of accounts matching the filter, computed
// independently of any page window.
func (r *AccountRepository) Count(ctx context.Context, filter port.AccountFilter) (int, error) {
	query := applyAccountFilter(r.builder.Select("COUNT(*)").From("accounts"), filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count accounts sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan accounts count: %w", err)
	}

	return int(count), nil
}

// List returns accounts matching the filter with pagination applied.
func (r *AccountRepository) List(ctx context.Context, filter port.AccountFilter) ([]domain.Account, error) {
	query := applyAccountFilter(
		r.builder.Select(accountColumns...).From("accounts").OrderBy("created_at DESC"),
		filter,
	)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts sql: %w", err)
	}

	return r.queryAccounts(ctx, stmt, args)
}

// ListInactiveSince returns accounts whose last login is strictly older than
// cutoff. Accounts that never logged in are excluded explicitly rather than
// relying on the store's null ordering.
func (r *AccountRepository) ListInactiveSince(ctx context.Context, cutoff time.Time) ([]domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("accounts").
		Where("last_login_at IS NOT NULL").
		Where(squirrel.Lt{"last_login_at": cutoff}).
		OrderBy("last_login_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inactive accounts sql: %w", err)
	}

	return r.queryAccounts(ctx, stmt, args)
}

func (r *AccountRepository) queryAccounts(ctx context.Context, stmt string, args []any) ([]domain.Account, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func applyAccountFilter(query squirrel.SelectBuilder, filter port.AccountFilter) squirrel.SelectBuilder {
	if filter.Nickname != "" {
		query = query.Where(squirrel.ILike{"nickname": "%" + filter.Nickname + "%"})
	}
	if filter.Email != "" {
		query = query.Where(squirrel.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.Role != nil {
		query = query.Where(squirrel.Eq{"role": *filter.Role})
	}
	if filter.EmailVerified != nil {
		query = query.Where(squirrel.Eq{"email_verified": *filter.EmailVerified})
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil {
		query = query.Where(squirrel.And{
			squirrel.GtOrEq{"created_at": *filter.CreatedFrom},
			squirrel.LtOrEq{"created_at": *filter.CreatedTo},
		})
	}
	return query
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account  domain.Account
		roleText string
	)

	if err := row.Scan(
		&account.ID,
		&account.Nickname,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.Bio,
		&account.ProfilePictureURL,
		&account.LinkedinProfileURL,
		&account.GithubProfileURL,
		&roleText,
		&account.IsProfessional,
		&account.ProfessionalUpdatedAt,
		&account.LastLoginAt,
		&account.FailedLoginAttempts,
		&account.IsLocked,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.VerificationToken,
		&account.EmailVerified,
		&account.HashedPassword,
	); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(roleText)
	if err != nil {
		return nil, fmt.Errorf("stored role: %w", err)
	}
	account.Role = role

	return &account, nil
}

var _ port.AccountRepository = (*AccountRepository)(nil)
