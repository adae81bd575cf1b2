package port

import "context"

// Repositories is the set of stores bound to a single transaction.
type Repositories interface {
	Accounts() AccountRepository
	Analytics() AnalyticsRepository
}

// Transactor runs fn inside one store transaction. The transaction commits
// when fn returns nil and rolls back otherwise; the transaction boundary is
// the unit of atomicity for multi-step lifecycle operations.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}
