package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
)

// StubNotifier logs notifications instead of delivering them. Stands in for a
// mail or push gateway in development environments.
type StubNotifier struct {
	logger *zap.Logger
}

// NewStubNotifier constructs a development-friendly notifier.
func NewStubNotifier(log *zap.Logger) *StubNotifier {
	return &StubNotifier{logger: log}
}

// Notify logs the notification with the recipient email masked.
func (n *StubNotifier) Notify(_ context.Context, kind port.NotificationKind, account domain.Account, data map[string]any) error {
	n.logger.Info("Stub notification dispatched",
		zap.String("kind", string(kind)),
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(account.Email)),
		zap.Any("data", data),
	)
	return nil
}

var _ port.Notifier = (*StubNotifier)(nil)
