package port

import (
	"context"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// NotificationKind identifies the templated message a notifier should send.
type NotificationKind string

const (
	NotificationVerification       NotificationKind = "verification"
	NotificationPasswordReset      NotificationKind = "password_reset"
	NotificationAccountLocked      NotificationKind = "account_locked"
	NotificationAccountUnlocked    NotificationKind = "account_unlocked"
	NotificationRoleUpdated        NotificationKind = "role_updated"
	NotificationPasswordUpdated    NotificationKind = "password_updated"
	NotificationProfessionalStatus NotificationKind = "professional_status_updated"
)

// Notifier dispatches templated messages to account holders. Delivery is a
// collaborator concern: failures after a committed write are logged by the
// caller, never rolled back.
type Notifier interface {
	Notify(ctx context.Context, kind NotificationKind, account domain.Account, data map[string]any) error
}
