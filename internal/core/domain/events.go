package domain

import "time"

// AccountRegisteredEvent represents the payload for accounts.account.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Nickname     string
	Email        string
	Role         Role
	RegisteredAt time.Time
	Metadata     map[string]any
}

// AccountLockedEvent represents the payload for accounts.account.locked messages.
type AccountLockedEvent struct {
	EventID        string
	AccountID      string
	FailedAttempts int
	LockedAt       time.Time
	Metadata       map[string]any
}

// AccountUnlockedEvent represents the payload for accounts.account.unlocked messages.
type AccountUnlockedEvent struct {
	EventID    string
	AccountID  string
	UnlockedBy string
	UnlockedAt time.Time
	Metadata   map[string]any
}

// RoleChangedEvent represents the payload for accounts.account.role.changed messages.
type RoleChangedEvent struct {
	EventID      string
	AccountID    string
	PreviousRole Role
	NewRole      Role
	ChangedBy    string
	ChangedAt    time.Time
	Metadata     map[string]any
}

// PasswordChangedEvent represents the payload for accounts.account.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	AccountID string
	ChangedAt time.Time
	ChangedBy string
	Reset     bool
	Metadata  map[string]any
}
