package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates the access levels an account can hold. Exactly one role is
// assigned at any time.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

// ParseRole normalises textual input into a Role. Unrecognised values are
// rejected rather than coerced so storage and wire encodings round-trip.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAnonymous:
		return RoleAnonymous, nil
	case RoleAuthenticated:
		return RoleAuthenticated, nil
	case RoleManager:
		return RoleManager, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Valid reports whether the role is one of the four defined members.
func (r Role) Valid() bool {
	switch r {
	case RoleAnonymous, RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Account mirrors the persisted representation in the accounts table.
type Account struct {
	ID                    string
	Nickname              string
	Email                 string
	FirstName             *string
	LastName              *string
	Bio                   *string
	ProfilePictureURL     *string
	LinkedinProfileURL    *string
	GithubProfileURL      *string
	Role                  Role
	IsProfessional        bool
	ProfessionalUpdatedAt *time.Time
	LastLoginAt           *time.Time
	FailedLoginAttempts   int
	IsLocked              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	VerificationToken     *string
	EmailVerified         bool
	HashedPassword        string
}

// Sanitized returns a copy safe to hand past the core boundary.
func (a Account) Sanitized() Account {
	a.HashedPassword = ""
	return a
}

// DisplayName picks the best human-readable name available for notifications.
func (a Account) DisplayName() string {
	if a.FirstName != nil && *a.FirstName != "" {
		return *a.FirstName
	}
	return a.Nickname
}
