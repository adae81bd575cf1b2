package usecase

import "errors"

var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials indicates the email or password is incorrect, or
	// the account is in a state that forbids login. The outcomes are
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyLoginAttempts indicates the sliding-window throttle rejected
	// the attempt before credentials were checked.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
	// ErrEmailTaken indicates another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNicknameTaken indicates another account already uses the nickname.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrInvalidEmail indicates the supplied email does not parse.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidNickname indicates the supplied nickname is not URL-safe.
	ErrInvalidNickname = errors.New("invalid nickname")
	// ErrInvalidProfileURL indicates a profile link is not an absolute http(s) URL.
	ErrInvalidProfileURL = errors.New("invalid profile url")
	// ErrInvalidRole indicates the supplied role is not a defined member.
	ErrInvalidRole = errors.New("invalid role")
	// ErrPasswordPolicyViolation indicates the password failed a policy rule.
	ErrPasswordPolicyViolation = errors.New("password policy violation")
	// ErrInvalidEvent indicates an analytics event failed validation.
	ErrInvalidEvent = errors.New("invalid analytics event")
)
