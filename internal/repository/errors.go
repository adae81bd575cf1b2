package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates an insert or update collided with the email uniqueness constraint.
	ErrDuplicateEmail = errors.New("repository: email already exists")
	// ErrDuplicateNickname indicates an insert or update collided with the nickname uniqueness constraint.
	ErrDuplicateNickname = errors.New("repository: nickname already exists")
)
