package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned when an identifier is not a well-formed store key.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateEmail is returned when inserting a user whose email is already stored.
	ErrDuplicateEmail = errors.New("email already exists")
)
