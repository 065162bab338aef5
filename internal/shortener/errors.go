package shortener

import "errors"

var (
	// ErrInvalidURL is returned when the destination is not an absolute URL.
	ErrInvalidURL = errors.New("invalid destination url")
	// ErrInvalidAlias is returned when a custom alias does not match the code pattern.
	ErrInvalidAlias = errors.New("alias must be alphanumeric, max 15 characters")
	// ErrAliasTaken is returned when a custom alias is already registered.
	ErrAliasTaken = errors.New("alias already in use")
	// ErrDuplicateCode is returned by a Registry when an insert loses to an existing code.
	ErrDuplicateCode = errors.New("duplicate code")
	// ErrNotFound is returned when no record exists for a code.
	ErrNotFound = errors.New("short url not found")
	// ErrExpired is returned when resolving a record past its expiry.
	ErrExpired = errors.New("short url expired")
	// ErrCodeSpaceExhausted means a generated code collided twice in a row on insert.
	// It is an internal failure, not a problem with the caller's input.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique code")
)
