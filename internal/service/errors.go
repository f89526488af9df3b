package service

import "errors"

var (
	// ErrInvalidInput indicates user-supplied input failed validation before
	// any external call was made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLoginTaken indicates the requested login name is already registered.
	ErrLoginTaken = errors.New("login name is already taken")

	// ErrAuthenticationFailed covers wrong password, unknown login and wrong
	// recovery answer. Callers must not distinguish these cases to avoid
	// revealing whether a login exists.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrTokenGeneration indicates the session token could not be signed.
	ErrTokenGeneration = errors.New("failed to generate authentication token")

	// ErrNotOwner indicates the target plan or task belongs to another user.
	ErrNotOwner = errors.New("access denied")

	// ErrAdminDenied indicates the admin password did not match.
	ErrAdminDenied = errors.New("admin access denied")
)
