// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for session lifecycle operations.
// These errors represent business rule failures and are mapped to
// transport-level responses by upper layers.
var (
	// ErrInvalidCredentials indicates that the provided username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSessionNotFound indicates that no session matches the given lookup key.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionInvalid indicates a transition precondition failure:
	// wrong status or an expired token pair.
	ErrSessionInvalid = errors.New("session is not valid")

	// ErrInvalidToken indicates a token that fails cryptographic or claim
	// verification, or that has been denied.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConcurrencyConflict indicates a stale-version write: another
	// request mutated the session between read and write.
	ErrConcurrencyConflict = errors.New("session was modified concurrently")

	// ErrStoreUnavailable indicates a transient infrastructure failure.
	// It is kept distinct from ErrInvalidCredentials so an outage is never
	// reported as a wrong password.
	ErrStoreUnavailable = errors.New("store unavailable")
)
