package session

import "errors"

// Session errors.
var (
	// ErrNotConfigured is returned when session functionality is used
	// but WithSession was not configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session or a session value does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrUnauthenticated is returned when an authenticated principal is required but absent.
	ErrUnauthenticated = errors.New("session: unauthenticated")

	// ErrTypeMismatch is returned when a stored value has an unexpected type.
	ErrTypeMismatch = errors.New("session: type mismatch")

	// ErrMarshal is returned when a session cannot be serialized for storage.
	ErrMarshal = errors.New("session: failed to marshal")

	// ErrUnmarshal is returned when stored session data cannot be decoded.
	ErrUnmarshal = errors.New("session: failed to unmarshal")
)
