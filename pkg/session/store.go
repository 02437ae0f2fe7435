package session

import "context"

// Store defines the interface for session persistence.
// Sessions are addressed by their cookie token.
type Store interface {
	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Save creates or replaces the session stored under s.Token.
	Save(ctx context.Context, s *Session) error

	// Delete removes the session stored under token. Missing tokens are not an error.
	Delete(ctx context.Context, token string) error
}
