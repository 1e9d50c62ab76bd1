package contract

import (
	"context"

	"recruit-assist-be/pkg/store"
)

// SessionRepository stores conversational session state. Implementations
// are free to expire entries after an inactivity window; callers treat an
// expired session like a missing one.
type SessionRepository interface {
	Save(ctx context.Context, session *store.Session) error

	// Get returns nil (no error) when the session is absent or expired.
	Get(ctx context.Context, sessionID string) (*store.Session, error)
}
