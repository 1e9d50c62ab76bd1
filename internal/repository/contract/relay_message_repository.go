package contract

import (
	"context"

	"recruit-assist-be/internal/entity"
)

// RelayMessageRepository is the append-only relay log. There are no update
// or delete operations.
type RelayMessageRepository interface {
	// Append stores the message and fills in its assigned ID, which is
	// strictly increasing across the whole store.
	Append(ctx context.Context, msg *entity.RelayMessage) error

	// FindBySessionSince returns messages with id > afterID, ascending by
	// id. Re-reads with the same cursor are idempotent.
	FindBySessionSince(ctx context.Context, sessionID string, afterID int64) ([]*entity.RelayMessage, error)

	// FindAllBySession returns the full ordered transcript.
	FindAllBySession(ctx context.Context, sessionID string) ([]*entity.RelayMessage, error)
}
