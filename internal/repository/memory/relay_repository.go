package memory

import (
	"context"
	"sync"
	"time"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/repository/contract"
)

// RelayMessageRepository is the in-memory relay log. A single counter under
// the mutex hands out store-wide strictly increasing ids, mirroring the
// autoincrement column of the persistent implementation.
type RelayMessageRepository struct {
	mu       sync.RWMutex
	nextID   int64
	messages []*entity.RelayMessage
}

var _ contract.RelayMessageRepository = &RelayMessageRepository{}

func NewRelayMessageRepository() *RelayMessageRepository {
	return &RelayMessageRepository{nextID: 1}
}

func (r *RelayMessageRepository) Append(_ context.Context, msg *entity.RelayMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = r.nextID
	r.nextID++
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	cp := *msg
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *RelayMessageRepository) FindBySessionSince(_ context.Context, sessionID string, afterID int64) ([]*entity.RelayMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.RelayMessage
	// Append order equals id order, so a single forward scan stays sorted.
	for _, msg := range r.messages {
		if msg.SessionID == sessionID && msg.ID > afterID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *RelayMessageRepository) FindAllBySession(ctx context.Context, sessionID string) ([]*entity.RelayMessage, error) {
	return r.FindBySessionSince(ctx, sessionID, 0)
}
