package memory

import (
	"context"
	"sync"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/repository/contract"
)

// HandoffRepository is the in-memory handoff store used in tests and
// DB-less runs. Records are copied on the way in and out so callers never
// share mutable state with the store.
type HandoffRepository struct {
	mu      sync.RWMutex
	records map[string]*entity.Handoff
}

var _ contract.HandoffRepository = &HandoffRepository{}

func NewHandoffRepository() *HandoffRepository {
	return &HandoffRepository{
		records: make(map[string]*entity.Handoff),
	}
}

func (r *HandoffRepository) Save(_ context.Context, handoff *entity.Handoff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *handoff
	r.records[handoff.SessionID] = &cp
	return nil
}

func (r *HandoffRepository) FindBySessionID(_ context.Context, sessionID string) (*entity.Handoff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *HandoffRepository) FindAllByStatus(_ context.Context, status string) ([]*entity.Handoff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Handoff
	for _, rec := range r.records {
		if rec.Status == status {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}
