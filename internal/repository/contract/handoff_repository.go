package contract

import (
	"context"

	"recruit-assist-be/internal/entity"
)

type HandoffRepository interface {
	// Save upserts the record for its session id.
	Save(ctx context.Context, handoff *entity.Handoff) error

	// FindBySessionID returns nil (no error) when no record exists.
	FindBySessionID(ctx context.Context, sessionID string) (*entity.Handoff, error)

	FindAllByStatus(ctx context.Context, status string) ([]*entity.Handoff, error)
}
