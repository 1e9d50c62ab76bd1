package implementation

import (
	"context"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/mapper"
	"recruit-assist-be/internal/model"
	"recruit-assist-be/internal/repository/contract"

	"gorm.io/gorm"
)

type RelayMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RelayMapper
}

func NewRelayMessageRepository(db *gorm.DB) contract.RelayMessageRepository {
	return &RelayMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewRelayMapper(),
	}
}

// Append relies on the autoincrement primary key for the store-wide
// monotonic id; the database assigns it atomically at insert time.
func (r *RelayMessageRepositoryImpl) Append(ctx context.Context, msg *entity.RelayMessage) error {
	m := r.mapper.MessageToModel(msg)
	m.ID = 0 // let the store assign it
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*msg = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *RelayMessageRepositoryImpl) FindBySessionSince(ctx context.Context, sessionID string, afterID int64) ([]*entity.RelayMessage, error) {
	var models []*model.RelayMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND id > ?", sessionID, afterID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.RelayMessage, len(models))
	for i, m := range models {
		out[i] = r.mapper.MessageToEntity(m)
	}
	return out, nil
}

func (r *RelayMessageRepositoryImpl) FindAllBySession(ctx context.Context, sessionID string) ([]*entity.RelayMessage, error) {
	return r.FindBySessionSince(ctx, sessionID, 0)
}
