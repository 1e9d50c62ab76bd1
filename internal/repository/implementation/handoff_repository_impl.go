package implementation

import (
	"context"
	"errors"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/mapper"
	"recruit-assist-be/internal/model"
	"recruit-assist-be/internal/repository/contract"

	"gorm.io/gorm"
)

type HandoffRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RelayMapper
}

func NewHandoffRepository(db *gorm.DB) contract.HandoffRepository {
	return &HandoffRepositoryImpl{
		db:     db,
		mapper: mapper.NewRelayMapper(),
	}
}

func (r *HandoffRepositoryImpl) Save(ctx context.Context, handoff *entity.Handoff) error {
	m := r.mapper.HandoffToModel(handoff)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*handoff = *r.mapper.HandoffToEntity(m)
	return nil
}

func (r *HandoffRepositoryImpl) FindBySessionID(ctx context.Context, sessionID string) (*entity.Handoff, error) {
	var m model.Handoff
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.HandoffToEntity(&m), nil
}

func (r *HandoffRepositoryImpl) FindAllByStatus(ctx context.Context, status string) ([]*entity.Handoff, error) {
	var models []*model.Handoff
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Handoff, len(models))
	for i, m := range models {
		out[i] = r.mapper.HandoffToEntity(m)
	}
	return out, nil
}
