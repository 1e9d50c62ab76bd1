package mapper

import (
	"encoding/json"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/model"

	"gorm.io/datatypes"
)

type RelayMapper struct{}

func NewRelayMapper() *RelayMapper {
	return &RelayMapper{}
}

func (m *RelayMapper) MessageToEntity(msg *model.RelayMessage) *entity.RelayMessage {
	if msg == nil {
		return nil
	}
	return &entity.RelayMessage{
		ID:        msg.ID,
		SessionID: msg.SessionID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *RelayMapper) MessageToModel(msg *entity.RelayMessage) *model.RelayMessage {
	if msg == nil {
		return nil
	}
	return &model.RelayMessage{
		ID:        msg.ID,
		SessionID: msg.SessionID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *RelayMapper) HandoffToEntity(h *model.Handoff) *entity.Handoff {
	if h == nil {
		return nil
	}
	e := &entity.Handoff{
		SessionID:    h.SessionID,
		Status:       h.Status,
		Reason:       h.Reason,
		AgentID:      h.AgentID,
		AgentName:    h.AgentName,
		JoinedAt:     h.JoinedAt,
		RelayedTurns: h.RelayedTurns,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
	if len(h.Contact) > 0 {
		// A malformed contact blob is not worth failing a read over.
		_ = json.Unmarshal(h.Contact, &e.Contact)
	}
	return e
}

func (m *RelayMapper) HandoffToModel(h *entity.Handoff) *model.Handoff {
	if h == nil {
		return nil
	}
	contact, _ := json.Marshal(h.Contact)
	return &model.Handoff{
		SessionID:    h.SessionID,
		Status:       h.Status,
		Reason:       h.Reason,
		AgentID:      h.AgentID,
		AgentName:    h.AgentName,
		JoinedAt:     h.JoinedAt,
		Contact:      datatypes.JSON(contact),
		RelayedTurns: h.RelayedTurns,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}
