package service

import (
	"context"
	"time"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/repository/contract"
)

// IRelayService exposes the append-only message relay. Both responder sides
// write through it and polling clients read from it, so relay order is the
// one order everybody observes.
type IRelayService interface {
	Append(ctx context.Context, sessionID, role, content string) (int64, error)
	ListSince(ctx context.Context, sessionID string, afterID int64) ([]*entity.RelayMessage, error)
	ListAll(ctx context.Context, sessionID string) ([]*entity.RelayMessage, error)
}

type relayService struct {
	repo contract.RelayMessageRepository
}

func NewRelayService(repo contract.RelayMessageRepository) IRelayService {
	return &relayService{repo: repo}
}

func (s *relayService) Append(ctx context.Context, sessionID, role, content string) (int64, error) {
	msg := &entity.RelayMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Append(ctx, msg); err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (s *relayService) ListSince(ctx context.Context, sessionID string, afterID int64) ([]*entity.RelayMessage, error) {
	return s.repo.FindBySessionSince(ctx, sessionID, afterID)
}

func (s *relayService) ListAll(ctx context.Context, sessionID string) ([]*entity.RelayMessage, error) {
	return s.repo.FindAllBySession(ctx, sessionID)
}
