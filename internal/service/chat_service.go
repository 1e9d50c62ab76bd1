package service

import (
	"context"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/pkg/logger"
	"recruit-assist-be/internal/pkg/serverutils"
	"recruit-assist-be/internal/repository/contract"
	"recruit-assist-be/pkg/rag"
	"recruit-assist-be/pkg/sanitize"
)

// IChatService is the user-facing message path. One call in, one reply out,
// whether that reply comes from the assistant or is a forwarded notice while
// a human agent owns the session.
type IChatService interface {
	HandleMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

type chatService struct {
	sessions  ISessionService
	relaySvc  IRelayService
	handoffs  contract.HandoffRepository
	generator *rag.Generator
	locks     *sessionLocks
	logger    logger.ILogger
}

func NewChatService(
	sessions ISessionService,
	relaySvc IRelayService,
	handoffs contract.HandoffRepository,
	generator *rag.Generator,
	locks *sessionLocks,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions:  sessions,
		relaySvc:  relaySvc,
		handoffs:  handoffs,
		generator: generator,
		locks:     locks,
		logger:    log,
	}
}

func (s *chatService) HandleMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	clean := sanitize.Clean(req.Message, constant.MaxMessageLength)
	if clean == "" {
		return nil, serverutils.NewValidationError("Message is empty")
	}

	sess, err := s.sessions.Create(ctx, req.UserID, req.SessionID)
	if err != nil {
		return nil, err
	}

	// The handoff status read and everything persisted on its strength
	// share one critical section with joins and closes. An agent joining
	// mid-request observes either the whole AI exchange or none of it.
	unlock := s.locks.Lock(sess.ID)
	defer unlock()

	handoff, err := s.handoffs.FindBySessionID(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	if handoff != nil && handoff.Status == constant.HandoffStatusJoined {
		if err := s.sessions.AppendTurn(ctx, sess.ID, constant.ChatRoleUser, clean); err != nil {
			return nil, err
		}
		if _, err := s.relaySvc.Append(ctx, sess.ID, constant.ChatRoleUser, clean); err != nil {
			return nil, err
		}
		// This turn went to both stores at once; advance the relayed
		// counter so a later sync does not copy it a second time.
		handoff.RelayedTurns++
		if err := s.handoffs.Save(ctx, handoff); err != nil {
			s.logger.Warn("ChatService", "Failed to record relayed turn count", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		}
		return &dto.SendMessageResponse{
			SessionID:   sess.ID,
			Response:    constant.ForwardedToAgentNotice,
			AgentActive: true,
		}, nil
	}

	result := s.generator.Respond(ctx, clean, sess)

	if err := s.sessions.MergeEntities(ctx, sess.ID, result.Entities); err != nil {
		s.logger.Warn("ChatService", "Failed to merge entities into profile", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	// AI turns live in the session history only. They reach the relay via
	// the handoff snapshot, so writing them here too would duplicate them
	// the moment a handoff is requested.
	if err := s.sessions.AppendTurn(ctx, sess.ID, constant.ChatRoleUser, clean); err != nil {
		return nil, err
	}
	if err := s.sessions.AppendTurn(ctx, sess.ID, constant.ChatRoleAssistant, result.Response); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		SessionID:  sess.ID,
		Response:   result.Response,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Entities:   result.Entities,
		Sources:    result.Sources,
	}, nil
}
