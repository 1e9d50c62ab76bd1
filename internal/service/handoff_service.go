package service

import (
	"context"
	"fmt"
	"time"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/pkg/logger"
	"recruit-assist-be/internal/pkg/serverutils"
	"recruit-assist-be/internal/repository/contract"
	"recruit-assist-be/pkg/bus"
	"recruit-assist-be/pkg/events"
	"recruit-assist-be/pkg/sanitize"
	"recruit-assist-be/pkg/store"
)

// IHandoffService runs the human-agent takeover lifecycle. Status moves
// waiting -> joined -> closed, and a closed session can go back to waiting on
// a fresh request. At most one live responder exists per session at any time.
type IHandoffService interface {
	// Request puts the session into the waiting queue. The first request
	// snapshots the conversation so far into the relay; repeats while
	// waiting only refresh contact details.
	Request(ctx context.Context, req *dto.HandoffRequest) (*entity.Handoff, error)

	// WaitingSessions lists handoffs no agent has picked up yet.
	WaitingSessions(ctx context.Context) ([]*entity.Handoff, error)

	// Join assigns the agent to a waiting session. Exactly one concurrent
	// join succeeds; the rest see not-found.
	Join(ctx context.Context, sessionID, agentID, agentName string) (*entity.Handoff, error)

	// AgentMessage relays an agent reply into a joined session.
	AgentMessage(ctx context.Context, sessionID, agentID, content string) (int64, error)

	// Close ends the handoff. closedBy is "agent" or "user" and picks the
	// system notice written into the relay.
	Close(ctx context.Context, sessionID, closedBy string) (*entity.Handoff, error)

	// Status returns the handoff record, or nil when the session never
	// requested one.
	Status(ctx context.Context, sessionID string) (*entity.Handoff, error)
}

type handoffService struct {
	repo     contract.HandoffRepository
	relaySvc IRelayService
	sessions ISessionService
	locks    *sessionLocks
	bus      *bus.Bus
	logger   logger.ILogger
}

func NewHandoffService(
	repo contract.HandoffRepository,
	relaySvc IRelayService,
	sessions ISessionService,
	locks *sessionLocks,
	eventBus *bus.Bus,
	log logger.ILogger,
) IHandoffService {
	return &handoffService{
		repo:     repo,
		relaySvc: relaySvc,
		sessions: sessions,
		locks:    locks,
		bus:      eventBus,
		logger:   log,
	}
}

func (s *handoffService) Request(ctx context.Context, req *dto.HandoffRequest) (*entity.Handoff, error) {
	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	// Read the history inside the critical section so the snapshot cannot
	// miss a turn persisted by a concurrent message.
	sess, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	contact := entity.HandoffContact{
		UserName:   req.UserName,
		UserMobile: req.UserMobile,
		UserEmail:  req.UserEmail,
	}

	existing, err := s.repo.FindBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		// First request for this session: create the record and copy the
		// conversation so far into the relay so the joining agent sees it.
		handoff := &entity.Handoff{
			SessionID: req.SessionID,
			Status:    constant.HandoffStatusWaiting,
			Reason:    req.Reason,
			Contact:   contact,
			CreatedAt: time.Now(),
		}
		if err := s.repo.Save(ctx, handoff); err != nil {
			return nil, err
		}
		s.syncRelay(ctx, handoff, sess.History)
		s.publish(events.NewHandoffRequested(req.SessionID, req.Reason, req.UserName, req.UserMobile, req.UserEmail))
		return handoff, nil

	case existing.Status == constant.HandoffStatusWaiting:
		// Already queued: refresh contact details only. No second snapshot,
		// no duplicate notification.
		existing.Contact = contact
		if req.Reason != "" {
			existing.Reason = req.Reason
		}
		now := time.Now()
		existing.UpdatedAt = &now
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil

	case existing.Status == constant.HandoffStatusJoined:
		// An agent is already live on the session.
		return existing, nil

	default: // closed -> waiting (reopen)
		now := time.Now()
		existing.Status = constant.HandoffStatusWaiting
		existing.Reason = req.Reason
		existing.AgentID = ""
		existing.AgentName = ""
		existing.JoinedAt = nil
		existing.Contact = contact
		existing.UpdatedAt = &now
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		// Turns exchanged after the close have not been relayed yet; copy
		// only those, the rest of the transcript is already there.
		s.syncRelay(ctx, existing, sess.History)
		s.publish(events.NewHandoffRequested(req.SessionID, req.Reason, req.UserName, req.UserMobile, req.UserEmail))
		return existing, nil
	}
}

func (s *handoffService) WaitingSessions(ctx context.Context) ([]*entity.Handoff, error) {
	return s.repo.FindAllByStatus(ctx, constant.HandoffStatusWaiting)
}

func (s *handoffService) Join(ctx context.Context, sessionID, agentID, agentName string) (*entity.Handoff, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	handoff, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if handoff == nil || handoff.Status != constant.HandoffStatusWaiting {
		return nil, serverutils.NewNotFoundError("No waiting handoff for this session")
	}

	now := time.Now()
	handoff.Status = constant.HandoffStatusJoined
	handoff.AgentID = agentID
	handoff.AgentName = agentName
	handoff.JoinedAt = &now
	handoff.UpdatedAt = &now
	if err := s.repo.Save(ctx, handoff); err != nil {
		return nil, err
	}

	// Catch the relay up on turns exchanged while the handoff sat in the
	// queue, so the transcript the agent reads is complete.
	if sess, err := s.sessions.Get(ctx, sessionID); err == nil {
		s.syncRelay(ctx, handoff, sess.History)
	} else {
		s.logger.Warn("HandoffService", "Failed to read session before join", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	s.appendSystemNotice(ctx, sessionID, fmt.Sprintf("Agent %s joined the chat.", agentName))
	s.publish(events.NewAgentJoined(sessionID, agentID, agentName))
	return handoff, nil
}

func (s *handoffService) AgentMessage(ctx context.Context, sessionID, agentID, content string) (int64, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	handoff, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if handoff == nil || handoff.Status != constant.HandoffStatusJoined {
		return 0, serverutils.NewValidationError("No active handoff for this session")
	}
	if handoff.AgentID != agentID {
		return 0, serverutils.NewForbiddenError("Another agent owns this session")
	}

	// Agent replies are stored verbatim in the transcript users read back,
	// so they go through the same cleaning as user input.
	clean := sanitize.Clean(content, constant.MaxMessageLength)
	if clean == "" {
		return 0, serverutils.NewValidationError("Message is empty")
	}

	id, err := s.relaySvc.Append(ctx, sessionID, constant.ChatRoleAgent, clean)
	if err != nil {
		return 0, err
	}
	if err := s.sessions.AppendTurn(ctx, sessionID, constant.ChatRoleAgent, clean); err != nil {
		s.logger.Warn("HandoffService", "Failed to mirror agent turn into session history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	} else {
		// The mirrored turn is already in the relay; keep the counter in
		// step so the next sync does not copy it again.
		handoff.RelayedTurns++
		if err := s.repo.Save(ctx, handoff); err != nil {
			s.logger.Warn("HandoffService", "Failed to record relayed turn count", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
	return id, nil
}

func (s *handoffService) Close(ctx context.Context, sessionID, closedBy string) (*entity.Handoff, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	handoff, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if handoff == nil || handoff.Status == constant.HandoffStatusClosed {
		return nil, serverutils.NewNotFoundError("No open handoff for this session")
	}

	agentID := handoff.AgentID
	now := time.Now()
	handoff.Status = constant.HandoffStatusClosed
	handoff.AgentID = ""
	handoff.AgentName = ""
	handoff.JoinedAt = nil
	handoff.UpdatedAt = &now
	if err := s.repo.Save(ctx, handoff); err != nil {
		return nil, err
	}

	notice := constant.ChatEndedByUserNotice
	if closedBy == "agent" {
		notice = constant.ChatEndedByAgentNotice
	}
	s.appendSystemNotice(ctx, sessionID, notice)
	s.publish(events.NewHandoffClosed(sessionID, closedBy, agentID))
	return handoff, nil
}

func (s *handoffService) Status(ctx context.Context, sessionID string) (*entity.Handoff, error) {
	return s.repo.FindBySessionID(ctx, sessionID)
}

// syncRelay copies the history turns past RelayedTurns into the relay and
// advances the counter, so agents always read a complete transcript and no
// turn is ever copied twice. A failed copy is logged and skipped; losing a
// snapshot entry must not fail the handoff.
func (s *handoffService) syncRelay(ctx context.Context, handoff *entity.Handoff, history []store.Turn) {
	if handoff.RelayedTurns >= len(history) {
		return
	}

	for _, turn := range history[handoff.RelayedTurns:] {
		if _, err := s.relaySvc.Append(ctx, handoff.SessionID, turn.Role, turn.Content); err != nil {
			s.logger.Warn("HandoffService", "Failed to snapshot turn into relay", map[string]interface{}{
				"session_id": handoff.SessionID,
				"error":      err.Error(),
			})
		}
	}

	handoff.RelayedTurns = len(history)
	if err := s.repo.Save(ctx, handoff); err != nil {
		s.logger.Warn("HandoffService", "Failed to record relayed turn count", map[string]interface{}{
			"session_id": handoff.SessionID,
			"error":      err.Error(),
		})
	}
}

func (s *handoffService) appendSystemNotice(ctx context.Context, sessionID, notice string) {
	if _, err := s.relaySvc.Append(ctx, sessionID, constant.ChatRoleSystem, notice); err != nil {
		s.logger.Warn("HandoffService", "Failed to append system notice", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (s *handoffService) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event); err != nil {
		s.logger.Warn("HandoffService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
