package service

import (
	"context"
	"fmt"

	"recruit-assist-be/internal/entity"
	"recruit-assist-be/internal/pkg/logger"
	"recruit-assist-be/internal/pkg/mailer"
	"recruit-assist-be/internal/websocket"
	"recruit-assist-be/pkg/bus"
	"recruit-assist-be/pkg/events"
	pktNats "recruit-assist-be/pkg/nats" // Renamed to avoid collision
)

// AlertDelivery defines how to push real-time alerts to agent consoles.
// Typically implemented by the WebSocket Hub.
type AlertDelivery interface {
	Broadcast(alert websocket.Alert)
	Send(agentID string, alert websocket.Alert)
}

// NotifierService drains the handoff event bus and fans each event out to
// the configured channels. Every channel is optional and every failure is
// logged and swallowed; notification is best-effort by contract.
type NotifierService struct {
	bus        *bus.Bus
	mailer     mailer.IEmailService
	publisher  *pktNats.Publisher
	delivery   AlertDelivery
	alertEmail string
	logger     logger.ILogger
}

func NewNotifierService(
	eventBus *bus.Bus,
	mail mailer.IEmailService,
	publisher *pktNats.Publisher,
	delivery AlertDelivery,
	alertEmail string,
	log logger.ILogger,
) *NotifierService {
	return &NotifierService{
		bus:        eventBus,
		mailer:     mail,
		publisher:  publisher,
		delivery:   delivery,
		alertEmail: alertEmail,
		logger:     log,
	}
}

// Start begins draining the bus. It returns after the subscription is set
// up; consumption runs until ctx is cancelled.
func (s *NotifierService) Start(ctx context.Context) error {
	msgs, err := s.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to handoff events: %w", err)
	}

	go func() {
		for msg := range msgs {
			event, err := bus.Decode(msg)
			if err != nil {
				s.logger.Warn("NotifierService", "Dropping undecodable event", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}
			s.handleEvent(ctx, event)
			msg.Ack()
		}
	}()

	s.logger.Info("NotifierService", "Notifier started, draining handoff events", nil)
	return nil
}

func (s *NotifierService) handleEvent(ctx context.Context, event events.Event) {
	payload := event.Payload()
	sessionID, _ := payload["session_id"].(string)

	switch event.EventType() {
	case events.TypeHandoffRequested:
		reason, _ := payload["reason"].(string)
		userName, _ := payload["user_name"].(string)

		if s.delivery != nil {
			s.delivery.Broadcast(websocket.Alert{
				Type:      "handoff_waiting",
				SessionID: sessionID,
				Reason:    reason,
				UserName:  userName,
			})
		}

		if s.mailer != nil && s.alertEmail != "" {
			userMobile, _ := payload["user_mobile"].(string)
			userEmail, _ := payload["user_email"].(string)
			contact := entity.HandoffContact{UserName: userName, UserMobile: userMobile, UserEmail: userEmail}
			if err := s.mailer.SendHandoffAlert(s.alertEmail, sessionID, reason, contact); err != nil {
				s.logger.Warn("NotifierService", "Handoff alert email failed", map[string]interface{}{
					"session_id": sessionID,
					"error":      err.Error(),
				})
			}
		}

		s.republish(ctx, event)

	case events.TypeHandoffClosed:
		// Tell the agent when the user hung up on their joined session.
		closedBy, _ := payload["closed_by"].(string)
		agentID, _ := payload["agent_id"].(string)
		if closedBy == "user" && agentID != "" && s.delivery != nil {
			s.delivery.Send(agentID, websocket.Alert{
				Type:      "handoff_closed",
				SessionID: sessionID,
			})
		}
		s.republish(ctx, event)

	default:
		s.republish(ctx, event)
	}
}

// republish mirrors the event onto NATS for the rest of the platform.
func (s *NotifierService) republish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("NotifierService", "NATS republish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
