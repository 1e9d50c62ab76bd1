package events

import "time"

// Event codes published by the handoff lifecycle. Other platform services
// (agent console, notification fan-out) consume these off the bus.
const (
	TypeHandoffRequested = "HANDOFF_REQUESTED"
	TypeAgentJoined      = "AGENT_JOINED"
	TypeHandoffClosed    = "HANDOFF_CLOSED"
)

func NewHandoffRequested(sessionID, reason, userName, userMobile, userEmail string) Event {
	return BaseEvent{
		Type: TypeHandoffRequested,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"reason":      reason,
			"user_name":   userName,
			"user_mobile": userMobile,
			"user_email":  userEmail,
		},
		OccurredAt: time.Now(),
	}
}

func NewAgentJoined(sessionID, agentID, agentName string) Event {
	return BaseEvent{
		Type: TypeAgentJoined,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"agent_id":   agentID,
			"agent_name": agentName,
		},
		OccurredAt: time.Now(),
	}
}

func NewHandoffClosed(sessionID, closedBy, agentID string) Event {
	return BaseEvent{
		Type: TypeHandoffClosed,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"closed_by":  closedBy, // "agent" | "user"
			"agent_id":   agentID,
		},
		OccurredAt: time.Now(),
	}
}
