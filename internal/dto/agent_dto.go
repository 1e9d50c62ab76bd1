package dto

import "time"

type WaitingSessionResponse struct {
	SessionID   string    `json:"session_id"`
	Reason      string    `json:"reason,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	UserMobile  string    `json:"user_mobile,omitempty"`
	UserEmail   string    `json:"user_email,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

type JoinSessionResponse struct {
	SessionID  string                 `json:"session_id"`
	Status     string                 `json:"status"`
	AgentName  string                 `json:"agent_name"`
	Transcript []RelayMessageResponse `json:"transcript"`
}

type AgentSessionResponse struct {
	SessionID  string                 `json:"session_id"`
	Status     string                 `json:"status"`
	AgentID    string                 `json:"agent_id,omitempty"`
	AgentName  string                 `json:"agent_name,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
	UserName   string                 `json:"user_name,omitempty"`
	UserMobile string                 `json:"user_mobile,omitempty"`
	UserEmail  string                 `json:"user_email,omitempty"`
	Transcript []RelayMessageResponse `json:"transcript"`
}

type AgentMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type AgentMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

type CloseSessionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}
