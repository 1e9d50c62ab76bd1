package dto

import "time"

type HandoffRequest struct {
	SessionID  string `json:"session_id" validate:"required"`
	Reason     string `json:"reason"`
	UserName   string `json:"user_name"`
	UserMobile string `json:"user_mobile"`
	UserEmail  string `json:"user_email" validate:"omitempty,email"`
}

type HandoffResponse struct {
	SessionID string     `json:"session_id"`
	Status    string     `json:"status"`
	AgentName string     `json:"agent_name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
