package dto

import (
	"time"

	"recruit-assist-be/pkg/nlp"
	"recruit-assist-be/pkg/rag"
	"recruit-assist-be/pkg/store"
)

type SendMessageRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type SendMessageResponse struct {
	SessionID  string       `json:"session_id"`
	Response   string       `json:"response"`
	Intent     string       `json:"intent,omitempty"`
	Confidence float32      `json:"confidence,omitempty"`
	Entities   nlp.Entities `json:"entities,omitempty"`
	Sources    []rag.Source `json:"sources,omitempty"`

	// AgentActive is true when a human agent owns the session and the
	// message was relayed instead of answered by the assistant.
	AgentActive bool `json:"agent_active"`
}

type CreateSessionRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TurnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type GetSessionResponse struct {
	SessionID    string         `json:"session_id"`
	UserID       string         `json:"user_id"`
	Profile      store.Profile  `json:"profile"`
	History      []TurnResponse `json:"history"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}

// UpdateProfileRequest merges only the fields the client actually sent;
// omitted fields keep their current value, hence the pointers.
type UpdateProfileRequest struct {
	Name                *string `json:"name"`
	TargetCountry       *string `json:"target_country"`
	VisaType            *string `json:"visa_type"`
	EducationLevel      *string `json:"education_level"`
	WorkExperienceYears *int    `json:"work_experience_years" validate:"omitempty,gte=0,lte=60"`
}

type RelayMessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionUpdatesResponse is the poll payload. Clients feed NextCursor back
// as ?after=N; re-polling with the same cursor returns the same messages.
type SessionUpdatesResponse struct {
	Messages         []RelayMessageResponse `json:"messages"`
	NextCursor       int64                  `json:"next_cursor"`
	PollAfterSeconds int                    `json:"poll_after_seconds"`
}
