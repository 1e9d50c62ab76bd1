package entity

import (
	"time"
)

// HandoffContact is the optional contact info a user leaves when asking for
// a human agent.
type HandoffContact struct {
	UserName   string `json:"user_name,omitempty"`
	UserMobile string `json:"user_mobile,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
}

// Handoff tracks which responder owns a session: the AI (no record, waiting
// or closed) or a human agent (joined). At most one record exists per
// session; reopening resets the same record instead of creating another.
// AgentID, AgentName and JoinedAt are set iff Status is "joined".
type Handoff struct {
	SessionID string
	Status    string
	Reason    string
	AgentID   string
	AgentName string
	JoinedAt  *time.Time
	Contact   HandoffContact
	// RelayedTurns counts how many session history turns have been copied
	// into the relay. Turns past this index still need a snapshot before an
	// agent reads the transcript.
	RelayedTurns int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
