package model

import (
	"time"

	"gorm.io/datatypes"
)

// Handoff is the persisted handoff record. One row per session, keyed by
// session id; reopen rewrites the row, nothing is ever deleted.
type Handoff struct {
	SessionID string         `gorm:"type:varchar(64);primaryKey" json:"session_id"`
	Status    string         `gorm:"type:varchar(16);not null;index:idx_handoffs_status" json:"status"`
	Reason    string         `gorm:"type:text" json:"reason,omitempty"`
	AgentID   string         `gorm:"type:varchar(64)" json:"agent_id,omitempty"`
	AgentName string         `gorm:"type:varchar(128)" json:"agent_name,omitempty"`
	JoinedAt  *time.Time     `json:"joined_at,omitempty"`
	Contact   datatypes.JSON `gorm:"type:jsonb" json:"contact,omitempty"`
	// Count of session history turns already copied into the relay.
	RelayedTurns int        `gorm:"not null;default:0" json:"relayed_turns"`
	CreatedAt    time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (Handoff) TableName() string {
	return "handoffs"
}
