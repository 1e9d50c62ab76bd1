package model

import "time"

// RelayMessage rides the table's autoincrement primary key for its ordering
// guarantee: ids are assigned by the store at insert time and are strictly
// increasing across all sessions.
type RelayMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(64);not null;index:idx_relay_session_id" json:"session_id"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RelayMessage) TableName() string {
	return "relay_messages"
}
