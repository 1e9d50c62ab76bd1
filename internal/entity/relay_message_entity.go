package entity

import "time"

// RelayMessage is one entry in the append-only chat relay. ID is a
// store-wide strictly increasing integer assigned at append time; its total
// order is the authoritative delivery order for polling clients. Entries are
// never mutated or removed.
type RelayMessage struct {
	ID        int64
	SessionID string
	Role      string // "user" | "assistant" | "agent" | "system"
	Content   string
	CreatedAt time.Time
}
