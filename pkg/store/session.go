package store

import "time"

// Turn is a single entry in a session's conversation history.
type Turn struct {
	Role      string    `json:"role"` // "user" | "assistant" | "agent" | "system"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Profile holds the fields the assistant learns about a user over the
// course of a conversation. Empty string / zero means "not known yet".
type Profile struct {
	Name                string `json:"name,omitempty"`
	TargetCountry       string `json:"target_country,omitempty"`
	VisaType            string `json:"visa_type,omitempty"`
	EducationLevel      string `json:"education_level,omitempty"`
	WorkExperienceYears int    `json:"work_experience_years,omitempty"`
}

// Session represents the active conversational state for one chat thread.
// It lives in the session repository (in-memory or redis) and is only
// mutated through the session service, which serializes writes per session.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Profile      Profile   `json:"profile"`
	History      []Turn    `json:"history"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Clone returns a deep copy so callers can read a session without racing
// against writers. History order is preserved.
func (s *Session) Clone() *Session {
	cp := *s
	cp.History = make([]Turn, len(s.History))
	copy(cp.History, s.History)
	return &cp
}
