package service

import "sync"

// sessionLocks hands out one mutex per session id so writers to the same
// conversation serialize while unrelated sessions proceed in parallel. Locks
// are never evicted; the map grows with the number of distinct sessions seen
// by this instance, which the session TTL keeps bounded in practice.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the session's mutex and returns the unlock func.
func (l *sessionLocks) Lock(sessionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// NewChatLocks builds the lock set shared by the chat and handoff services.
// Sharing one set is what makes the handoff status check and the response
// persist a single critical section.
func NewChatLocks() *sessionLocks {
	return newSessionLocks()
}
