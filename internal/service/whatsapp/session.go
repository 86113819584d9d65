package whatsapp

import (
	"sync"
	"time"
)

// SessionTracker remembers recently handled message IDs so a webhook Meta delivers
// twice does not record the same production twice.
type SessionTracker struct {
	seen map[string]time.Time
	ttl  time.Duration
	mu   sync.Mutex
	now  func() time.Time
}

// NewSessionTracker creates a tracker that forgets IDs after ttl.
func NewSessionTracker(ttl time.Duration) *SessionTracker {
	return &SessionTracker{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// FirstSeen records the message ID and reports whether it was new.
func (st *SessionTracker) FirstSeen(messageID string) bool {
	if messageID == "" {
		return true
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	for id, at := range st.seen {
		if now.Sub(at) > st.ttl {
			delete(st.seen, id)
		}
	}

	if _, ok := st.seen[messageID]; ok {
		return false
	}
	st.seen[messageID] = now
	return true
}
