package dialogue

import (
	"sync"
	"time"
)

// DefaultIdleExpiry matches the window the assistant already treats as
// "same conversation" for follow-ups.
const DefaultIdleExpiry = 2 * time.Minute

// Manager owns at most one active flight session. Turns arriving after
// the idle window discard the stale session instead of resuming it.
type Manager struct {
	mu      sync.Mutex
	session *Session
	expiry  time.Duration
	now     func() time.Time
}

func NewManager(expiry time.Duration) *Manager {
	if expiry <= 0 {
		expiry = DefaultIdleExpiry
	}
	return &Manager{expiry: expiry, now: time.Now}
}

// Start begins a new session, replacing any existing one, and returns
// the first prompt.
func (m *Manager) Start(departure, arrival string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = NewSession(departure, arrival)
	return m.session.Prompt()
}

// Active reports whether a live (non-expired) session is waiting for
// the next answer.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live()
}

func (m *Manager) live() bool {
	if m.session == nil {
		return false
	}
	if m.now().Sub(m.session.lastTurn) > m.expiry {
		m.session = nil
		return false
	}
	return true
}

// Feed routes one user turn into the active session. ok is false when
// there is no live session and the turn should be handled elsewhere.
func (m *Manager) Feed(input string) (reply string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.live() {
		return "", false
	}
	reply, done := m.session.Advance(input)
	if done {
		m.session = nil
	}
	return reply, true
}
