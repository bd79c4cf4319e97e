package screening

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Manager hands out session handles by id and expires inactive ones. At most
// one candidate session is expected at a time, but the HTTP surface still
// needs a stable handle per connection.
type Manager struct {
	mu                sync.RWMutex
	sessions          map[string]*Session
	systemPrompt      string
	inactivityTimeout time.Duration
	onExpire          func(*Session)
}

func NewManager(systemPrompt string, inactivityTimeout time.Duration) *Manager {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 30 * time.Minute
	}
	return &Manager{
		sessions:          make(map[string]*Session),
		systemPrompt:      systemPrompt,
		inactivityTimeout: inactivityTimeout,
	}
}

func (m *Manager) SetExpireHook(hook func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.systemPrompt)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) End(sessionID string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	s.status = StatusEnded
	s.LastActivityAt = time.Now().UTC()
	s.mu.Unlock()
	return s, nil
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.sessions {
		if s.Status() != StatusEnded {
			count++
		}
	}
	return count
}

// StartJanitor expires sessions with no activity past the timeout.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive()
			}
		}
	}()
}

func (m *Manager) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session

	m.mu.Lock()
	for _, s := range m.sessions {
		s.mu.Lock()
		if s.status != StatusEnded && now.Sub(s.LastActivityAt) >= m.inactivityTimeout {
			s.status = StatusEnded
			expired = append(expired, s)
		}
		s.mu.Unlock()
	}
	hook := m.onExpire
	m.mu.Unlock()

	if hook != nil {
		for _, s := range expired {
			hook(s)
		}
	}
}
