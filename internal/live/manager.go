package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/metrics"
	"github.com/starford/docshelf/internal/render"
)

// Options configures sessions opened by a Manager.
type Options struct {
	ContainerID   string
	SearchInputID string
	Debounce      time.Duration
	Reveal        *render.Revealer
	SessionTTL    time.Duration
	SweepInterval time.Duration
	MaxSessions   int
}

// Manager tracks open sessions and expires idle ones.
type Manager struct {
	svc    *docservice.Service
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(svc *docservice.Service, opts Options, logger *slog.Logger) *Manager {
	return &Manager{
		svc:      svc,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open bootstraps a new session: the initial render of the catalog filtered
// by query, then the search binding.
func (m *Manager) Open(ctx context.Context, query string) (*Session, error) {
	s := newSession(m.svc, m.opts, m.logger, m.now)
	if err := s.bootstrap(ctx, query, m.opts.Debounce); err != nil {
		s.Close()
		return nil, err
	}

	var evicted *Session
	m.mu.Lock()
	if m.opts.MaxSessions > 0 && len(m.sessions) >= m.opts.MaxSessions {
		evicted = m.oldestLocked()
		if evicted != nil {
			delete(m.sessions, evicted.id)
		}
	}
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()

	if evicted != nil {
		m.logger.Info("session evicted", slog.String("session", evicted.id))
		evicted.Close()
	}
	metrics.OpenSessions.Set(float64(n))
	m.logger.Debug("session opened", slog.String("session", s.id), slog.String("query", query))
	return s, nil
}

// oldestLocked picks the least recently active session, preferring ones
// without connected clients.
func (m *Manager) oldestLocked() *Session {
	var oldest, oldestIdle *Session
	for _, s := range m.sessions {
		seen := s.lastActivity()
		if oldest == nil || seen.Before(oldest.lastActivity()) {
			oldest = s
		}
		if s.Clients() == 0 && (oldestIdle == nil || seen.Before(oldestIdle.lastActivity())) {
			oldestIdle = s
		}
	}
	if oldestIdle != nil {
		return oldestIdle
	}
	return oldest
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions with no connected clients whose last activity is
// older than the session TTL. It returns the number of sessions closed.
func (m *Manager) Sweep() int {
	if m.opts.SessionTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.SessionTTL)

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.Clients() == 0 && s.lastActivity().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		m.logger.Debug("session expired", slog.String("session", s.id))
	}
	metrics.OpenSessions.Set(float64(n))
	return len(expired)
}

// Run sweeps idle sessions until ctx is cancelled, then closes every session.
func (m *Manager) Run(ctx context.Context) {
	interval := m.opts.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("sessions expired", slog.Int("count", n))
			}
		}
	}
}

// Close closes every open session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	metrics.OpenSessions.Set(0)
}
