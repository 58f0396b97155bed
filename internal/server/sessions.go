package server

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/zbdpay/zbd-mcp/internal/instrumentation"
)

// DefaultSessionTimeout is how long an idle session is kept before it is
// dropped from the tracker.
const DefaultSessionTimeout = 24 * time.Hour

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	registeredAt time.Time
	lastAccess   time.Time
}

// SessionTracker follows MCP client sessions through the server hooks and
// keeps the active_sessions gauge in step with them.
type SessionTracker struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	metrics        *instrumentation.Metrics
	sessionTimeout time.Duration
	cleanupTicker  *time.Ticker
	cleanupDone    chan struct{}
	stopOnce       sync.Once
	logger         *slog.Logger
}

// NewSessionTracker creates a tracker. metrics and logger may be nil.
// A timeout <= 0 means DefaultSessionTimeout.
func NewSessionTracker(metrics *instrumentation.Metrics, timeout time.Duration, logger *slog.Logger) *SessionTracker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}

	t := &SessionTracker{
		sessions:       make(map[string]*sessionInfo),
		metrics:        metrics,
		sessionTimeout: timeout,
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan struct{}),
		logger:         logger,
	}

	go t.cleanupExpiredSessions()

	return t
}

// Hooks returns server hooks that feed the tracker. Pass them to
// mcpserver.WithHooks when creating the MCP server.
func (t *SessionTracker) Hooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		t.Register(ctx, session.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		t.Remove(ctx, session.SessionID())
	})
	hooks.AddBeforeAny(func(ctx context.Context, _ any, _ mcp.MCPMethod, _ any) {
		if session := mcpserver.ClientSessionFromContext(ctx); session != nil {
			t.Touch(session.SessionID())
		}
	})
	return hooks
}

// Register records a new session. Registering a known id only refreshes it.
func (t *SessionTracker) Register(ctx context.Context, sessionID string) {
	t.mu.Lock()
	now := time.Now()
	if info, ok := t.sessions[sessionID]; ok {
		info.lastAccess = now
		t.mu.Unlock()
		return
	}
	t.sessions[sessionID] = &sessionInfo{registeredAt: now, lastAccess: now}
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.IncrementActiveSessions(ctx)
	}
	t.logger.Debug("session registered", "session_id", sessionID)
}

// Remove forgets a session. Unknown ids are ignored.
func (t *SessionTracker) Remove(ctx context.Context, sessionID string) {
	t.mu.Lock()
	_, ok := t.sessions[sessionID]
	delete(t.sessions, sessionID)
	t.mu.Unlock()

	if !ok {
		return
	}
	if t.metrics != nil {
		t.metrics.DecrementActiveSessions(ctx)
	}
	t.logger.Debug("session unregistered", "session_id", sessionID)
}

// Touch updates the last access time of a known session.
func (t *SessionTracker) Touch(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if info, ok := t.sessions[sessionID]; ok {
		info.lastAccess = time.Now()
	}
}

// ListSessions returns all active session IDs, sorted
func (t *SessionTracker) ListSessions() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sessions := make([]string, 0, len(t.sessions))
	for sessionID := range t.sessions {
		sessions = append(sessions, sessionID)
	}
	sort.Strings(sessions)
	return sessions
}

// Len returns the number of active sessions.
func (t *SessionTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// expire drops sessions idle for longer than the timeout and returns how
// many were removed.
func (t *SessionTracker) expire(now time.Time) int {
	t.mu.Lock()
	expired := 0
	for sessionID, info := range t.sessions {
		if now.Sub(info.lastAccess) > t.sessionTimeout {
			delete(t.sessions, sessionID)
			expired++
		}
	}
	t.mu.Unlock()

	if t.metrics != nil {
		for i := 0; i < expired; i++ {
			t.metrics.DecrementActiveSessions(context.Background())
		}
	}
	return expired
}

// cleanupExpiredSessions periodically removes expired sessions
func (t *SessionTracker) cleanupExpiredSessions() {
	for {
		select {
		case now := <-t.cleanupTicker.C:
			if n := t.expire(now); n > 0 {
				t.logger.Info("Cleaned up expired sessions", "count", n)
			}
		case <-t.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine. It is safe to call more than once.
func (t *SessionTracker) Stop() {
	t.stopOnce.Do(func() {
		t.cleanupTicker.Stop()
		close(t.cleanupDone)
	})
}
