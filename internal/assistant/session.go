package assistant

import (
	"sync"
	"time"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/google/uuid"
)

// Step is one completed turn in a session transcript.
type Step struct {
	UserText string
	Response string
	Intent   domain.Intent
	// Handled is true when a domain handler produced the response.
	Handled bool
	At      time.Time
}

// Session holds per-conversation state: the verified identity and the
// transcript. It is never persisted.
type Session struct {
	mu       sync.Mutex
	id       string
	mode     domain.AgentMode
	identity *domain.Verification
	steps    []Step
}

// NewSession starts an unverified session.
func NewSession(mode domain.AgentMode) *Session {
	return &Session{id: uuid.New().String(), mode: mode}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Mode() domain.AgentMode { return s.mode }

// Verified reports whether an identity has been established.
func (s *Session) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// Identity returns the cached verification, or a zero value when unverified.
func (s *Session) Identity() domain.Verification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domain.Verification{}
	}
	return *s.identity
}

// Verify caches a successful verification. Failed results are ignored and an
// existing identity is never replaced.
func (s *Session) Verify(v domain.Verification) {
	if !v.OK {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		s.identity = &v
	}
}

// Transcript returns a copy of the completed steps.
func (s *Session) Transcript() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Clear drops the identity and transcript and starts a new session id.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.New().String()
	s.identity = nil
	s.steps = nil
}

func (s *Session) append(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}
