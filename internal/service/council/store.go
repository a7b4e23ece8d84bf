package council

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"council-chamber/internal/model/council"
)

var (
	ErrTopicRequired     = errors.New("topic is required")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// DefaultMode tags sessions created without an explicit mode. The tag is
// informational; it does not change how the deliberation runs.
const DefaultMode = "legislative"

// DefaultPanel is the councilor line-up applied when a request names none.
func DefaultPanel() []string {
	return []string{"speaker", "technocrat", "ethicist", "pragmatist", "skeptic"}
}

// Store is the single source of truth for session state. Reads return
// consistent snapshots; mutations serialize per store.
type Store interface {
	Create(ctx context.Context, topic, mode string, councilors []string) (council.Session, error)
	Get(ctx context.Context, sessionID string) (council.Session, error)
	Messages(ctx context.Context, sessionID string) ([]council.Message, error)
	AppendMessage(ctx context.Context, sessionID string, msg council.Message) error
	SetStatus(ctx context.Context, sessionID string, status council.Status, consensus string) error
}

// MemoryStore keeps all sessions in process memory. Sessions are never
// deleted; expiry is out of scope.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*council.Session
}

// NewMemoryStore bootstraps an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*council.Session)}
}

// Create allocates a fresh session with status created.
func (s *MemoryStore) Create(_ context.Context, topic, mode string, councilors []string) (council.Session, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return council.Session{}, ErrTopicRequired
	}
	if mode == "" {
		mode = DefaultMode
	}
	if len(councilors) == 0 {
		councilors = DefaultPanel()
	}

	session := council.Session{
		ID:         uuid.NewString(),
		Mode:       mode,
		Topic:      topic,
		Councilors: append([]string(nil), councilors...),
		Status:     council.StatusCreated,
		CreatedAt:  time.Now().UTC(),
		Messages:   make([]council.Message, 0, len(councilors)+2),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &session
	s.mu.Unlock()

	return snapshot(&session), nil
}

// Get retrieves a consistent snapshot of a session.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (council.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return council.Session{}, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// Messages returns a copy of the session transcript in append order.
func (s *MemoryStore) Messages(_ context.Context, sessionID string) ([]council.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := make([]council.Message, len(session.Messages))
	copy(copied, session.Messages)
	return copied, nil
}

// AppendMessage atomically appends one turn to the transcript.
func (s *MemoryStore) AppendMessage(_ context.Context, sessionID string, msg council.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	session.Messages = append(session.Messages, msg)
	return nil
}

// SetStatus is the only way a session advances along its lifecycle.
// Transitions out of a terminal state are rejected; consensus is stored
// only alongside completion.
func (s *MemoryStore) SetStatus(_ context.Context, sessionID string, status council.Status, consensus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if !session.Status.CanTransitionTo(status) {
		return ErrInvalidTransition
	}
	session.Status = status
	if status == council.StatusCompleted {
		session.Consensus = consensus
	}
	return nil
}

// Len reports how many sessions the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// snapshot deep-copies the mutable slices so callers never observe a
// partial append.
func snapshot(session *council.Session) council.Session {
	copied := *session
	copied.Councilors = append([]string(nil), session.Councilors...)
	copied.Messages = make([]council.Message, len(session.Messages))
	copy(copied.Messages, session.Messages)
	return copied
}
