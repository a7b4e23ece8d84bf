package council

import "time"

// Status tracks a session through its deliberation lifecycle.
type Status string

const (
	StatusCreated   Status = "created"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// rank orders statuses along the lifecycle; transitions must strictly increase.
func (s Status) rank() int {
	switch s {
	case StatusCreated:
		return 0
	case StatusRunning:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo reports whether moving from s to next is a legal
// step along created → running → {completed, failed}.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	return next.rank() > s.rank()
}

// Session captures one deliberation over a single topic.
type Session struct {
	ID         string    `json:"sessionId"`
	Mode       string    `json:"mode"`
	Topic      string    `json:"topic"`
	Councilors []string  `json:"councilors"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	Messages   []Message `json:"messages"`
	Consensus  string    `json:"consensus,omitempty"`
}

// Summary is the session view returned by GET /api/session/{id};
// it carries the message count instead of the transcript itself.
type Summary struct {
	SessionID    string    `json:"sessionId"`
	Mode         string    `json:"mode"`
	Topic        string    `json:"topic"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
	Consensus    string    `json:"consensus,omitempty"`
}

// Summary projects the session into its polling view.
func (s Session) Summary() Summary {
	return Summary{
		SessionID:    s.ID,
		Mode:         s.Mode,
		Topic:        s.Topic,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		MessageCount: len(s.Messages),
		Consensus:    s.Consensus,
	}
}
