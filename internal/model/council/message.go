package council

import "time"

// Role tags what part a message plays in the deliberation.
type Role string

const (
	RoleOpening      Role = "opening"
	RoleContribution Role = "contribution"
	RoleSynthesis    Role = "synthesis"
)

// Message is one councilor turn. Immutable once appended.
type Message struct {
	Councilor string    `json:"councilor"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
