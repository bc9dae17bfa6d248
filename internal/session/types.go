package session

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one immutable history entry. A user turn and its assistant turn
// are appended together, only after the exchange has fully completed.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// Stats is a point-in-time snapshot of one user's session.
type Stats struct {
	MessageCount  int
	HistoryTurns  int
	SearchEnabled bool
	CreatedAt     time.Time
	LastSeen      time.Time
}
