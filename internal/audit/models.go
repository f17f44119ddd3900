package audit

import "time"

// Event records one monitoring action for the operational trail. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	OccurredAt time.Time
	Job        string // e.g. "cache-refresh", "notify"
	Subject    string // domain or user email the action concerned
	Action     string
	Outcome    string // "ok" or "error"
	Detail     string
}

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
