// Package journal records input sessions in SQLite: every dispatched event
// with the state it was dispatched under, and every gesture completion.
package journal

import (
	"time"

	"interact/internal/event"
)

// Session is one recorded run.
type Session struct {
	ID        int64
	Source    string
	StartedAt time.Time
	EndedAt   *time.Time

	EventCount  int64
	FiringCount int64
}

// Entry is a recorded event. Seq is its position within the session.
type Entry struct {
	SessionID   int64
	Seq         int64
	TimestampNs int64
	Event       event.Event
	State       event.State
}

// Firing is a recorded gesture completion, attributed to the event that
// caused it.
type Firing struct {
	SessionID   int64
	Seq         int64
	Gesture     string
	TimestampNs int64
}
