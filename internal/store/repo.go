package store

import (
	"context"
	"time"
)

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID           string
	Action              string
	OrderLabel          string
	WordSource          string
	RecordPath          string
	KnowsSourceLanguage string
	DistractorUsage     string
}

// PhaseEventData captures the score of one finished quiz phase.
type PhaseEventData struct {
	SessionID  string
	PhaseIndex int
	Condition  string
	Correct    int
	Incorrect  int
	NoAnswer   int
	// Persisted is false when the record table could not be patched.
	Persisted bool
	Timestamp time.Time
}

// SessionSummary is one row of the session history.
type SessionSummary struct {
	SessionID  string
	StartedAt  time.Time
	EndedAt    time.Time // zero if the session never finished
	OrderLabel string
	WordSource string
	RecordPath string
	Phases     []PhaseEventData
}

// Finished reports whether an end event was recorded.
func (s SessionSummary) Finished() bool {
	return !s.EndedAt.IsZero()
}

// EventRepo provides append and query access to experiment events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendPhaseEvent records a finished quiz phase.
	AppendPhaseEvent(ctx context.Context, data PhaseEventData) error

	// RecentSessions returns the most recently started sessions, newest
	// first. limit <= 0 means no limit.
	RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error)
}

// SnapshotData captures the in-memory state of a running session.
type SnapshotData struct {
	Version           int               `json:"version"`
	SessionID         string            `json:"session_id"`
	Phase             string            `json:"phase"`
	PersonalizedFirst bool              `json:"personalized_first"`
	RecordPath        string            `json:"record_path,omitempty"`
	Answers           [2]map[int]string `json:"answers"`
}

// Snapshot represents a point-in-time capture of session state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages session state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for sessionID, or nil if none
	// exist.
	Latest(ctx context.Context, sessionID string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots of sessionID.
	Prune(ctx context.Context, sessionID string, keep int) error
}
