package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// eventRepo implements EventRepo with raw SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events
		(sequence, timestamp, session_id, action, order_label, word_source, record_path, knows_source_language, distractor_usage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, formatTime(time.Time{}), data.SessionID, data.Action, data.OrderLabel,
		data.WordSource, data.RecordPath, data.KnowsSourceLanguage, data.DistractorUsage,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendPhaseEvent(ctx context.Context, data PhaseEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO phase_events
		(sequence, timestamp, session_id, phase_index, condition, correct, incorrect, no_answer, persisted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, formatTime(data.Timestamp), data.SessionID, data.PhaseIndex, data.Condition,
		data.Correct, data.Incorrect, data.NoAnswer, data.Persisted,
	)
	if err != nil {
		return fmt.Errorf("save phase event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := `SELECT session_id, timestamp, order_label, word_source, record_path
		FROM session_events WHERE action = ? ORDER BY sequence DESC`
	args := []any{ActionStart}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	var sessions []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var ts string
		if err := rows.Scan(&s.SessionID, &ts, &s.OrderLabel, &s.WordSource, &s.RecordPath); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.StartedAt, err = parseTime(ts); err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	rows.Close()

	// The pool holds a single connection, so detail queries run only after
	// the outer cursor is closed.
	for i := range sessions {
		if err := r.fillDetails(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (r *eventRepo) fillDetails(ctx context.Context, s *SessionSummary) error {
	var ts string
	err := r.db.QueryRowContext(ctx,
		`SELECT timestamp, record_path FROM session_events
		 WHERE session_id = ? AND action = ? ORDER BY sequence DESC LIMIT 1`,
		s.SessionID, ActionEnd,
	).Scan(&ts, new(string))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("query session end: %w", err)
	default:
		if s.EndedAt, err = parseTime(ts); err != nil {
			return err
		}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT timestamp, phase_index, condition, correct, incorrect, no_answer, persisted
		 FROM phase_events WHERE session_id = ? ORDER BY sequence`,
		s.SessionID,
	)
	if err != nil {
		return fmt.Errorf("query phase events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := PhaseEventData{SessionID: s.SessionID}
		if err := rows.Scan(&ts, &p.PhaseIndex, &p.Condition, &p.Correct, &p.Incorrect, &p.NoAnswer, &p.Persisted); err != nil {
			return fmt.Errorf("scan phase event: %w", err)
		}
		if p.Timestamp, err = parseTime(ts); err != nil {
			return err
		}
		s.Phases = append(s.Phases, p)
	}
	return rows.Err()
}
