// Package record reads and writes the per-session answer table: a flat CSV
// file with one row per (word, phase), created with empty answers when the
// first quiz starts and patched in place as each quiz completes.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Header is the exact column set of a record table, in file order.
var Header = []string{
	"id",
	"word_id",
	"source_text",
	"target_text",
	"answer",
	"phase_index",
	"condition",
	"knows_source_language",
	"distractor_usage",
}

// ErrNotFound is returned when no record file exists for a session.
var ErrNotFound = errors.New("record file not found")

// Row is one persisted answer record.
type Row struct {
	SessionID           string
	WordID              int
	Source              string
	Target              string
	Answer              string
	PhaseIndex          int
	Condition           string
	KnowsSourceLanguage string
	DistractorUsage     string
}

// FileName returns the record file name for a session started at t.
func FileName(sessionID string, t time.Time) string {
	return fmt.Sprintf("experiment_%s_%s.csv", sessionID, t.Format("20060102_150405"))
}

// Latest returns the newest record file for sessionID in dir. File names
// embed a sortable timestamp, so lexical order is chronological.
func Latest(dir, sessionID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "experiment_"+sessionID+"_*.csv"))
	if err != nil {
		return "", fmt.Errorf("glob records: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// List returns every CSV file in dir, sorted by name.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob records: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Create writes a new record table at path, creating parent directories.
func Create(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return write(path, rows)
}

// PatchAnswers overwrites the answer column of every row in the given phase
// whose word id appears in answers. Rows of the other phase are untouched.
func PatchAnswers(path string, phase int, answers map[int]string) error {
	rows, err := Load(path)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].PhaseIndex != phase {
			continue
		}
		if a, ok := answers[rows[i].WordID]; ok {
			rows[i].Answer = a
		}
	}
	return write(path, rows)
}

// Load reads a record table. Columns are located by header name so files
// with reordered or extra columns still load.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse record %s: empty file", path)
	}

	pos := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		pos[h] = i
	}
	for _, required := range []string{"id", "word_id", "target_text", "answer", "phase_index"} {
		if _, ok := pos[required]; !ok {
			return nil, fmt.Errorf("parse record %s: missing column %q", path, required)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := pos[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		wordID, err := strconv.Atoi(get(rec, "word_id"))
		if err != nil {
			return nil, fmt.Errorf("parse record %s line %d: word_id: %w", path, n+2, err)
		}
		phase, err := strconv.Atoi(get(rec, "phase_index"))
		if err != nil {
			return nil, fmt.Errorf("parse record %s line %d: phase_index: %w", path, n+2, err)
		}
		rows = append(rows, Row{
			SessionID:           get(rec, "id"),
			WordID:              wordID,
			Source:              get(rec, "source_text"),
			Target:              get(rec, "target_text"),
			Answer:              get(rec, "answer"),
			PhaseIndex:          phase,
			Condition:           get(rec, "condition"),
			KnowsSourceLanguage: get(rec, "knows_source_language"),
			DistractorUsage:     get(rec, "distractor_usage"),
		})
	}
	return rows, nil
}

func write(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.SessionID,
			strconv.Itoa(r.WordID),
			r.Source,
			r.Target,
			r.Answer,
			strconv.Itoa(r.PhaseIndex),
			r.Condition,
			r.KnowsSourceLanguage,
			r.DistractorUsage,
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush record: %w", err)
	}
	return f.Close()
}
