// Package analysis computes the offline statistics over a directory of
// session record tables: per-participant accuracy by condition, normality
// checks, paired and independent rank tests, and sample-size estimation.
package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pairrecall/pairrecall/internal/record"
)

// ErrBadOrders is returned for an order table that can't be used.
var ErrBadOrders = errors.New("invalid order table")

// Order table column candidates, compared case-insensitively.
var (
	orderIDColumns    = []string{"session_id", "experimentid", "id"}
	orderLabelColumns = []string{"order_label", "condition", "order"}
)

// Batch is every record row found in a data directory.
type Batch struct {
	Rows  []record.Row
	Files []string
	// Skipped lists files that are not readable record tables.
	Skipped []string
}

// LoadDir reads every *.csv in dir as a record table. Files that fail to
// parse (such as an order table kept in the same directory) are skipped and
// reported rather than failing the batch.
func LoadDir(dir string) (*Batch, error) {
	paths, err := record.List(dir)
	if err != nil {
		return nil, err
	}
	b := &Batch{}
	for _, p := range paths {
		rows, err := record.Load(p)
		if err != nil {
			b.Skipped = append(b.Skipped, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		b.Rows = append(b.Rows, rows...)
		b.Files = append(b.Files, p)
	}
	return b, nil
}

// LoadOrders reads the condition-order table: one row per session with its
// order label, PN or NP.
func LoadOrders(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open order table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse order table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrBadOrders)
	}

	idCol := findColumn(records[0], orderIDColumns)
	labelCol := findColumn(records[0], orderLabelColumns)
	if idCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("%w: need session_id and order_label columns, got %v", ErrBadOrders, records[0])
	}

	orders := make(map[string]string, len(records)-1)
	for n, rec := range records[1:] {
		if idCol >= len(rec) || labelCol >= len(rec) {
			return nil, fmt.Errorf("%w: line %d is short", ErrBadOrders, n+2)
		}
		id := strings.TrimSpace(rec[idCol])
		label := strings.ToUpper(strings.TrimSpace(rec[labelCol]))
		if id == "" && label == "" {
			continue
		}
		if label != "PN" && label != "NP" {
			return nil, fmt.Errorf("%w: line %d: order label %q is not PN or NP", ErrBadOrders, n+2, rec[labelCol])
		}
		if prev, ok := orders[id]; ok && prev != label {
			return nil, fmt.Errorf("%w: session %s listed as both %s and %s", ErrBadOrders, id, prev, label)
		}
		orders[id] = label
	}
	return orders, nil
}

func findColumn(header, candidates []string) int {
	for _, want := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
	}
	return -1
}
