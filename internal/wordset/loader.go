package wordset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoPairs is returned when a source parses but yields no usable pairs.
var ErrNoPairs = errors.New("no word pairs found")

// Columns maps each column role to the header names accepted for it,
// in priority order. Matching is case-insensitive on trimmed headers.
//
// Resolution order per file:
//  1. the first configured name found in the header row, per role;
//  2. if neither Source nor Target matched, position: with three or more
//     columns id/source/target, with two columns source/target;
//  3. without an id column, ids are assigned from the row number (1-based).
type Columns struct {
	ID     []string `yaml:"id"`
	Source []string `yaml:"source"`
	Target []string `yaml:"target"`
}

// DefaultColumns returns the mapping used when none is configured.
func DefaultColumns() Columns {
	return Columns{
		ID:     []string{"word_id", "id"},
		Source: []string{"source_text", "source", "ice", "icelandic"},
		Target: []string{"target_text", "target", "eng", "english"},
	}
}

// columnIndex holds resolved positions; -1 means absent.
type columnIndex struct {
	id, source, target int
}

// Load reads a word source. CSV and XLSX (first sheet) are supported,
// selected by file extension. The first row is always a header row.
func Load(path string, cols Columns) (*WordSet, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrNoPairs
	}

	idx, err := resolveColumns(rows[0], cols)
	if err != nil {
		return nil, err
	}

	pairs, err := buildPairs(rows[1:], idx)
	if err != nil {
		return nil, err
	}
	return &WordSet{Pairs: pairs, Origin: path}, nil
}

// LoadOrDefault loads path and falls back to the built-in list on failure.
// The returned error, when non-nil, is a *DataLoadError describing why the
// fallback happened; the returned set is always usable.
func LoadOrDefault(path string, cols Columns) (*WordSet, error) {
	if path == "" {
		return Default(), &DataLoadError{Path: path, Err: errors.New("no word source configured")}
	}
	ws, err := Load(path, cols)
	if err != nil {
		return Default(), &DataLoadError{Path: path, Err: err}
	}
	return ws, nil
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".csv", ".txt":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported word source format %q", filepath.Ext(path))
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func resolveColumns(header []string, cols Columns) (columnIndex, error) {
	find := func(names []string) int {
		for _, name := range names {
			want := strings.ToLower(strings.TrimSpace(name))
			for i, h := range header {
				if strings.ToLower(strings.TrimSpace(h)) == want {
					return i
				}
			}
		}
		return -1
	}

	idx := columnIndex{
		id:     find(cols.ID),
		source: find(cols.Source),
		target: find(cols.Target),
	}

	if idx.source < 0 && idx.target < 0 {
		switch {
		case len(header) >= 3:
			idx = columnIndex{id: 0, source: 1, target: 2}
		case len(header) == 2:
			idx = columnIndex{id: -1, source: 0, target: 1}
		default:
			return idx, fmt.Errorf("cannot resolve source/target columns from header %v", header)
		}
	}
	if idx.source < 0 || idx.target < 0 {
		return idx, fmt.Errorf("header %v has only one of the source/target columns", header)
	}
	return idx, nil
}

func buildPairs(rows [][]string, idx columnIndex) ([]WordPair, error) {
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := make(map[int]bool)
	var pairs []WordPair
	for n, row := range rows {
		source := cell(row, idx.source)
		target := cell(row, idx.target)
		if source == "" || target == "" {
			continue
		}

		id := n + 1
		if idx.id >= 0 {
			parsed, err := parseID(cell(row, idx.id))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			id = parsed
		}
		if seen[id] {
			return nil, fmt.Errorf("row %d: duplicate word id %d", n+2, id)
		}
		seen[id] = true

		pairs = append(pairs, WordPair{WordID: id, Source: source, Target: target})
	}

	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}

// parseID accepts plain integers and integral floats ("12.0"), which is how
// spreadsheet exports often render id cells.
func parseID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid word id %q", s)
	}
	return int(f), nil
}
