package score

import (
	"fmt"
	"sort"

	"github.com/pairrecall/pairrecall/internal/record"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

// PhaseInput is everything needed to score one phase.
type PhaseInput struct {
	Index     int
	Condition string
	Pairs     []wordset.WordPair
	Answers   map[int]string
}

// PhaseReport is the scored result of one phase.
type PhaseReport struct {
	Index     int
	Condition string
	Summary   Summary
	Percent   float64
}

// Report aggregates both phases of a session.
type Report struct {
	// Available is false when the persisted table could not be read; Reason
	// then says why and every other field is zero.
	Available bool
	Reason    string

	SessionID string
	PhaseSize int
	Phases    []PhaseReport

	CombinedCorrect int
	CombinedTotal   int

	// Difference is the last phase's percentage minus the first's.
	Difference float64
}

// Unavailable returns the sentinel report used when scoring cannot run.
func Unavailable(reason string) Report {
	return Report{Reason: reason}
}

// CombinedPercent returns the overall score as a percentage.
func (r Report) CombinedPercent() float64 {
	if r.CombinedTotal == 0 {
		return 0
	}
	return float64(r.CombinedCorrect) / float64(r.CombinedTotal) * 100
}

// Build scores each phase against the fixed nominal phase size.
func Build(sessionID string, phases []PhaseInput, phaseSize int) Report {
	r := Report{
		Available: true,
		SessionID: sessionID,
		PhaseSize: phaseSize,
	}
	for _, in := range phases {
		sum := Summarize(in.Pairs, in.Answers)
		r.Phases = append(r.Phases, PhaseReport{
			Index:     in.Index,
			Condition: in.Condition,
			Summary:   sum,
			Percent:   sum.Percent(phaseSize),
		})
		r.CombinedCorrect += sum.Correct
		r.CombinedTotal += phaseSize
	}
	if n := len(r.Phases); n >= 2 {
		r.Difference = r.Phases[n-1].Percent - r.Phases[0].Percent
	}
	return r
}

// FromRows rebuilds phase inputs from persisted rows and scores them.
func FromRows(rows []record.Row, phaseSize int) Report {
	if len(rows) == 0 {
		return Unavailable("record table has no rows")
	}

	byPhase := make(map[int]*PhaseInput)
	for _, row := range rows {
		in, ok := byPhase[row.PhaseIndex]
		if !ok {
			in = &PhaseInput{
				Index:     row.PhaseIndex,
				Condition: row.Condition,
				Answers:   make(map[int]string),
			}
			byPhase[row.PhaseIndex] = in
		}
		in.Pairs = append(in.Pairs, wordset.WordPair{WordID: row.WordID, Source: row.Source, Target: row.Target})
		in.Answers[row.WordID] = row.Answer
	}

	indexes := make([]int, 0, len(byPhase))
	for i := range byPhase {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	inputs := make([]PhaseInput, 0, len(indexes))
	for _, i := range indexes {
		inputs = append(inputs, *byPhase[i])
	}
	return Build(rows[0].SessionID, inputs, phaseSize)
}

// FromFile loads a record table and scores it. It never returns an error:
// a missing or unreadable file yields an unavailable report.
func FromFile(path string, phaseSize int) Report {
	rows, err := record.Load(path)
	if err != nil {
		return Unavailable(fmt.Sprintf("no report available: %v", err))
	}
	return FromRows(rows, phaseSize)
}

// ByCondition summarizes rows per condition label (P, N), ignoring phase.
func ByCondition(rows []record.Row) map[string]Summary {
	out := make(map[string]Summary)
	for _, row := range rows {
		s := out[row.Condition]
		s.Add(Classify(row.Answer, row.Target))
		out[row.Condition] = s
	}
	return out
}
