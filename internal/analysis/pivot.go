package analysis

import (
	"sort"

	"github.com/pairrecall/pairrecall/internal/record"
	"github.com/pairrecall/pairrecall/internal/score"
)

// Condition labels as written in record tables.
const (
	Personalized    = "P"
	NonPersonalized = "N"
)

// ConditionScore is one participant's result in one condition.
type ConditionScore struct {
	Correct int
	Total   int
}

// Accuracy is the fraction of the condition's words answered correctly, or
// 0 when the participant has no rows in the condition.
func (c ConditionScore) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

// Participant is the per-session row of the pivot table.
type Participant struct {
	SessionID string
	// Order is the PN/NP label from the order table, empty when unmapped.
	Order           string
	P               ConditionScore
	N               ConditionScore
	DistractorUsage string
}

// Pivot groups rows by session and condition. Every session present in rows
// yields one participant; orders supplies the order label (left join).
func Pivot(rows []record.Row, orders map[string]string) []Participant {
	bySession := make(map[string]*Participant)
	for _, row := range rows {
		p, ok := bySession[row.SessionID]
		if !ok {
			p = &Participant{
				SessionID:       row.SessionID,
				Order:           orders[row.SessionID],
				DistractorUsage: row.DistractorUsage,
			}
			bySession[row.SessionID] = p
		}

		var cs *ConditionScore
		switch row.Condition {
		case Personalized:
			cs = &p.P
		case NonPersonalized:
			cs = &p.N
		default:
			continue
		}
		cs.Total++
		if score.Classify(row.Answer, row.Target) == score.Correct {
			cs.Correct++
		}
	}

	out := make([]Participant, 0, len(bySession))
	for _, p := range bySession {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Unmapped returns the sessions with no order label.
func Unmapped(ps []Participant) []string {
	var ids []string
	for _, p := range ps {
		if p.Order == "" {
			ids = append(ids, p.SessionID)
		}
	}
	return ids
}

// Mapped returns the participants that have an order label.
func Mapped(ps []Participant) []Participant {
	var out []Participant
	for _, p := range ps {
		if p.Order != "" {
			out = append(out, p)
		}
	}
	return out
}

// Accuracies returns the P and N accuracy columns of ps.
func Accuracies(ps []Participant) (p, n []float64) {
	p = make([]float64, len(ps))
	n = make([]float64, len(ps))
	for i, part := range ps {
		p[i] = part.P.Accuracy()
		n[i] = part.N.Accuracy()
	}
	return p, n
}
