package score

import (
	"strings"

	"github.com/pairrecall/pairrecall/internal/wordset"
)

// Outcome classifies a single answer against its target.
type Outcome int

const (
	NoAnswer Outcome = iota
	Correct
	Incorrect
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "no_answer"
	}
}

// noneLiteral is how some participants (and spreadsheet round-trips) mark a
// skipped answer.
const noneLiteral = "none"

// Normalize trims surrounding whitespace and folds case.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsBlank reports whether an answer counts as not given.
func IsBlank(answer string) bool {
	n := Normalize(answer)
	return n == "" || n == noneLiteral
}

// Classify compares answer to target, case-insensitive and whitespace-trimmed.
func Classify(answer, target string) Outcome {
	if IsBlank(answer) {
		return NoAnswer
	}
	if Normalize(answer) == Normalize(target) {
		return Correct
	}
	return Incorrect
}

// Summary counts outcomes for one phase.
type Summary struct {
	Correct   int
	Incorrect int
	NoAnswer  int
}

// Total returns the number of classified words.
func (s Summary) Total() int {
	return s.Correct + s.Incorrect + s.NoAnswer
}

// Answered returns the number of words with a non-blank answer.
func (s Summary) Answered() int {
	return s.Correct + s.Incorrect
}

// Percent returns correct over a fixed denominator, as a percentage.
// Unanswered words lower the score exactly like wrong ones.
func (s Summary) Percent(denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(s.Correct) / float64(denominator) * 100
}

// Add records one outcome.
func (s *Summary) Add(o Outcome) {
	switch o {
	case Correct:
		s.Correct++
	case Incorrect:
		s.Incorrect++
	default:
		s.NoAnswer++
	}
}

// Summarize classifies every pair in the phase, whether or not an answer is
// on record for it.
func Summarize(pairs []wordset.WordPair, answers map[int]string) Summary {
	var s Summary
	for _, p := range pairs {
		s.Add(Classify(answers[p.WordID], p.Target))
	}
	return s
}
