// Package quiz presents one phase's word pairs in a shuffled order and
// collects free-text answers keyed by word id.
package quiz

import (
	"math/rand/v2"

	"github.com/pairrecall/pairrecall/internal/score"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

// Quiz holds presentation order, the cursor, and the answers given so far.
// Answers are keyed by word id, never by presentation position.
type Quiz struct {
	pairs   []wordset.WordPair
	order   []int
	current int
	answers map[int]string
	expired bool
}

// New builds a quiz over pairs with a random presentation order.
func New(pairs []wordset.WordPair, rng *rand.Rand) *Quiz {
	answers := make(map[int]string, len(pairs))
	for _, p := range pairs {
		answers[p.WordID] = ""
	}
	return &Quiz{
		pairs:   pairs,
		order:   rng.Perm(len(pairs)),
		answers: answers,
	}
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	return len(q.pairs)
}

// Current returns the presentation index of the active question.
func (q *Quiz) Current() int {
	return q.current
}

// PairAt returns the pair shown at presentation index i.
func (q *Quiz) PairAt(i int) (wordset.WordPair, bool) {
	if i < 0 || i >= len(q.order) {
		return wordset.WordPair{}, false
	}
	return q.pairs[q.order[i]], true
}

// CurrentPair returns the pair of the active question.
func (q *Quiz) CurrentPair() (wordset.WordPair, bool) {
	return q.PairAt(q.current)
}

// Next moves to the following question; no-op on the last one.
func (q *Quiz) Next() {
	q.JumpTo(q.current + 1)
}

// Previous moves to the preceding question; no-op on the first one.
func (q *Quiz) Previous() {
	q.JumpTo(q.current - 1)
}

// JumpTo moves to presentation index i. Out-of-range indexes are ignored.
func (q *Quiz) JumpTo(i int) {
	if i < 0 || i >= len(q.order) {
		return
	}
	q.current = i
}

// RecordAnswer stores text as the answer for wordID, replacing any earlier
// answer. Text is kept verbatim; normalization happens at scoring time.
// Unknown ids and answers after expiry are ignored.
func (q *Quiz) RecordAnswer(wordID int, text string) {
	if q.expired {
		return
	}
	if _, ok := q.answers[wordID]; !ok {
		return
	}
	q.answers[wordID] = text
}

// Answer returns the stored answer for wordID.
func (q *Quiz) Answer(wordID int) string {
	return q.answers[wordID]
}

// Answered reports whether the question at presentation index i has a
// non-blank answer.
func (q *Quiz) Answered(i int) bool {
	p, ok := q.PairAt(i)
	if !ok {
		return false
	}
	return !score.IsBlank(q.answers[p.WordID])
}

// AnsweredCount returns how many questions have a non-blank answer.
func (q *Quiz) AnsweredCount() int {
	n := 0
	for i := range q.order {
		if q.Answered(i) {
			n++
		}
	}
	return n
}

// Expired reports whether Expire has been called.
func (q *Quiz) Expired() bool {
	return q.expired
}

// Expire freezes the quiz and returns a copy of the full answer map, one
// entry per word id (empty when unanswered). Calling it again returns the
// same answers.
func (q *Quiz) Expire() map[int]string {
	q.expired = true
	out := make(map[int]string, len(q.answers))
	for id, a := range q.answers {
		out[id] = a
	}
	return out
}

// NextUnanswered returns the first unanswered index after the current one,
// wrapping around, or -1 when every question has an answer.
func (q *Quiz) NextUnanswered() int {
	n := len(q.order)
	for step := 1; step <= n; step++ {
		i := (q.current + step) % n
		if !q.Answered(i) {
			return i
		}
	}
	return -1
}
