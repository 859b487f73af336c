package wordset

import (
	"fmt"
	"math/rand/v2"
)

// WordPair is a single source/target association shown to the participant.
type WordPair struct {
	WordID int
	Source string
	Target string
}

// WordSet is the full catalog of pairs phases are drawn from, in storage order.
type WordSet struct {
	Pairs []WordPair

	// Origin is the file the set was read from, or "builtin".
	Origin string
}

// Len returns the number of pairs in the set.
func (ws *WordSet) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.Pairs)
}

// Split draws two disjoint subsets of n pairs each, without replacement.
// When the set holds fewer than 2n pairs it falls back to two disjoint halves
// of a shuffled copy and reports degraded=true.
func (ws *WordSet) Split(n int, rng *rand.Rand) (first, second []WordPair, degraded bool) {
	total := ws.Len()
	perm := rng.Perm(total)

	take := func(idx []int) []WordPair {
		out := make([]WordPair, 0, len(idx))
		for _, i := range idx {
			out = append(out, ws.Pairs[i])
		}
		return out
	}

	if total >= 2*n {
		return take(perm[:n]), take(perm[n : 2*n]), false
	}

	half := total / 2
	return take(perm[:half]), take(perm[half:]), true
}

// builtinPairs is used when the configured word source cannot be read.
var builtinPairs = []WordPair{
	{1, "hestur", "horse"},
	{2, "hundur", "dog"},
	{3, "köttur", "cat"},
	{4, "fugl", "bird"},
	{5, "fiskur", "fish"},
	{6, "hús", "house"},
	{7, "bók", "book"},
	{8, "vatn", "water"},
	{9, "sól", "sun"},
	{10, "tré", "tree"},
}

// Default returns a copy of the built-in word list.
func Default() *WordSet {
	pairs := make([]WordPair, len(builtinPairs))
	copy(pairs, builtinPairs)
	return &WordSet{Pairs: pairs, Origin: "builtin"}
}

// DataLoadError reports a word source that is missing or malformed.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load word source %q: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
