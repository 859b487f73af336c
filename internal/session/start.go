package session

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pairrecall/pairrecall/internal/wordset"
)

// DefaultPhaseSize is the nominal number of words per round.
const DefaultPhaseSize = 25

// idLength is the number of hex characters kept from the uuid.
const idLength = 8

// StartOptions configures Start. Zero values select defaults.
type StartOptions struct {
	PhaseSize int
	Rand      *rand.Rand
	Now       func() time.Time
}

// NewID returns a short random session identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}

// Start creates a session over words. It never fails: a word set too small
// for two full rounds is split into best-effort disjoint halves and the
// returned warnings say so.
func Start(words *wordset.WordSet, opts StartOptions) (*Session, []string) {
	if opts.PhaseSize <= 0 {
		opts.PhaseSize = DefaultPhaseSize
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var warnings []string
	if words == nil || words.Len() == 0 {
		warnings = append(warnings, "word set is empty; using the built-in word list")
		words = wordset.Default()
	}

	first, second, degraded := words.Split(opts.PhaseSize, opts.Rand)
	if degraded {
		warnings = append(warnings, fmt.Sprintf(
			"word set has %d pairs, fewer than the %d needed; rounds use %d and %d words",
			words.Len(), 2*opts.PhaseSize, len(first), len(second)))
	}

	return &Session{
		ID:         NewID(),
		Phase1:     first,
		Phase2:     second,
		StartedAt:  opts.Now(),
		WordSource: words.Origin,
		// PN until the consent screen says otherwise.
		PersonalizedFirst: true,
	}, warnings
}
