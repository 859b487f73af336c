package session

// Phase is one step of the linear experiment sequence.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseConsent
	PhaseInstructions
	PhaseMemorize1
	PhaseDistractor1
	PhaseQuiz1
	PhaseMemorize2
	PhaseDistractor2
	PhaseQuiz2
	PhaseResults
)

// Kind groups the timed phases by what the participant does in them.
type Kind int

const (
	KindNone Kind = iota
	KindMemorize
	KindDistractor
	KindQuiz
)

var phaseNames = [...]string{
	PhaseWelcome:      "welcome",
	PhaseConsent:      "consent",
	PhaseInstructions: "instructions",
	PhaseMemorize1:    "memorize1",
	PhaseDistractor1:  "distractor1",
	PhaseQuiz1:        "quiz1",
	PhaseMemorize2:    "memorize2",
	PhaseDistractor2:  "distractor2",
	PhaseQuiz2:        "quiz2",
	PhaseResults:      "results",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, bool) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), true
		}
	}
	return 0, false
}

// NextPhase returns the phase that follows p. Results is terminal.
func NextPhase(p Phase) Phase {
	if p < PhaseWelcome {
		return PhaseWelcome
	}
	if p >= PhaseResults {
		return PhaseResults
	}
	return p + 1
}

// Kind reports the activity of p.
func (p Phase) Kind() Kind {
	switch p {
	case PhaseMemorize1, PhaseMemorize2:
		return KindMemorize
	case PhaseDistractor1, PhaseDistractor2:
		return KindDistractor
	case PhaseQuiz1, PhaseQuiz2:
		return KindQuiz
	}
	return KindNone
}

// Timed reports whether p runs under a countdown.
func (p Phase) Timed() bool {
	return p.Kind() != KindNone
}

// Index returns the experiment round (0 or 1) of a timed phase, or -1.
func (p Phase) Index() int {
	switch {
	case p >= PhaseMemorize1 && p <= PhaseQuiz1:
		return 0
	case p >= PhaseMemorize2 && p <= PhaseQuiz2:
		return 1
	}
	return -1
}

// Step returns the 1-based position of p and the number of phases, for
// progress display.
func (p Phase) Step() (int, int) {
	return int(p) + 1, len(phaseNames)
}
