package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/pairrecall/pairrecall/internal/wordset"
)

// Condition labels written to the record table.
const (
	ConditionPersonalized    = "P"
	ConditionNonPersonalized = "N"
)

// Order labels of the condition-order table.
const (
	OrderPN = "PN"
	OrderNP = "NP"
)

// KnowsLanguage records whether the participant already knows the source
// language.
type KnowsLanguage int

const (
	KnowsUnspecified KnowsLanguage = iota
	KnowsYes
	KnowsNo
)

func (k KnowsLanguage) String() string {
	switch k {
	case KnowsYes:
		return "yes"
	case KnowsNo:
		return "no"
	}
	return "unspecified"
}

// DistractorUsage is the participant's self-reported short-video usage.
type DistractorUsage int

const (
	UsageUnspecified DistractorUsage = iota
	UsageLow
	UsageMedium
	UsageHigh
)

func (u DistractorUsage) String() string {
	switch u {
	case UsageLow:
		return "low"
	case UsageMedium:
		return "medium"
	case UsageHigh:
		return "high"
	}
	return "unspecified"
}

// ParseKnowsLanguage maps a stored label back to KnowsLanguage. Unknown
// labels are unspecified.
func ParseKnowsLanguage(s string) KnowsLanguage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return KnowsYes
	case "no":
		return KnowsNo
	}
	return KnowsUnspecified
}

// ParseDistractorUsage maps a stored label back to DistractorUsage.
func ParseDistractorUsage(s string) DistractorUsage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UsageLow
	case "medium":
		return UsageMedium
	case "high":
		return UsageHigh
	}
	return UsageUnspecified
}

// Demographics is what the consent screen collects.
type Demographics struct {
	KnowsSourceLanguage KnowsLanguage
	DistractorUsage     DistractorUsage
	// PersonalizedFirst assigns the personalized condition to round 0.
	PersonalizedFirst bool
}

// Session is the state of one participant's run. The two word subsets are
// disjoint and fixed at Start.
type Session struct {
	ID        string
	Phase1    []wordset.WordPair
	Phase2    []wordset.WordPair
	StartedAt time.Time

	// WordSource names where the word set came from ("builtin" or a path).
	WordSource string

	PersonalizedFirst   bool
	KnowsSourceLanguage KnowsLanguage
	DistractorUsage     DistractorUsage

	// RecordPath is empty until the record table has been written.
	RecordPath string

	// Answers holds the final answers of each round keyed by word id. The
	// in-memory copy is authoritative when a file write fails.
	Answers [2]map[int]string
}

// Pairs returns the word pairs of round i (0 or 1).
func (s *Session) Pairs(i int) []wordset.WordPair {
	switch i {
	case 0:
		return s.Phase1
	case 1:
		return s.Phase2
	}
	return nil
}

// Condition returns the P/N label of round i.
func (s *Session) Condition(i int) string {
	if (i == 0) == s.PersonalizedFirst {
		return ConditionPersonalized
	}
	return ConditionNonPersonalized
}

// OrderLabel returns PN when round 0 is personalized, NP otherwise.
func (s *Session) OrderLabel() string {
	if s.PersonalizedFirst {
		return OrderPN
	}
	return OrderNP
}

// ApplyDemographics copies the consent answers into the session.
func (s *Session) ApplyDemographics(d Demographics) {
	s.KnowsSourceLanguage = d.KnowsSourceLanguage
	s.DistractorUsage = d.DistractorUsage
	s.PersonalizedFirst = d.PersonalizedFirst
}

func (s *Session) String() string {
	return fmt.Sprintf("session %s (%d+%d words, %s)", s.ID, len(s.Phase1), len(s.Phase2), s.OrderLabel())
}
