package session

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/pairrecall/pairrecall/internal/wordset"
)

func makeWords(n int) *wordset.WordSet {
	ws := &wordset.WordSet{Origin: "test"}
	for i := 1; i <= n; i++ {
		ws.Pairs = append(ws.Pairs, wordset.WordPair{WordID: i, Source: "s", Target: "t"})
	}
	return ws
}

func seeded(seed uint64) StartOptions {
	return StartOptions{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b9))}
}

func TestNextPhase_LinearSequence(t *testing.T) {
	want := []Phase{
		PhaseWelcome, PhaseConsent, PhaseInstructions,
		PhaseMemorize1, PhaseDistractor1, PhaseQuiz1,
		PhaseMemorize2, PhaseDistractor2, PhaseQuiz2,
		PhaseResults,
	}
	p := PhaseWelcome
	for i, w := range want {
		if p != w {
			t.Fatalf("step %d: phase = %s, want %s", i, p, w)
		}
		p = NextPhase(p)
	}
	if NextPhase(PhaseResults) != PhaseResults {
		t.Error("results should be terminal")
	}
}

func TestPhase_Timed(t *testing.T) {
	timed := map[Phase]bool{
		PhaseMemorize1: true, PhaseDistractor1: true, PhaseQuiz1: true,
		PhaseMemorize2: true, PhaseDistractor2: true, PhaseQuiz2: true,
	}
	for p := PhaseWelcome; p <= PhaseResults; p++ {
		if p.Timed() != timed[p] {
			t.Errorf("%s.Timed() = %v", p, p.Timed())
		}
	}
}

func TestPhase_Index(t *testing.T) {
	tests := []struct {
		p    Phase
		want int
	}{
		{PhaseConsent, -1},
		{PhaseMemorize1, 0},
		{PhaseQuiz1, 0},
		{PhaseDistractor2, 1},
		{PhaseQuiz2, 1},
		{PhaseResults, -1},
	}
	for _, tt := range tests {
		if got := tt.p.Index(); got != tt.want {
			t.Errorf("%s.Index() = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for p := PhaseWelcome; p <= PhaseResults; p++ {
		got, ok := ParsePhase(p.String())
		if !ok || got != p {
			t.Errorf("ParsePhase(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParsePhase("nope"); ok {
		t.Error("expected unknown phase to fail")
	}
}

func TestStart_DisjointFullRounds(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		s, warnings := Start(makeWords(60), seeded(seed))
		if len(warnings) != 0 {
			t.Fatalf("unexpected warnings: %v", warnings)
		}
		if len(s.Phase1) != 25 || len(s.Phase2) != 25 {
			t.Fatalf("sizes = %d/%d", len(s.Phase1), len(s.Phase2))
		}
		seen := make(map[int]bool)
		for _, p := range append(append([]wordset.WordPair{}, s.Phase1...), s.Phase2...) {
			if seen[p.WordID] {
				t.Fatalf("seed %d: word %d in both rounds", seed, p.WordID)
			}
			seen[p.WordID] = true
		}
	}
}

func TestStart_SmallSetWarns(t *testing.T) {
	s, warnings := Start(makeWords(12), seeded(1))
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(s.Phase1)+len(s.Phase2) != 12 {
		t.Errorf("sizes = %d/%d", len(s.Phase1), len(s.Phase2))
	}
}

func TestStart_EmptySetUsesBuiltin(t *testing.T) {
	s, warnings := Start(&wordset.WordSet{}, seeded(1))
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want empty-set and degraded", warnings)
	}
	if s.WordSource != "builtin" {
		t.Errorf("WordSource = %q", s.WordSource)
	}
}

func TestStart_Identity(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	opts := seeded(2)
	opts.Now = func() time.Time { return fixed }

	s, _ := Start(makeWords(50), opts)
	if !regexp.MustCompile(`^[0-9a-f]{8}$`).MatchString(s.ID) {
		t.Errorf("ID = %q, want 8 hex chars", s.ID)
	}
	if !s.StartedAt.Equal(fixed) {
		t.Errorf("StartedAt = %v", s.StartedAt)
	}

	other, _ := Start(makeWords(50), seeded(2))
	if other.ID == s.ID {
		t.Error("expected distinct session ids")
	}
}

func TestCondition_Counterbalancing(t *testing.T) {
	s := &Session{PersonalizedFirst: true}
	if s.Condition(0) != "P" || s.Condition(1) != "N" || s.OrderLabel() != "PN" {
		t.Errorf("PN session: %s %s %s", s.Condition(0), s.Condition(1), s.OrderLabel())
	}

	s.ApplyDemographics(Demographics{PersonalizedFirst: false, KnowsSourceLanguage: KnowsNo, DistractorUsage: UsageHigh})
	if s.Condition(0) != "N" || s.Condition(1) != "P" || s.OrderLabel() != "NP" {
		t.Errorf("NP session: %s %s %s", s.Condition(0), s.Condition(1), s.OrderLabel())
	}
	if s.KnowsSourceLanguage.String() != "no" || s.DistractorUsage.String() != "high" {
		t.Errorf("demographics = %s %s", s.KnowsSourceLanguage, s.DistractorUsage)
	}
}

func TestParseLabels(t *testing.T) {
	for _, k := range []KnowsLanguage{KnowsUnspecified, KnowsYes, KnowsNo} {
		if ParseKnowsLanguage(k.String()) != k {
			t.Errorf("round trip %s", k)
		}
	}
	for _, u := range []DistractorUsage{UsageUnspecified, UsageLow, UsageMedium, UsageHigh} {
		if ParseDistractorUsage(u.String()) != u {
			t.Errorf("round trip %s", u)
		}
	}
	if ParseDistractorUsage(" HIGH ") != UsageHigh {
		t.Error("expected case-insensitive parse")
	}
}
