package results

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairrecall/pairrecall/internal/score"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

func TestComparison(t *testing.T) {
	tests := []struct {
		diff float64
		want string
	}{
		{12, "Improvement: +12.0% better in second test"},
		{-8, "Decline: -8.0% lower in second test"},
		{0, "Same performance in both tests"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Comparison(tt.diff))
	}
}

func testReport() score.Report {
	pairs := []wordset.WordPair{
		{WordID: 1, Source: "hestur", Target: "horse"},
		{WordID: 2, Source: "hundur", Target: "dog"},
	}
	return score.Build("abcd1234", []score.PhaseInput{
		{Index: 0, Condition: "P", Pairs: pairs[:1], Answers: map[int]string{1: "horse"}},
		{Index: 1, Condition: "N", Pairs: pairs[1:], Answers: map[int]string{2: ""}},
	}, 4)
}

func TestViewAvailable(t *testing.T) {
	s := New(testReport(), "/tmp/experiment_abcd1234.csv")
	view := s.View(120, 60)

	assert.Contains(t, view, "First Test Results")
	assert.Contains(t, view, "Correct Answers: 1 out of 4")
	assert.Contains(t, view, "Score: 25.0%")
	assert.Contains(t, view, "Second Test Results")
	assert.Contains(t, view, "Correct Answers: 0 out of 4")
	assert.Contains(t, view, "Decline")
	assert.Contains(t, view, "Thank you for your participation!")
}

func TestViewUnavailable(t *testing.T) {
	s := New(score.Unavailable("record file not found"), "")
	view := s.View(120, 40)

	assert.Contains(t, view, "Results are not available")
	assert.Contains(t, view, "record file not found")
	assert.NotContains(t, view, "Correct Answers")
}

func TestEnterQuits(t *testing.T) {
	s := New(testReport(), "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Nil(t, cmd)
}

func TestViewUnavailableShowsFallback(t *testing.T) {
	s := New(score.Unavailable("record file not found"), "").WithFallback(testReport())
	view := s.View(120, 80)

	assert.Contains(t, view, "Results are not available")
	assert.Contains(t, view, "were not saved")
	assert.Contains(t, view, "Correct Answers: 1 out of 4")
}

func TestFallbackIgnoredWhenReportAvailable(t *testing.T) {
	s := New(testReport(), "").WithFallback(testReport())
	view := s.View(120, 80)

	assert.NotContains(t, view, "were not saved")
}
