package flow

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pairrecall/pairrecall/internal/config"
	"github.com/pairrecall/pairrecall/internal/router"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/screens/pause"
	"github.com/pairrecall/pairrecall/internal/screens/quiz"
	"github.com/pairrecall/pairrecall/internal/screens/results"
	"github.com/pairrecall/pairrecall/internal/screens/welcome"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

func testWords(n int) *wordset.WordSet {
	pairs := make([]wordset.WordPair, n)
	for i := range pairs {
		pairs[i] = wordset.WordPair{WordID: i + 1, Source: "s", Target: "t"}
	}
	return &wordset.WordSet{Pairs: pairs, Origin: "test"}
}

func newTestFlow(t *testing.T, breakLen time.Duration) *Flow {
	t.Helper()
	return newTestFlowIn(t, t.TempDir(), breakLen)
}

func newTestFlowIn(t *testing.T, dataDir string, breakLen time.Duration) *Flow {
	t.Helper()
	rng := rand.New(rand.NewPCG(5, 6))
	s, _ := session.Start(testWords(10), session.StartOptions{PhaseSize: 5, Rand: rng})
	logger := zaptest.NewLogger(t)
	ctrl := session.NewController(s, session.ControllerOptions{
		DataDir:   dataDir,
		PhaseSize: 5,
		Logger:    logger,
	})
	return New(ctrl, Options{
		Durations: config.Durations{
			Memorize:   time.Minute,
			Distractor: time.Minute,
			Quiz:       time.Minute,
			Break:      breakLen,
		},
		AllowSkip: true,
		Rand:      rng,
		Logger:    logger,
	})
}

// unwrap resolves a pause to the screen it leads to.
func unwrap(t *testing.T, s screen.Screen) (screen.Screen, bool) {
	t.Helper()
	p, ok := s.(*pause.PauseScreen)
	if !ok {
		return s, false
	}
	p.Init()
	_, cmd := p.Update(enterKey())
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	return msg.Screen, true
}

func TestScreenSequence(t *testing.T) {
	f := newTestFlow(t, 15*time.Second)
	ctx := context.Background()

	_, isWelcome := f.Initial().(*welcome.WelcomeScreen)
	require.True(t, isWelcome)

	steps := []struct {
		want      string
		wantPause bool
	}{
		{"*consent.ConsentScreen", false},
		{"*instructions.InstructionsScreen", false},
		{"*memorize.MemorizeScreen", false},
		{"*distractor.DistractorScreen", false},
		{"*quiz.QuizScreen", true},
		{"*memorize.MemorizeScreen", true},
		{"*distractor.DistractorScreen", false},
		{"*quiz.QuizScreen", true},
		{"*results.ResultsScreen", true},
	}

	for i, st := range steps {
		next, err := f.Advance(ctx, session.PhaseResult{Phase: f.Phase()})
		require.NoError(t, err, "step %d", i)
		got, paused := unwrap(t, next)
		assert.Equal(t, st.wantPause, paused, "step %d (%s) pause", i, f.Phase())
		assert.Equal(t, st.want, fmt.Sprintf("%T", got), "step %d (%s)", i, f.Phase())
	}
	assert.Equal(t, session.PhaseResults, f.Phase())
}

func TestNoPauseWithZeroBreak(t *testing.T) {
	f := newTestFlow(t, 0)
	ctx := context.Background()
	for f.Phase() != session.PhaseDistractor1 {
		_, err := f.Advance(ctx, session.PhaseResult{Phase: f.Phase()})
		require.NoError(t, err)
	}
	next, err := f.Advance(ctx, session.PhaseResult{Phase: session.PhaseDistractor1})
	require.NoError(t, err)
	_, ok := next.(*quiz.QuizScreen)
	assert.True(t, ok, "expected quiz directly, got %T", next)
}

func TestStaleResultRejected(t *testing.T) {
	f := newTestFlow(t, 0)
	next, err := f.Advance(context.Background(), session.PhaseResult{Phase: session.PhaseQuiz2})
	assert.True(t, errors.Is(err, session.ErrPhaseMismatch))
	assert.Nil(t, next)
	assert.Equal(t, session.PhaseWelcome, f.Phase())
}

func enterKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func TestResultsFallBackToMemoryWhenRecordMissing(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	f := newTestFlowIn(t, filepath.Join(blocker, "records"), 0)

	var last screen.Screen
	for f.Phase() != session.PhaseResults {
		next, err := f.Advance(context.Background(), session.PhaseResult{Phase: f.Phase()})
		require.NoError(t, err)
		last = next
	}
	rs, ok := last.(*results.ResultsScreen)
	require.True(t, ok, "got %T", last)

	view := rs.View(120, 80)
	assert.Contains(t, view, "Results are not available")
	assert.Contains(t, view, "were not saved")
}
