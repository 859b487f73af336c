package pause

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pairrecall/pairrecall/internal/phasetimer"
	"github.com/pairrecall/pairrecall/internal/router"
	"github.com/pairrecall/pairrecall/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "next" }
func (s *stubScreen) Title() string                           { return "Next" }

func newTestPause(d time.Duration) (*PauseScreen, *int) {
	calls := 0
	p := New("Time's up!", "Take a breath.", d, func() screen.Screen {
		calls++
		return &stubScreen{}
	})
	return p, &calls
}

func expectReplace(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replacement screen should not be nil")
	}
}

func TestExpiryTransitions(t *testing.T) {
	p, calls := newTestPause(2 * time.Second)
	p.Init()

	_, cmd := p.Update(phasetimer.TickMsg{ID: p.timer.ID()})
	if cmd == nil || *calls != 0 {
		t.Fatalf("first tick should only reschedule, calls=%d", *calls)
	}

	_, cmd = p.Update(phasetimer.TickMsg{ID: p.timer.ID()})
	expectReplace(t, cmd)
	if *calls != 1 {
		t.Errorf("factory should be called once, got %d", *calls)
	}
}

func TestEnterSkipsAndCancelsTimer(t *testing.T) {
	p, calls := newTestPause(15 * time.Second)
	p.Init()

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	expectReplace(t, cmd)

	_, cmd = p.Update(phasetimer.TickMsg{ID: p.timer.ID()})
	if cmd != nil {
		t.Error("tick after skip should be dropped")
	}
	_, cmd = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("second enter should be ignored")
	}
	if *calls != 1 {
		t.Errorf("factory should be called exactly once, got %d", *calls)
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	p, calls := newTestPause(15 * time.Second)
	p.Init()
	_, cmd := p.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil || *calls != 0 {
		t.Error("only enter should end the pause")
	}
}
