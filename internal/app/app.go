package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/pairrecall/pairrecall/internal/flow"
	"github.com/pairrecall/pairrecall/internal/router"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	flow   *flow.Flow
	logger *zap.Logger
	width  int
	height int
}

// newAppModel creates an AppModel showing the flow's current phase.
func newAppModel(f *flow.Flow, logger *zap.Logger) AppModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return AppModel{
		router: router.New(f.Initial()),
		flow:   f,
		logger: logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.logger.Info("quit by user", zap.Stringer("phase", m.flow.Phase()))
			return m, tea.Quit
		}

	case screen.PhaseDoneMsg:
		next, err := m.flow.Advance(context.Background(), msg.Result)
		if err != nil {
			m.logger.Warn("dropped phase result", zap.Error(err))
			return m, nil
		}
		return m, m.router.Replace(next)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render composes the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	step, total := m.flow.Phase().Step()
	header := layout.RenderHeader(title, step, total, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(f *flow.Flow, logger *zap.Logger) error {
	p := tea.NewProgram(newAppModel(f, logger))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
