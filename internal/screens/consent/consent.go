package consent

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/ui/components"
	"github.com/pairrecall/pairrecall/internal/ui/layout"
	"github.com/pairrecall/pairrecall/internal/ui/theme"
)

const infoText = `This experiment studies memory for word pairs. It has two rounds.
In each round you study a list of word pairs, then watch short videos,
then type the translation of each word you studied.

Your answers are saved to a file for analysis under a random session id.
No name or contact details are recorded.
You can stop at any time by pressing Ctrl+C.`

// Question indices.
const (
	qKnows = iota
	qUsage
	qOrder
	numQuestions
)

var (
	knowsOptions = []string{"Yes", "No", "Prefer not to say"}
	knowsValues  = []session.KnowsLanguage{session.KnowsYes, session.KnowsNo, session.KnowsUnspecified}

	usageOptions = []string{"Low (under 30 min a day)", "Medium (30 min to 2 h a day)", "High (over 2 h a day)", "Prefer not to say"}
	usageValues  = []session.DistractorUsage{session.UsageLow, session.UsageMedium, session.UsageHigh, session.UsageUnspecified}

	orderOptions = []string{"PN: round 1 personalized", "NP: round 2 personalized"}
)

// ConsentScreen collects demographics and the condition order, then asks
// for agreement before the session starts. Declining quits the program.
type ConsentScreen struct {
	questions []components.MultiChoice
	step      int
	menu      components.Menu
	done      bool
}

var _ screen.Screen = (*ConsentScreen)(nil)
var _ screen.KeyHintProvider = (*ConsentScreen)(nil)

// New creates the consent screen. personalizedFirst preselects the order
// question; the experimenter can still change it.
func New(personalizedFirst bool) *ConsentScreen {
	orderDefault := 0
	if !personalizedFirst {
		orderDefault = 1
	}
	c := &ConsentScreen{
		questions: []components.MultiChoice{
			qKnows: components.NewMultiChoice("Do you know the source language of the words?", knowsOptions, 0),
			qUsage: components.NewMultiChoice("How much short-form video do you watch?", usageOptions, 0),
			qOrder: components.NewMultiChoice("Condition order (experimenter)", orderOptions, orderDefault),
		},
	}
	c.menu = components.NewMenu([]components.MenuItem{
		{Label: "I agree, start the experiment", Shortcut: "y", Action: c.agree},
		{Label: "I do not agree, exit", Shortcut: "n", Action: func() tea.Cmd { return tea.Quit }},
	})
	return c
}

func (c *ConsentScreen) Init() tea.Cmd {
	return nil
}

func (c *ConsentScreen) Title() string {
	return "Information"
}

func (c *ConsentScreen) KeyHints() []layout.KeyHint {
	if c.step == numQuestions {
		return []layout.KeyHint{
			{Key: "Y", Description: "Agree"},
			{Key: "N", Description: "Decline"},
			{Key: "Shift+Tab", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
	}
	if c.step > 0 {
		hints = append(hints, layout.KeyHint{Key: "Shift+Tab", Description: "Back"})
	}
	return hints
}

func (c *ConsentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.done {
		return c, nil
	}

	if kmsg.String() == "shift+tab" {
		c.back()
		return c, nil
	}

	if c.step == numQuestions {
		var cmd tea.Cmd
		c.menu, cmd = c.menu.Update(msg)
		return c, cmd
	}

	c.questions[c.step], _ = c.questions[c.step].Update(msg)
	if c.questions[c.step].Submitted {
		c.step++
	}
	return c, nil
}

func (c *ConsentScreen) back() {
	if c.step == 0 {
		return
	}
	c.step--
	c.questions[c.step].Reopen()
}

func (c *ConsentScreen) agree() tea.Cmd {
	if c.done {
		return nil
	}
	c.done = true
	d := c.Demographics()
	return screen.Done(session.PhaseResult{
		Phase:        session.PhaseConsent,
		Demographics: &d,
	})
}

// Demographics returns the answers chosen so far; unanswered questions
// fall back to their preselected option.
func (c *ConsentScreen) Demographics() session.Demographics {
	return session.Demographics{
		KnowsSourceLanguage: knowsValues[c.questions[qKnows].Selected],
		DistractorUsage:     usageValues[c.questions[qUsage].Selected],
		PersonalizedFirst:   c.questions[qOrder].Selected == 0,
	}
}

func (c *ConsentScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, components.Card(
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Left).Render(infoText), cw))
	sections = append(sections, "")

	for i := 0; i < c.step && i < numQuestions; i++ {
		q := c.questions[i]
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Render(q.Question+"  ")+
			lipgloss.NewStyle().Foreground(theme.Success).Render(q.Chosen()))
	}

	if c.step < numQuestions {
		sections = append(sections, "", c.questions[c.step].View())
	} else {
		sections = append(sections, "", c.menu.View())
	}

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
