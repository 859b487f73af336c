// Package flow builds the screen for each experiment phase and hands
// finished phases to the session controller.
package flow

import (
	"context"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/pairrecall/pairrecall/internal/config"
	"github.com/pairrecall/pairrecall/internal/screen"
	"github.com/pairrecall/pairrecall/internal/screens/consent"
	"github.com/pairrecall/pairrecall/internal/screens/distractor"
	"github.com/pairrecall/pairrecall/internal/screens/instructions"
	"github.com/pairrecall/pairrecall/internal/screens/memorize"
	"github.com/pairrecall/pairrecall/internal/screens/pause"
	"github.com/pairrecall/pairrecall/internal/screens/quiz"
	"github.com/pairrecall/pairrecall/internal/screens/results"
	"github.com/pairrecall/pairrecall/internal/screens/welcome"
	"github.com/pairrecall/pairrecall/internal/session"
)

// Options configures a Flow. Durations and AllowSkip usually come from
// config.Config.
type Options struct {
	Durations config.Durations
	AllowSkip bool

	// Warnings are shown on the welcome screen.
	Warnings []string

	// Rand shuffles quiz presentation order. Nil seeds a fresh source.
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Flow drives one session's screens.
type Flow struct {
	ctrl   *session.Controller
	opts   Options
	logger *zap.Logger
}

// New creates a flow over ctrl.
func New(ctrl *session.Controller, opts Options) *Flow {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Flow{ctrl: ctrl, opts: opts, logger: opts.Logger}
}

// Phase returns the controller's current phase.
func (f *Flow) Phase() session.Phase {
	return f.ctrl.Phase()
}

// Initial returns the screen for the current phase.
func (f *Flow) Initial() screen.Screen {
	return f.ScreenFor(f.ctrl.Phase())
}

// Advance applies res and returns the screen to show next, preceded by a
// pause after distractor and quiz phases. A result for a stale phase
// returns the controller's error and no screen.
func (f *Flow) Advance(ctx context.Context, res session.PhaseResult) (screen.Screen, error) {
	next, err := f.ctrl.Advance(ctx, res)
	if err != nil {
		return nil, err
	}

	heading, message, ok := pauseText(res.Phase)
	if !ok || f.opts.Durations.Break <= 0 {
		return f.ScreenFor(next), nil
	}
	return pause.New(heading, message, f.opts.Durations.Break, func() screen.Screen {
		return f.ScreenFor(next)
	}), nil
}

// ScreenFor builds the screen of phase p.
func (f *Flow) ScreenFor(p session.Phase) screen.Screen {
	s := f.ctrl.Session()
	d := f.opts.Durations

	switch p.Kind() {
	case session.KindMemorize:
		return memorize.New(p, s.Pairs(p.Index()), d.Memorize, f.opts.AllowSkip)
	case session.KindDistractor:
		return distractor.New(p, d.Distractor, f.opts.AllowSkip)
	case session.KindQuiz:
		return quiz.New(p, s.Pairs(p.Index()), d.Quiz, f.opts.AllowSkip, f.opts.Rand)
	}

	switch p {
	case session.PhaseWelcome:
		return welcome.New(s.ID, f.opts.Warnings)
	case session.PhaseConsent:
		return consent.New(s.PersonalizedFirst)
	case session.PhaseInstructions:
		return instructions.New(f.ctrl.PhaseSize(), instructions.Timings{
			Memorize:   d.Memorize,
			Distractor: d.Distractor,
			Quiz:       d.Quiz,
		})
	default:
		report := f.ctrl.Report()
		if !report.Available {
			f.logger.Warn("results unavailable", zap.String("reason", report.Reason))
			return results.New(report, s.RecordPath).WithFallback(f.ctrl.MemoryReport())
		}
		return results.New(report, s.RecordPath)
	}
}

// pauseText returns the interstitial shown after phase p, if any. Study
// flows straight into the video break; the tests are bracketed by pauses.
func pauseText(p session.Phase) (heading, message string, ok bool) {
	switch p {
	case session.PhaseDistractor1, session.PhaseDistractor2:
		return "Time's up!",
			"Please put your phone away. The test begins in a moment.", true
	case session.PhaseQuiz1:
		return "Break Time",
			"Great job completing the first test!\nTake a deep breath and relax. The second round starts with a new list of words.", true
	case session.PhaseQuiz2:
		return "Time's up!",
			"Test completed. Your results are next.", true
	}
	return "", "", false
}
