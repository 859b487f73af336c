package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pairrecall/pairrecall/internal/record"
	"github.com/pairrecall/pairrecall/internal/score"
	"github.com/pairrecall/pairrecall/internal/store"
)

// ErrPhaseMismatch is returned when a result arrives for a phase other than
// the current one, e.g. from a screen that was already replaced.
var ErrPhaseMismatch = errors.New("result does not match current phase")

// snapshotVersion is bumped when SnapshotData changes shape.
const snapshotVersion = 1

// snapshotsKept is how many snapshots per session survive pruning.
const snapshotsKept = 3

// PhaseResult is what a finished phase hands back to the controller.
type PhaseResult struct {
	Phase Phase

	// Demographics is set by the consent phase.
	Demographics *Demographics

	// Answers is set by quiz phases: every word id of the round, possibly
	// with an empty answer.
	Answers map[int]string

	// Skipped is true when the phase ended through the manual override.
	Skipped bool
}

// ControllerOptions wires the controller's collaborators. Events and
// Snapshots may be nil.
type ControllerOptions struct {
	DataDir   string
	PhaseSize int
	Events    store.EventRepo
	Snapshots store.SnapshotRepo
	Logger    *zap.Logger
}

// Controller sequences a session through its phases and performs the
// persistence side effects at phase boundaries. Persistence failures are
// logged and never interrupt the run.
type Controller struct {
	sess      *Session
	phase     Phase
	dataDir   string
	phaseSize int
	events    store.EventRepo
	snapshots store.SnapshotRepo
	logger    *zap.Logger
}

// NewController creates a controller positioned at the welcome phase.
func NewController(s *Session, opts ControllerOptions) *Controller {
	if opts.PhaseSize <= 0 {
		opts.PhaseSize = DefaultPhaseSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		sess:      s,
		phase:     PhaseWelcome,
		dataDir:   opts.DataDir,
		phaseSize: opts.PhaseSize,
		events:    opts.Events,
		snapshots: opts.Snapshots,
		logger:    opts.Logger.With(zap.String("session_id", s.ID)),
	}
}

// Session returns the session being run.
func (c *Controller) Session() *Session {
	return c.sess
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// PhaseSize returns the nominal words per round.
func (c *Controller) PhaseSize() int {
	return c.phaseSize
}

// Advance applies the result of the current phase and moves to the next.
func (c *Controller) Advance(ctx context.Context, res PhaseResult) (Phase, error) {
	if res.Phase != c.phase {
		return c.phase, fmt.Errorf("%w: got %s, at %s", ErrPhaseMismatch, res.Phase, c.phase)
	}
	if c.phase == PhaseResults {
		return c.phase, nil
	}

	log := c.logger.With(zap.Stringer("phase", c.phase))
	if res.Skipped {
		log.Info("phase skipped")
	}

	switch c.phase.Kind() {
	case KindQuiz:
		c.finishQuiz(ctx, c.phase.Index(), res.Answers)
	case KindNone:
		if c.phase == PhaseConsent {
			c.finishConsent(ctx, res.Demographics)
		}
	}

	c.phase = NextPhase(c.phase)
	log.Info("phase advanced", zap.Stringer("next", c.phase))

	switch c.phase {
	case PhaseQuiz1:
		c.writeInitialRecord()
	case PhaseResults:
		c.appendSessionEvent(ctx, store.ActionEnd)
	}

	c.saveSnapshot(ctx)
	return c.phase, nil
}

func (c *Controller) finishConsent(ctx context.Context, d *Demographics) {
	if d != nil {
		c.sess.ApplyDemographics(*d)
	}
	c.logger.Info("session started",
		zap.String("order", c.sess.OrderLabel()),
		zap.Stringer("knows_source_language", c.sess.KnowsSourceLanguage),
		zap.Stringer("distractor_usage", c.sess.DistractorUsage),
		zap.String("word_source", c.sess.WordSource),
	)
	c.appendSessionEvent(ctx, store.ActionStart)
}

// writeInitialRecord writes one empty-answer row per word of both rounds.
func (c *Controller) writeInitialRecord() {
	path := filepath.Join(c.dataDir, record.FileName(c.sess.ID, c.sess.StartedAt))
	if err := record.Create(path, c.initialRows()); err != nil {
		c.logger.Error("write record table", zap.String("path", path), zap.Error(err))
		return
	}
	c.sess.RecordPath = path
	c.logger.Info("record table written", zap.String("path", path))
}

func (c *Controller) initialRows() []record.Row {
	s := c.sess
	rows := make([]record.Row, 0, len(s.Phase1)+len(s.Phase2))
	for i := 0; i < 2; i++ {
		for _, p := range s.Pairs(i) {
			rows = append(rows, record.Row{
				SessionID:           s.ID,
				WordID:              p.WordID,
				Source:              p.Source,
				Target:              p.Target,
				PhaseIndex:          i,
				Condition:           s.Condition(i),
				KnowsSourceLanguage: s.KnowsSourceLanguage.String(),
				DistractorUsage:     s.DistractorUsage.String(),
			})
		}
	}
	return rows
}

func (c *Controller) finishQuiz(ctx context.Context, round int, answers map[int]string) {
	kept := make(map[int]string, len(c.sess.Pairs(round)))
	for _, p := range c.sess.Pairs(round) {
		kept[p.WordID] = answers[p.WordID]
	}
	c.sess.Answers[round] = kept

	persisted := false
	if c.sess.RecordPath == "" {
		c.logger.Warn("no record table to patch", zap.Int("round", round))
	} else if err := record.PatchAnswers(c.sess.RecordPath, round, kept); err != nil {
		c.logger.Error("patch record table", zap.Int("round", round), zap.Error(err))
	} else {
		persisted = true
	}

	sum := score.Summarize(c.sess.Pairs(round), kept)
	c.logger.Info("quiz finished",
		zap.Int("round", round),
		zap.String("condition", c.sess.Condition(round)),
		zap.Int("correct", sum.Correct),
		zap.Int("incorrect", sum.Incorrect),
		zap.Int("no_answer", sum.NoAnswer),
	)

	if c.events == nil {
		return
	}
	err := c.events.AppendPhaseEvent(ctx, store.PhaseEventData{
		SessionID:  c.sess.ID,
		PhaseIndex: round,
		Condition:  c.sess.Condition(round),
		Correct:    sum.Correct,
		Incorrect:  sum.Incorrect,
		NoAnswer:   sum.NoAnswer,
		Persisted:  persisted,
		Timestamp:  time.Now(),
	})
	if err != nil {
		c.logger.Error("append phase event", zap.Error(err))
	}
}

func (c *Controller) appendSessionEvent(ctx context.Context, action string) {
	if c.events == nil {
		return
	}
	err := c.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:           c.sess.ID,
		Action:              action,
		OrderLabel:          c.sess.OrderLabel(),
		WordSource:          c.sess.WordSource,
		RecordPath:          c.sess.RecordPath,
		KnowsSourceLanguage: c.sess.KnowsSourceLanguage.String(),
		DistractorUsage:     c.sess.DistractorUsage.String(),
	})
	if err != nil {
		c.logger.Error("append session event", zap.String("action", action), zap.Error(err))
	}
}

func (c *Controller) saveSnapshot(ctx context.Context) {
	if c.snapshots == nil {
		return
	}
	snap := &store.Snapshot{
		Timestamp: time.Now(),
		Data: store.SnapshotData{
			Version:           snapshotVersion,
			SessionID:         c.sess.ID,
			Phase:             c.phase.String(),
			PersonalizedFirst: c.sess.PersonalizedFirst,
			RecordPath:        c.sess.RecordPath,
			Answers:           c.sess.Answers,
		},
	}
	if err := c.snapshots.Save(ctx, snap); err != nil {
		c.logger.Error("save snapshot", zap.Error(err))
		return
	}
	if err := c.snapshots.Prune(ctx, c.sess.ID, snapshotsKept); err != nil {
		c.logger.Warn("prune snapshots", zap.Error(err))
	}
}

// Report scores the persisted record table. Without a record table the
// report is unavailable.
func (c *Controller) Report() score.Report {
	if c.sess.RecordPath == "" {
		return score.Unavailable("no report available: the record table was never written")
	}
	return score.FromFile(c.sess.RecordPath, c.phaseSize)
}

// MemoryReport scores the in-memory answers, independent of the file.
func (c *Controller) MemoryReport() score.Report {
	inputs := make([]score.PhaseInput, 0, 2)
	for i := 0; i < 2; i++ {
		inputs = append(inputs, score.PhaseInput{
			Index:     i,
			Condition: c.sess.Condition(i),
			Pairs:     c.sess.Pairs(i),
			Answers:   c.sess.Answers[i],
		})
	}
	return score.Build(c.sess.ID, inputs, c.phaseSize)
}
