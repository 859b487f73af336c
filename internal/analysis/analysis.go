package analysis

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultAlpha is the significance level used for every decision.
const DefaultAlpha = 0.05

// ErrTooFewParticipants is returned when no test can run.
var ErrTooFewParticipants = errors.New("too few participants")

// Result is the full batch analysis.
type Result struct {
	Alpha        float64
	Participants []Participant
	// Unmapped lists sessions missing from the order table.
	Unmapped []string
	// Tested is the number of participants the statistics were run on.
	Tested int

	DescribeP Descriptive
	DescribeN Descriptive

	// NormalP and NormalN are nil when Shapiro-Wilk could not run.
	NormalP *TestResult
	NormalN *TestResult

	SignedRank *TestResult
	RankSum    *TestResult

	// Notes collects reasons a test was skipped.
	Notes []string
}

// BothNormal reports whether neither condition rejects normality.
func (r *Result) BothNormal() bool {
	return r.NormalP != nil && r.NormalN != nil &&
		!r.NormalP.Significant(r.Alpha) && !r.NormalN.Significant(r.Alpha)
}

// RejectH0 reports whether the paired test finds a difference between the
// conditions.
func (r *Result) RejectH0() bool {
	return r.SignedRank != nil && r.SignedRank.Significant(r.Alpha)
}

// Analyzer runs the batch analysis.
type Analyzer struct {
	logger *zap.Logger
	alpha  float64

	includeUnmapped bool
}

// NewAnalyzer creates an analyzer. A nil logger disables logging; alpha <= 0
// selects DefaultAlpha.
func NewAnalyzer(logger *zap.Logger, alpha float64) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	return &Analyzer{logger: logger, alpha: alpha}
}

// IncludeUnmapped makes the tests also use sessions that are missing from
// the order table. By default only listed sessions are tested.
func (a *Analyzer) IncludeUnmapped(v bool) *Analyzer {
	a.includeUnmapped = v
	return a
}

// Analyze pivots the batch and runs every test that has enough data.
// Individual test failures are recorded in Result.Notes.
func (a *Analyzer) Analyze(b *Batch, orders map[string]string) (*Result, error) {
	participants := Pivot(b.Rows, orders)
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no record rows found", ErrTooFewParticipants)
	}

	res := &Result{
		Alpha:        a.alpha,
		Participants: participants,
		Unmapped:     Unmapped(participants),
	}
	for _, id := range res.Unmapped {
		a.logger.Warn("session missing from order table", zap.String("session_id", id))
	}
	for _, s := range b.Skipped {
		a.logger.Warn("skipped file", zap.String("reason", s))
	}

	tested := participants
	if !a.includeUnmapped {
		tested = Mapped(participants)
	}
	if len(tested) == 0 {
		return nil, fmt.Errorf("%w: no session appears in the order table", ErrTooFewParticipants)
	}
	res.Tested = len(tested)

	accP, accN := Accuracies(tested)
	res.DescribeP = Describe(accP)
	res.DescribeN = Describe(accN)

	res.NormalP = a.run("Shapiro-Wilk (P)", res, func() (TestResult, error) { return ShapiroWilk(accP) })
	res.NormalN = a.run("Shapiro-Wilk (N)", res, func() (TestResult, error) { return ShapiroWilk(accN) })
	res.SignedRank = a.run("Wilcoxon signed-rank", res, func() (TestResult, error) { return SignedRank(accN, accP) })
	res.RankSum = a.run("Wilcoxon rank-sum", res, func() (TestResult, error) { return RankSum(accN, accP) })

	a.logger.Info("analysis complete",
		zap.Int("participants", len(participants)),
		zap.Int("tested", res.Tested),
		zap.Int("unmapped", len(res.Unmapped)),
		zap.Bool("reject_h0", res.RejectH0()),
	)
	return res, nil
}

func (a *Analyzer) run(name string, res *Result, test func() (TestResult, error)) *TestResult {
	tr, err := test()
	if err != nil {
		res.Notes = append(res.Notes, fmt.Sprintf("%s skipped: %v", name, err))
		a.logger.Info("test skipped", zap.String("test", name), zap.Error(err))
		return nil
	}
	return &tr
}
