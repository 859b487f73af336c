package analysis

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pairrecall/pairrecall/internal/record"
)

// writeSession writes a record table with the given number of correct
// answers per condition out of 25.
func writeSession(t *testing.T, dir, id string, correctP, correctN int, usage string) {
	t.Helper()
	var rows []record.Row
	for phase, cond := range []string{"P", "N"} {
		correct := correctP
		if cond == "N" {
			correct = correctN
		}
		for i := 0; i < 25; i++ {
			answer := ""
			if i < correct {
				answer = "t"
			}
			rows = append(rows, record.Row{
				SessionID: id, WordID: phase*100 + i, Source: "s", Target: "t",
				Answer: answer, PhaseIndex: phase, Condition: cond, DistractorUsage: usage,
			})
		}
	}
	require.NoError(t, record.Create(filepath.Join(dir, "experiment_"+id+"_20240101_000000.csv"), rows))
}

func writeOrders(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadOrders(t *testing.T) {
	orders, err := LoadOrders(writeOrders(t, "session_id,order_label\naaaa,PN\nbbbb, np\n\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"aaaa": "PN", "bbbb": "NP"}, orders)
}

func TestLoadOrders_AlternateHeader(t *testing.T) {
	orders, err := LoadOrders(writeOrders(t, "Condition,ExperimentID\nPN,8dc44e9e\nNP,8eeeea92\n"))
	require.NoError(t, err)
	assert.Equal(t, "PN", orders["8dc44e9e"])
	assert.Equal(t, "NP", orders["8eeeea92"])
}

func TestLoadOrders_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"missing columns", "a,b\n1,2\n"},
		{"bad label", "session_id,order_label\naaaa,PP\n"},
		{"conflict", "session_id,order_label\naaaa,PN\naaaa,NP\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOrders(writeOrders(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadOrders), "got %v", err)
		})
	}

	_, err := LoadOrders(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadDir_SkipsNonRecordFiles(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "aaaa", 10, 5, "low")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.csv"), []byte("session_id,order_label\naaaa,PN\n"), 0o644))

	b, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, b.Rows, 50)
	assert.Len(t, b.Files, 1)
	assert.Len(t, b.Skipped, 1)
}

func TestPivot(t *testing.T) {
	rows := []record.Row{
		{SessionID: "b", Condition: "P", Target: "dog", Answer: " DOG ", DistractorUsage: "high"},
		{SessionID: "b", Condition: "P", Target: "cat", Answer: "none"},
		{SessionID: "b", Condition: "N", Target: "sun", Answer: "moon"},
		{SessionID: "a", Condition: "N", Target: "sun", Answer: "sun", DistractorUsage: "low"},
		{SessionID: "a", Condition: "X", Target: "sun", Answer: "sun"},
	}
	ps := Pivot(rows, map[string]string{"b": "NP"})
	require.Len(t, ps, 2)

	a, b := ps[0], ps[1]
	assert.Equal(t, "a", a.SessionID)
	assert.Equal(t, "", a.Order)
	assert.Equal(t, ConditionScore{Correct: 1, Total: 1}, a.N)
	assert.Equal(t, 0.0, a.P.Accuracy(), "missing condition fills zero")
	assert.Equal(t, "low", a.DistractorUsage)

	assert.Equal(t, "NP", b.Order)
	assert.Equal(t, ConditionScore{Correct: 1, Total: 2}, b.P)
	assert.InDelta(t, 0.5, b.P.Accuracy(), 1e-12)
	assert.Equal(t, ConditionScore{Correct: 0, Total: 1}, b.N)

	assert.Equal(t, []string{"a"}, Unmapped(ps))
}

func TestDescribe(t *testing.T) {
	d := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, 2.5, d.Median, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), d.StdDev, 1e-12)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)

	single := Describe([]float64{7})
	assert.True(t, math.IsNaN(single.StdDev))
	assert.Equal(t, 7.0, single.Median)

	assert.Equal(t, 0, Describe(nil).Count)
}

func TestRank_Ties(t *testing.T) {
	ranks, ties := rank([]float64{10, 20, 20, 5})
	assert.Equal(t, []float64{2, 3.5, 3.5, 1}, ranks)
	assert.Equal(t, []int{2}, ties)
}

func TestShapiroWilk_ThreeEquallySpaced(t *testing.T) {
	r, err := ShapiroWilk([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r.Statistic, 1e-9)
	assert.InDelta(t, 1.0, r.PValue, 1e-6)
}

func TestShapiroWilk_NormalLooking(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	r, err := ShapiroWilk(data)
	require.NoError(t, err)
	assert.Greater(t, r.Statistic, 0.95)
	assert.LessOrEqual(t, r.Statistic, 1.0)
	assert.Greater(t, r.PValue, 0.5)
	assert.False(t, r.Significant(DefaultAlpha))
}

func TestShapiroWilk_Skewed(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 50}
	r, err := ShapiroWilk(data)
	require.NoError(t, err)
	assert.Less(t, r.Statistic, 0.5)
	assert.Less(t, r.PValue, 0.001)
	assert.True(t, r.Significant(DefaultAlpha))
}

func TestShapiroWilk_Errors(t *testing.T) {
	_, err := ShapiroWilk([]float64{1, 2})
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = ShapiroWilk([]float64{3, 3, 3, 3})
	assert.True(t, errors.Is(err, ErrConstantSample))
}

func TestSignedRank_ExactAllPositive(t *testing.T) {
	r, err := SignedRank([]float64{2, 3, 4, 5, 6}, []float64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	assert.True(t, r.Exact)
	assert.Equal(t, 0.0, r.Statistic)
	assert.InDelta(t, 0.0625, r.PValue, 1e-12)
}

func TestSignedRank_ExactReference(t *testing.T) {
	// Differences from Fisher's Zea mays data.
	d := []float64{6, 8, 14, 16, 23, 24, 28, 29, 41, -48, 49, 56, 60, -67, 75}
	zero := make([]float64, len(d))
	r, err := SignedRank(d, zero)
	require.NoError(t, err)
	assert.True(t, r.Exact)
	assert.Equal(t, 24.0, r.Statistic)
	assert.InDelta(t, 0.041259765625, r.PValue, 1e-12)
}

func TestSignedRank_ApproxWithZerosAndTies(t *testing.T) {
	x := []float64{0.4, 0.5, 0.6, 0.6, 0.3, 0.7, 0.2}
	y := []float64{0.4, 0.3, 0.4, 0.4, 0.1, 0.5, 0.3}
	r, err := SignedRank(x, y)
	require.NoError(t, err)
	assert.False(t, r.Exact)
	assert.Greater(t, r.PValue, 0.0)
	assert.LessOrEqual(t, r.PValue, 1.0)
}

func TestSignedRank_Errors(t *testing.T) {
	_, err := SignedRank([]float64{1}, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrSampleSize))

	_, err = SignedRank([]float64{1, 2}, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrNoDifferences))
}

func TestRankSum(t *testing.T) {
	r, err := RankSum([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	wantZ := (6 - 10.5) / math.Sqrt(5.25)
	assert.InDelta(t, wantZ, r.Statistic, 1e-12)
	assert.InDelta(t, 0.0495, r.PValue, 1e-3)

	_, err = RankSum(nil, []float64{1})
	assert.Error(t, err)
}

func TestSampleSize(t *testing.T) {
	tests := []struct {
		d    float64
		want int
	}{
		{0.5, 34},
		{1.0, 10},
		{-0.5, 34},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.d), func(t *testing.T) {
			n, err := SampleSize(tt.d, 0.05, 0.8)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestSampleSize_Errors(t *testing.T) {
	for _, args := range [][3]float64{
		{0, 0.05, 0.8},
		{0.5, 0, 0.8},
		{0.5, 0.05, 1},
		{0.5, 0.05, 0.01},
	} {
		_, err := SampleSize(args[0], args[1], args[2])
		assert.Error(t, err, "args %v", args)
	}
}

func TestPairedTTestPower_Monotone(t *testing.T) {
	prev := 0.0
	for _, n := range []float64{5, 10, 20, 40, 80} {
		p := PairedTTestPower(0.5, 0.05, n)
		assert.Greater(t, p, prev)
		prev = p
	}
	assert.True(t, math.IsNaN(PairedTTestPower(0.5, 0.05, 1)))
}

func TestAnalyze_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	scores := []struct {
		id   string
		p, n int
	}{
		{"s01", 20, 12}, {"s02", 18, 11}, {"s03", 22, 16}, {"s04", 15, 14},
		{"s05", 19, 9}, {"s06", 21, 18}, {"s07", 17, 12}, {"s08", 23, 11},
	}
	orderCSV := "session_id,order_label\n"
	for i, s := range scores {
		writeSession(t, dir, s.id, s.p, s.n, "medium")
		label := "PN"
		if i%2 == 1 {
			label = "NP"
		}
		if s.id != "s08" {
			orderCSV += s.id + "," + label + "\n"
		}
	}
	orders, err := LoadOrders(writeOrders(t, orderCSV))
	require.NoError(t, err)

	b, err := LoadDir(dir)
	require.NoError(t, err)

	res, err := NewAnalyzer(zaptest.NewLogger(t), 0).Analyze(b, orders)
	require.NoError(t, err)

	assert.Len(t, res.Participants, 8)
	assert.Equal(t, []string{"s08"}, res.Unmapped)
	assert.Equal(t, 7, res.Tested)
	assert.Equal(t, DefaultAlpha, res.Alpha)
	assert.InDelta(t, 20.0/25, res.Participants[0].P.Accuracy(), 1e-12)

	require.NotNil(t, res.NormalP)
	require.NotNil(t, res.NormalN)
	require.NotNil(t, res.SignedRank)
	require.NotNil(t, res.RankSum)
	assert.Empty(t, res.Notes)

	// s08 is not in the order table. Every tested participant did better
	// in P, so the exact two-sided p is 2/128.
	assert.True(t, res.SignedRank.Exact)
	assert.Equal(t, 0.0, res.SignedRank.Statistic)
	assert.InDelta(t, 2.0/128, res.SignedRank.PValue, 1e-12)
	assert.True(t, res.RejectH0())
	assert.Equal(t, 7, res.DescribeP.Count)
	assert.InDelta(t, 132.0/7/25, res.DescribeP.Mean, 1e-12)
}

func TestAnalyze_NoRows(t *testing.T) {
	_, err := NewAnalyzer(nil, 0).Analyze(&Batch{}, nil)
	assert.True(t, errors.Is(err, ErrTooFewParticipants))
}

func TestAnalyze_TooFewForTests(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "only", 10, 10, "low")
	b, err := LoadDir(dir)
	require.NoError(t, err)

	res, err := NewAnalyzer(nil, 0).Analyze(b, map[string]string{"only": "PN"})
	require.NoError(t, err)
	assert.Nil(t, res.NormalP)
	assert.Nil(t, res.SignedRank)
	assert.NotNil(t, res.RankSum)
	assert.False(t, res.BothNormal())
	assert.False(t, res.RejectH0())
	assert.Len(t, res.Notes, 3)
}

func TestAnalyze_UnmappedSessionsExcludedFromTests(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "a", 25, 10, "low")
	writeSession(t, dir, "b", 25, 12, "low")
	writeSession(t, dir, "c", 25, 14, "low")
	writeSession(t, dir, "pilot", 0, 0, "high")
	orders := map[string]string{"a": "PN", "b": "NP", "c": "PN"}

	b, err := LoadDir(dir)
	require.NoError(t, err)

	res, err := NewAnalyzer(nil, 0).Analyze(b, orders)
	require.NoError(t, err)
	assert.Len(t, res.Participants, 4)
	assert.Equal(t, []string{"pilot"}, res.Unmapped)
	assert.Equal(t, 3, res.Tested)
	assert.Equal(t, 3, res.DescribeP.Count)
	assert.InDelta(t, 1.0, res.DescribeP.Mean, 1e-12)

	all, err := NewAnalyzer(nil, 0).IncludeUnmapped(true).Analyze(b, orders)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Tested)
	assert.InDelta(t, 0.75, all.DescribeP.Mean, 1e-12)
}

func TestAnalyze_NoMappedSessions(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "pilot", 10, 10, "low")
	b, err := LoadDir(dir)
	require.NoError(t, err)

	_, err = NewAnalyzer(nil, 0).Analyze(b, nil)
	assert.True(t, errors.Is(err, ErrTooFewParticipants))
}
