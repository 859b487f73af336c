package layout

import (
	"strings"
	"testing"
)

func TestRenderHeaderShowsProgress(t *testing.T) {
	h := RenderHeader("Study: Round 1", 4, 10, 100)
	for _, want := range []string{"PairRecall", "Study: Round 1", "4/10", "●●●●"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderHeaderWithoutProgress(t *testing.T) {
	if h := RenderHeader("Results", 0, 0, 100); strings.Contains(h, "/") {
		t.Error("zero total should hide the counter")
	}
}

func TestRenderFooterDropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Ctrl+N", Description: "Finish the round early"},
	}
	wide := RenderFooter(hints, 100)
	if !strings.Contains(wide, "Finish the round early") {
		t.Error("wide footer should show every hint")
	}
	narrow := RenderFooter(hints, 30)
	if !strings.Contains(narrow, "Next") || strings.Contains(narrow, "Finish") {
		t.Error("narrow footer should keep only the first hint")
	}
}

func TestContentHeight(t *testing.T) {
	header := RenderHeader("x", 1, 10, 80)
	footer := RenderFooter(nil, 80)
	if got := ContentHeight(header, footer, 30); got != 24 {
		t.Errorf("ContentHeight = %d, want 24", got)
	}
	if got := ContentHeight(header, footer, 4); got != 0 {
		t.Errorf("ContentHeight = %d, want 0", got)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) || IsTooSmall(80, 24) {
		t.Error("unexpected minimum size check")
	}
}
