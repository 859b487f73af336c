package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRows() []Row {
	return []Row{
		{SessionID: "abc12345", WordID: 1, Source: "hestur", Target: "horse", PhaseIndex: 0, Condition: "P", KnowsSourceLanguage: "no", DistractorUsage: "high"},
		{SessionID: "abc12345", WordID: 2, Source: "hundur", Target: "dog", PhaseIndex: 0, Condition: "P", KnowsSourceLanguage: "no", DistractorUsage: "high"},
		{SessionID: "abc12345", WordID: 3, Source: "köttur", Target: "cat", PhaseIndex: 1, Condition: "N", KnowsSourceLanguage: "no", DistractorUsage: "high"},
	}
}

func TestCreateWritesHeaderAndEmptyAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "r.csv")
	if err := Create(path, sampleRows()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != strings.Join(Header, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if lines[1] != "abc12345,1,hestur,horse,,0,P,no,high" {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestPatchAnswersOnlyTouchesPhase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.csv")
	if err := Create(path, sampleRows()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Word 3 belongs to phase 1 and must stay empty.
	err := PatchAnswers(path, 0, map[int]string{1: " Horse ", 2: "", 3: "cat"})
	if err != nil {
		t.Fatalf("PatchAnswers: %v", err)
	}

	rows, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Answer != " Horse " {
		t.Errorf("raw answer not preserved: %q", rows[0].Answer)
	}
	if rows[2].Answer != "" {
		t.Errorf("phase 1 row patched: %q", rows[2].Answer)
	}

	if err := PatchAnswers(path, 1, map[int]string{3: "cat"}); err != nil {
		t.Fatalf("PatchAnswers phase 1: %v", err)
	}
	rows, _ = Load(path)
	if rows[0].Answer != " Horse " || rows[2].Answer != "cat" {
		t.Errorf("unexpected rows after second patch: %+v", rows)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadReorderedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.csv")
	content := "answer,phase_index,word_id,id,target_text,extra\ndog,1,2,s1,dog,x\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rows, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Row{SessionID: "s1", WordID: 2, Target: "dog", Answer: "dog", PhaseIndex: 1}
	if rows[0] != want {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing column", "id,word_id\ns,1\n"},
		{"bad word id", strings.Join(Header, ",") + "\ns,x,a,b,,0,P,no,low\n"},
		{"bad phase", strings.Join(Header, ",") + "\ns,1,a,b,,z,P,no,low\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "r.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFileNameAndLatest(t *testing.T) {
	dir := t.TempDir()
	t1 := time.Date(2025, 10, 29, 20, 2, 43, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	name := FileName("07c0d72f", t1)
	if name != "experiment_07c0d72f_20251029_200243.csv" {
		t.Errorf("FileName = %q", name)
	}

	if _, err := Latest(dir, "07c0d72f"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest on empty dir: err = %v", err)
	}

	for _, n := range []string{FileName("07c0d72f", t2), FileName("07c0d72f", t1), FileName("other000", t2)} {
		if err := Create(filepath.Join(dir, n), nil); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Latest(dir, "07c0d72f")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if filepath.Base(got) != FileName("07c0d72f", t2) {
		t.Errorf("Latest = %q", got)
	}

	all, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List = %d files, want 3", len(all))
	}
}
