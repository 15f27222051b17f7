package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
)

func TestPercent(t *testing.T) {
	tests := map[float64]string{
		0:        "0.00%",
		1:        "100.00%",
		0.123456: "12.35%",
	}
	for in, want := range tests {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	root := filepath.Join("tmp", "target")
	summary := &plagiarism.RunSummary{
		AverageSimilarity: 0.75,
		TotalFiles:        2,
		ReferenceFiles:    5,
		Elapsed:           1500 * time.Millisecond,
		Files: []plagiarism.FileResult{
			{TargetPath: filepath.Join(root, "a.py"), MaxSimilarity: 1, BestMatch: "corpus/x.py"},
			{TargetPath: filepath.Join(root, "pkg", "b.py"), MaxSimilarity: 0.5, BestMatch: "corpus/y.py"},
		},
	}

	out := RenderTable(summary, root)
	for _, want := range []string{
		"a.py",
		filepath.Join("pkg", "b.py"),
		"100.00%",
		"50.00%",
		"corpus/y.py",
		"2 files / 5 references",
		"75.00%",
		"1.50s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, filepath.Join("tmp", "target", "a.py")) {
		t.Errorf("paths should be relative to the target root:\n%s", out)
	}
}
