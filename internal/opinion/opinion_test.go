package opinion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleDataset() []Opinion {
	return []Opinion{
		{
			Left:  Stance{Explicit: "I firmly support open borders.", Implicit: "Newcomers tend to strengthen communities."},
			Right: Stance{Explicit: "I firmly support strict enforcement.", Implicit: "Some worry about pressure on services."},
		},
		{
			Left:  Stance{Explicit: "Pathways to citizenship help everyone."},
			Right: Stance{Explicit: "Border security must come first.", Implicit: "Many feel the rules are too loose."},
		},
		{
			Left:  Stance{Implicit: "Diverse workforces drive growth."},
			Right: Stance{Explicit: "Amnesty rewards rule breaking."},
		},
	}
}

func TestParsePhrasing(t *testing.T) {
	tests := []struct {
		input   string
		want    Phrasing
		wantErr bool
	}{
		{"explicit", Explicit, false},
		{"implicit", Implicit, false},
		{"", "", true},
		{"EXPLICIT", "", true},
		{"subtle", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePhrasing(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePhrasing(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePhrasing(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParsePhrasing(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opinions.json")
	data := `[
		{"left": {"explicit": "pro statement"}, "right": {"explicit": "con statement", "implicit": "soft con"}}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	items, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Left.Explicit != "pro statement" {
		t.Errorf("unexpected left text: %q", items[0].Left.Explicit)
	}
	if got, ok := items[0].Right.Text(Implicit); !ok || got != "soft con" {
		t.Errorf("Text(Implicit) = %q, %v", got, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty dataset")
	}
}

func TestSampleSplit(t *testing.T) {
	s := NewSampler(42)
	sel, err := s.Sample(sampleDataset(), SampleOpts{
		Total:     4,
		LeftRatio: 0.5,
		LeftType:  Explicit,
		RightType: Explicit,
	})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	// 2 left-explicit and 3 right-explicit candidates exist; want 2 + 2.
	if len(sel.Labeled) != 4 {
		t.Fatalf("expected 4 labeled statements, got %d", len(sel.Labeled))
	}
	var left, right int
	for _, op := range sel.Labeled {
		switch {
		case strings.HasPrefix(op, "(left) "):
			left++
		case strings.HasPrefix(op, "(right) "):
			right++
		default:
			t.Errorf("unlabeled statement: %q", op)
		}
	}
	if left != 2 || right != 2 {
		t.Errorf("expected 2 left / 2 right, got %d / %d", left, right)
	}
	if len(sel.Clean) != len(sel.Labeled) {
		t.Errorf("clean/labeled length mismatch: %d vs %d", len(sel.Clean), len(sel.Labeled))
	}
}

func TestSampleShortSide(t *testing.T) {
	s := NewSampler(7)
	// Only 2 left-implicit candidates; asking for 3 left yields 2.
	sel, err := s.Sample(sampleDataset(), SampleOpts{
		Total:     6,
		LeftRatio: 0.5,
		LeftType:  Implicit,
		RightType: Explicit,
	})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	var left int
	for _, op := range sel.Labeled {
		if strings.HasPrefix(op, "(left) ") {
			left++
		}
	}
	if left != 2 {
		t.Errorf("expected 2 left implicit statements, got %d", left)
	}
}

func TestSampleDeterministic(t *testing.T) {
	opts := SampleOpts{Total: 4, LeftRatio: 0.5, LeftType: Explicit, RightType: Explicit}
	a, err := NewSampler(99).Sample(sampleDataset(), opts)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	b, err := NewSampler(99).Sample(sampleDataset(), opts)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for i := range a.Labeled {
		if a.Labeled[i] != b.Labeled[i] {
			t.Fatalf("same seed produced different selections: %q vs %q", a.Labeled[i], b.Labeled[i])
		}
	}
}

func TestSampleInvalidOpts(t *testing.T) {
	s := NewSampler(1)
	if _, err := s.Sample(sampleDataset(), SampleOpts{Total: 0, LeftRatio: 0.5}); err == nil {
		t.Error("expected error for zero sample size")
	}
	if _, err := s.Sample(sampleDataset(), SampleOpts{Total: 4, LeftRatio: 1.5}); err == nil {
		t.Error("expected error for ratio > 1")
	}
}

func TestMapNames(t *testing.T) {
	labeled := []string{
		"(left) Pathways help everyone.",
		"(right) Security first.",
	}
	mapped := MapNames(labeled)
	if len(mapped) != 2 {
		t.Fatalf("expected 2 mapped opinions, got %d", len(mapped))
	}
	if mapped[0] != "Alex: (left) Pathways help everyone." {
		t.Errorf("unexpected first mapping: %q", mapped[0])
	}
	if mapped[1] != "Brian: (right) Security first." {
		t.Errorf("unexpected second mapping: %q", mapped[1])
	}
}

func TestMapNamesUnlabeled(t *testing.T) {
	mapped := MapNames([]string{"no label here"})
	if mapped[0] != "Alex: (unknown) no label here" {
		t.Errorf("unexpected mapping for unlabeled input: %q", mapped[0])
	}
}
