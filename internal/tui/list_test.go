package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestFilterBarApply(t *testing.T) {
	runs := []store.Run{
		{ID: 1, Model: "model-a"},
		{ID: 2, Model: "model-b"},
		{ID: 3, Model: "model-a"},
	}

	f := newFilterBar()
	f.setModels(runs)

	if got := f.apply(runs); len(got) != 3 {
		t.Errorf("no filter should pass all runs, got %d", len(got))
	}

	f.toggle("model-a")
	got := f.apply(runs)
	if len(got) != 2 {
		t.Fatalf("expected 2 model-a runs, got %d", len(got))
	}
	for _, r := range got {
		if r.Model != "model-a" {
			t.Errorf("unexpected model %q after filter", r.Model)
		}
	}

	if f.activeLabel() != "model-a" {
		t.Errorf("activeLabel = %q", f.activeLabel())
	}

	// Stale selections drop when the model disappears from the run set
	f.setModels(runs[1:2])
	if len(f.active) != 0 {
		t.Error("selection for missing model should be cleared")
	}
}

func TestRenderArticleItemShowsBias(t *testing.T) {
	a := store.Article{Position: 0, Headline: "Test headline", HumanBias: "left"}
	out := renderArticleItem(a, false, 40)
	if !strings.Contains(out, "LEFT") {
		t.Errorf("expected LEFT badge in %q", out)
	}

	a.HumanBias = ""
	out = renderArticleItem(a, false, 40)
	if !strings.Contains(out, "unrated") {
		t.Errorf("expected unrated badge in %q", out)
	}
}
