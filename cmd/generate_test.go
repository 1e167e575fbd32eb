package cmd

import (
	"testing"

	"github.com/yoojuneho/Fair-or-Framed/internal/config"
	"github.com/yoojuneho/Fair-or-Framed/internal/extract"
	"github.com/yoojuneho/Fair-or-Framed/internal/opinion"
	"github.com/yoojuneho/Fair-or-Framed/internal/prompt"
)

func TestRunRecordIndexing(t *testing.T) {
	g := config.Generation{
		Model:        "deepseek-r1-distill-qwen-32b",
		Temperature:  0.7,
		MaxNewTokens: 4096,
		Seed:         42,
		LeftRatio:    0.5,
		LeftType:     "explicit",
		RightType:    "explicit",
		Samples:      4,
	}
	sel := opinion.Selection{
		Labeled: []string{"(left) statement one", "(right) statement two"},
	}

	// Loop counters start at zero; dataset run indices start at one.
	for _, tt := range []struct {
		loop int
		want int
	}{
		{0, 1},
		{2, 3},
		{9, 10},
	} {
		rec := runRecord(tt.loop, "immigration", g, prompt.Alpaca, sel, extract.Result{})
		if rec.RunIndex != tt.want {
			t.Errorf("loop pass %d: RunIndex = %d, want %d", tt.loop, rec.RunIndex, tt.want)
		}
	}

	rec := runRecord(0, "immigration", g, prompt.Alpaca, sel, extract.Result{Raw: "unparsed"})
	if rec.Topic != "immigration" || rec.Model != g.Model {
		t.Errorf("record provenance mismatch: topic %q model %q", rec.Topic, rec.Model)
	}
	if rec.RawOutput != "unparsed" {
		t.Errorf("RawOutput = %q, want carried through", rec.RawOutput)
	}
	if len(rec.SampledOpinions) != len(sel.Labeled) {
		t.Errorf("SampledOpinions length = %d, want %d", len(rec.SampledOpinions), len(sel.Labeled))
	}
}
