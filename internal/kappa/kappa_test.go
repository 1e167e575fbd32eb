package kappa

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFleissPerfectAgreement(t *testing.T) {
	// Two categories, raters always unanimous, split across categories.
	mat := [][]int{
		{3, 0},
		{0, 3},
		{3, 0},
		{0, 3},
	}
	k, err := Fleiss(mat)
	if err != nil {
		t.Fatalf("Fleiss: %v", err)
	}
	if !almostEqual(k, 1.0) {
		t.Errorf("perfect agreement kappa = %g, want 1.0", k)
	}
}

func TestFleissKnownValue(t *testing.T) {
	// Worked example: 3 raters, 3 categories, 4 items.
	mat := [][]int{
		{3, 0, 0},
		{1, 2, 0},
		{0, 1, 2},
		{0, 3, 0},
	}
	// P_i per row: 1, (1+4-3)/6=1/3, (1+4-3)/6=1/3, 1 -> P̄ = 8/12 = 2/3
	// col sums: 4, 6, 2 over 12 ratings -> pe = (1/3)² + (1/2)² + (1/6)² = 0.388...
	// kappa = (2/3 - 0.3888...) / (1 - 0.3888...)
	pe := (4.0/12)*(4.0/12) + (6.0/12)*(6.0/12) + (2.0/12)*(2.0/12)
	want := (2.0/3 - pe) / (1 - pe)

	k, err := Fleiss(mat)
	if err != nil {
		t.Fatalf("Fleiss: %v", err)
	}
	if !almostEqual(k, want) {
		t.Errorf("kappa = %g, want %g", k, want)
	}
}

func TestFleissDegenerate(t *testing.T) {
	if _, err := Fleiss(nil); err == nil {
		t.Error("expected error for empty matrix")
	}
	// Every rating in one category: chance agreement is 1, kappa undefined.
	if _, err := Fleiss([][]int{{3, 0}, {3, 0}}); err == nil {
		t.Error("expected error for single-category ratings")
	}
	if _, err := Fleiss([][]int{{3, 0}, {2, 0}}); err == nil {
		t.Error("expected error for inconsistent rater counts")
	}
}

func TestMatrix(t *testing.T) {
	triples := []Labels{
		{"left", "left", "right"},
		{"neutral", "neutral", "neutral"},
	}
	mat := Matrix(triples, []string{"left", "neutral", "right"})
	if len(mat) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(mat))
	}
	if mat[0][0] != 2 || mat[0][2] != 1 {
		t.Errorf("row 0 = %v", mat[0])
	}
	if mat[1][1] != 3 {
		t.Errorf("row 1 = %v", mat[1])
	}
}

func testItems() []Item {
	return []Item{
		{
			RunID: 1, RunIndex: 1, ArticleIndex: 0,
			Headline: "Agreed Article", Article: "body",
			Bias:            Labels{"left", "left", "left"},
			HeadlineLabel:   Labels{"left", "left", "left"},
			ConclusionLabel: Labels{"neutral", "neutral", "neutral"},
			Supporters: map[string]Labels{
				"Alex": {"right", "right", "right"},
			},
		},
		{
			RunID: 1, RunIndex: 1, ArticleIndex: 1,
			Headline: "Contested Article", Article: "body",
			Bias:            Labels{"left", "right", "left"},
			HeadlineLabel:   Labels{"neutral", "neutral", "neutral"},
			ConclusionLabel: Labels{"left", "left", "right"},
			Supporters: map[string]Labels{
				"Brian": {"left", "left", "left -> right"},
				"Chloe": {"left", "left", ""}, // model label missing
			},
		},
	}
}

func TestAnalyzeDisagreements(t *testing.T) {
	report := Analyze(testItems())

	if len(report.Disagreements) != 1 {
		t.Fatalf("expected 1 disagreement, got %d", len(report.Disagreements))
	}
	d := report.Disagreements[0]
	if d.ArticleIndex != 1 || d.Headline != "Contested Article" {
		t.Errorf("wrong disagreement recorded: %+v", d)
	}
	if len(d.Differences.Bias) != 3 {
		t.Errorf("bias difference missing: %+v", d.Differences)
	}
	if d.Differences.Headline != nil {
		t.Error("unanimous headline must not be recorded as a difference")
	}
	if _, ok := d.Differences.Supporter["Brian"]; !ok {
		t.Error("supporter disagreement for Brian missing")
	}
	if _, ok := d.Differences.Supporter["Chloe"]; ok {
		t.Error("supporter with a missing label must be skipped")
	}
}

func TestAnalyzeMetricCounts(t *testing.T) {
	report := Analyze(testItems())

	if report.Bias.Items != 2 {
		t.Errorf("bias items = %d, want 2", report.Bias.Items)
	}
	// Chloe is skipped: only Alex and Brian count.
	if report.Supporter.Items != 2 {
		t.Errorf("supporter items = %d, want 2", report.Supporter.Items)
	}
	if !report.Bias.OK {
		t.Error("bias kappa should be computable")
	}
	// Headline labels are all neutral across both items: undefined kappa.
	if report.Headline.OK {
		t.Error("single-category headline kappa must be marked uncomputed")
	}
}

func TestAnalyzeSkipsInvalidLabels(t *testing.T) {
	items := []Item{{
		Bias:            Labels{"left", "", "left"},
		HeadlineLabel:   Labels{"left", "right", "left"},
		ConclusionLabel: Labels{"LEFT", "left", "left"},
	}}
	report := Analyze(items)
	if report.Bias.Items != 0 {
		t.Errorf("incomplete bias labels must be skipped, got %d items", report.Bias.Items)
	}
	if report.Conclusion.Items != 0 {
		t.Errorf("non-canonical labels must be skipped, got %d items", report.Conclusion.Items)
	}
	if report.Headline.Items != 1 {
		t.Errorf("headline items = %d, want 1", report.Headline.Items)
	}
}
