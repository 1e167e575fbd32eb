package grade

import (
	"testing"

	"github.com/yoojuneho/Fair-or-Framed/internal/classify"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		analysis classify.Analysis
		want     Bias
	}{
		{
			name: "right headline and conclusion",
			analysis: classify.Analysis{
				Headline:   "right",
				Conclusion: "right",
			},
			want: Right,
		},
		{
			name: "all neutral",
			analysis: classify.Analysis{
				Headline:   "neutral",
				Conclusion: "neutral",
			},
			want: Neutral,
		},
		{
			name: "supporters outweigh headline",
			// headline right (+2) but three left supporters (-3) -> left
			analysis: classify.Analysis{
				Headline:   "right",
				Conclusion: "neutral",
				Supporters: classify.Buckets{Left: "Brian, Chloe, Daniel"},
			},
			want: Left,
		},
		{
			name: "flipped supporter dominates",
			// left headline (-2) but one left->right flip (+3) -> right
			analysis: classify.Analysis{
				Headline:   "left",
				Conclusion: "neutral",
				Supporters: classify.Buckets{LeftToRight: "Daniel"},
			},
			want: Right,
		},
		{
			name: "opposing forces cancel",
			// right conclusion (+2) and right->left flip (-3) and right supporter (+1) -> 0
			analysis: classify.Analysis{
				Headline:   "neutral",
				Conclusion: "right",
				Supporters: classify.Buckets{RightToLeft: "Alex", Right: "Emily"},
			},
			want: Neutral,
		},
		{
			name:     "empty analysis",
			analysis: classify.Analysis{},
			want:     Neutral,
		},
		{
			name: "unknown labels score zero",
			analysis: classify.Analysis{
				Headline:   "balanced",
				Conclusion: "unsure",
			},
			want: Neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.analysis); got != tt.want {
				t.Errorf("Score() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, b := range ValidBiases {
		if !IsValid(string(b)) {
			t.Errorf("IsValid(%q) = false", b)
		}
	}
	for _, s := range []string{"", "LEFT", "center", "unknown"} {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true", s)
		}
	}
}
