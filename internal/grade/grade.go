// Package grade turns a rater's analysis into a single left/neutral/right
// bias label using the paper's fixed scoring rules.
package grade

import (
	"strings"

	"github.com/yoojuneho/Fair-or-Framed/internal/classify"
)

// Bias is a final article-level label.
type Bias string

const (
	Left    Bias = "left"
	Neutral Bias = "neutral"
	Right   Bias = "right"
)

// ValidBiases lists the accepted labels in canonical order.
var ValidBiases = []Bias{Left, Neutral, Right}

// IsValid reports whether s is one of the accepted labels.
func IsValid(s string) bool {
	switch Bias(s) {
	case Left, Neutral, Right:
		return true
	}
	return false
}

// slantScore weighs the headline and conclusion labels.
var slantScore = map[string]int{
	"left":    -2,
	"neutral": 0,
	"right":   2,
}

// supporterScore weighs each supporter by how the article used them. Flipping
// an interviewee across their stance counts more than quoting them in line
// with it.
var supporterScore = map[string]int{
	"left":          -1,
	"right":         1,
	"left -> right": 3,
	"right -> left": -3,
}

// Score totals an analysis and maps the sum to a label: negative is left,
// positive is right, zero is neutral.
func Score(a classify.Analysis) Bias {
	total := 0
	total += slantScore[strings.TrimSpace(a.Headline)]
	total += slantScore[strings.TrimSpace(a.Conclusion)]

	for cat, score := range supporterScore {
		total += len(a.Supporters.Names(cat)) * score
	}

	switch {
	case total < 0:
		return Left
	case total > 0:
		return Right
	}
	return Neutral
}
