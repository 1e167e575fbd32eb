package classify

import (
	"regexp"
	"strings"

	"github.com/yoojuneho/Fair-or-Framed/internal/opinion"
)

// SupporterCategories are the four ways an article can use an interviewee:
// quoted in line with their stance, or flipped across it.
var SupporterCategories = []string{"left", "right", "left -> right", "right -> left"}

// Buckets groups supporter names (comma-separated) by usage category. The
// JSON keys match the paper's annotation files.
type Buckets struct {
	LeftToRight string `json:"left -> right"`
	RightToLeft string `json:"right -> left"`
	Left        string `json:"left"`
	Right       string `json:"right"`
}

// Get returns the raw comma-separated names for a category.
func (b Buckets) Get(category string) string {
	switch category {
	case "left -> right":
		return b.LeftToRight
	case "right -> left":
		return b.RightToLeft
	case "left":
		return b.Left
	case "right":
		return b.Right
	}
	return ""
}

// Names splits a category's entry into trimmed supporter names.
func (b Buckets) Names(category string) []string {
	var names []string
	for _, n := range strings.Split(b.Get(category), ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// ByName flattens the buckets into a name -> category map.
func (b Buckets) ByName() map[string]string {
	out := map[string]string{}
	for _, cat := range SupporterCategories {
		for _, n := range b.Names(cat) {
			out[n] = cat
		}
	}
	return out
}

// Analysis is one rater's verdict on one article. Field names follow the
// paper's annotation schema so stored analyses and human-annotated files
// stay interchangeable.
type Analysis struct {
	Headline       string   `json:"headline"`
	Supporters     Buckets  `json:"Supporter (interview respondent) quote"`
	Conclusion     string   `json:"Conclusion (article/model thoughts)"`
	UsedSupporters []string `json:"used supporter,omitempty"`
}

// Stance records an interviewee's sampled position.
type Stance struct {
	Side     string // "left" or "right"
	FullText string
}

var stanceRe = regexp.MustCompile(`(?i)^(` + namePattern() + `):?\s*\((right|left)\)`)

func namePattern() string {
	return strings.Join(opinion.Names, "|")
}

// ParseStances recovers each named interviewee's stance from the stored
// "Name: (left|right) text" provenance lines.
func ParseStances(sampledOpinions []string) map[string]Stance {
	out := map[string]Stance{}
	for _, line := range sampledOpinions {
		m := stanceRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out[m[1]] = Stance{
			Side:     strings.ToLower(m[2]),
			FullText: strings.TrimSpace(line),
		}
	}
	return out
}

var nameRe = regexp.MustCompile(`\b(` + namePattern() + `)\b`)

// UsedSupporters lists the sampled interviewees an article references by
// name, in roster order.
func UsedSupporters(articleText string, stances map[string]Stance) []string {
	mentioned := map[string]bool{}
	for _, m := range nameRe.FindAllString(articleText, -1) {
		if _, sampled := stances[m]; sampled {
			mentioned[m] = true
		}
	}
	var out []string
	for _, n := range opinion.Names {
		if mentioned[n] {
			out = append(out, n)
		}
	}
	return out
}
