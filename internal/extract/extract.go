// Package extract pulls the structured article list out of raw model output.
// Reasoning models wrap free-form thinking around the JSON payload, so the
// parse is best-effort: when no well-formed array is found the raw text is
// kept for the record instead.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Article is one generated news article.
type Article struct {
	Headline string `json:"headline"`
	Article  string `json:"article"`
}

// Result holds either parsed articles or the unparsed raw output.
type Result struct {
	Articles []Article
	Raw      string // set when no valid JSON array was found
}

// Parsed reports whether structured articles were recovered.
func (r Result) Parsed() bool {
	return len(r.Articles) > 0
}

var (
	arrayRe = regexp.MustCompile(`(?s)(\[\s*\{.*?\}\s*\])`)
	thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// Articles extracts the first JSON article array from decoded model output.
// DeepSeek-style <think> blocks are stripped first so reasoning text with
// embedded JSON fragments cannot shadow the answer.
func Articles(decoded string) Result {
	cleaned := thinkRe.ReplaceAllString(decoded, "")

	m := arrayRe.FindStringSubmatch(cleaned)
	if m == nil {
		return Result{Raw: decoded}
	}

	var articles []Article
	if err := json.Unmarshal([]byte(m[1]), &articles); err != nil {
		return Result{Raw: decoded}
	}

	// Drop template entries the model left empty.
	out := articles[:0]
	for _, a := range articles {
		if strings.TrimSpace(a.Headline) == "" && strings.TrimSpace(a.Article) == "" {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return Result{Raw: decoded}
	}
	return Result{Articles: out}
}
