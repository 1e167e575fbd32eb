// Package topics suggests article topics for generation runs by scanning
// news feeds for trending headline terms.
package topics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mmcdole/gofeed"

	"github.com/yoojuneho/Fair-or-Framed/internal/config"
)

// Headline is a single news item pulled from a feed.
type Headline struct {
	Source    string
	Title     string
	Link      string
	Published time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]Headline, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), maxAge: 7 * 24 * time.Hour}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]Headline, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	cutoff := now.Add(-f.maxAge)
	headlines := make([]Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		// Skip items older than a week; stale topics make poor prompts.
		if pub.Before(cutoff) {
			continue
		}

		title := strings.Join(strings.Fields(item.Title), " ")
		if title == "" {
			continue
		}

		headlines = append(headlines, Headline{
			Source:    source.Name,
			Title:     title,
			Link:      item.Link,
			Published: pub,
		})
	}
	return headlines, nil
}

// Result collects headlines across sources; per-source failures are
// reported without failing the whole scan.
type Result struct {
	Headlines []Headline
	Errors    []error
}

func FetchAll(ctx context.Context, fetcher Fetcher, sources []config.Source) Result {
	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			headlines, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Headlines = append(result.Headlines, headlines...)
		}(src)
	}

	wg.Wait()

	sort.Slice(result.Headlines, func(i, j int) bool {
		return result.Headlines[i].Published.After(result.Headlines[j].Published)
	})
	return result
}

// Suggestion is a candidate generation topic with the headlines behind it.
type Suggestion struct {
	Term      string
	Score     float64
	Headlines []Headline
}

// Trending ranks headline terms by TF-IDF, treating each headline as a
// document. Terms appearing in a single headline are ignored: a topic worth
// generating articles about shows up across outlets.
func Trending(headlines []Headline, limit int) []Suggestion {
	if limit <= 0 {
		limit = 5
	}

	df := map[string]int{}
	byTerm := map[string][]Headline{}
	tf := map[string]int{}
	for _, h := range headlines {
		seen := map[string]bool{}
		for _, w := range tokenize(h.Title) {
			tf[w]++
			if !seen[w] {
				df[w]++
				seen[w] = true
				byTerm[w] = append(byTerm[w], h)
			}
		}
	}

	totalDocs := len(headlines)
	if totalDocs == 0 {
		return nil
	}

	var out []Suggestion
	for term, freq := range tf {
		if df[term] < 2 {
			continue
		}
		idf := math.Log(float64(totalDocs)/float64(df[term])) + 1
		out = append(out, Suggestion{
			Term:      term,
			Score:     float64(freq) * idf,
			Headlines: byTerm[term],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Term < out[j].Term
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "it": true, "its": true,
	"this": true, "that": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"can": true, "not": true, "no": true, "how": true, "what": true, "when": true,
	"where": true, "who": true, "which": true, "why": true, "all": true,
	"more": true, "most": true, "other": true, "some": true, "than": true,
	"about": true, "into": true, "over": true, "after": true, "before": true,
	"between": true, "under": true, "out": true, "up": true, "down": true,
	"off": true, "says": true, "said": true, "new": true, "amid": true,
	"news": true, "report": true, "live": true, "update": true, "updates": true,
	"year": true, "years": true, "first": true, "latest": true,
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(word) < 4 {
			continue
		}
		if stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
