package extract

import (
	"strings"
	"testing"
)

func TestArticlesParsesArray(t *testing.T) {
	decoded := `Sure, here are the articles:
[
  {"headline": "Border Debate Intensifies", "article": "Alex argues that stricter rules deter crossings."},
  {"headline": "A Pathway Forward", "article": "Julia believes citizenship pathways boost the economy."}
]
Hope this helps!`

	res := Articles(decoded)
	if !res.Parsed() {
		t.Fatalf("expected parsed articles, got raw: %q", res.Raw)
	}
	if len(res.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(res.Articles))
	}
	if res.Articles[0].Headline != "Border Debate Intensifies" {
		t.Errorf("unexpected headline: %q", res.Articles[0].Headline)
	}
	if !strings.Contains(res.Articles[1].Article, "citizenship pathways") {
		t.Errorf("unexpected body: %q", res.Articles[1].Article)
	}
}

func TestArticlesStripsThinkBlock(t *testing.T) {
	decoded := `<think>
Let me draft something like [{"headline": "draft", "article": "scratch"}] first...
</think>
[
  {"headline": "Final Headline", "article": "Final body."}
]`

	res := Articles(decoded)
	if !res.Parsed() {
		t.Fatalf("expected parsed articles, got raw: %q", res.Raw)
	}
	if len(res.Articles) != 1 || res.Articles[0].Headline != "Final Headline" {
		t.Errorf("think-block JSON leaked into the result: %+v", res.Articles)
	}
}

func TestArticlesNoMatch(t *testing.T) {
	decoded := "The model rambled and never produced JSON."
	res := Articles(decoded)
	if res.Parsed() {
		t.Fatalf("expected raw fallback, got %+v", res.Articles)
	}
	if res.Raw != decoded {
		t.Errorf("raw output must be preserved verbatim, got %q", res.Raw)
	}
}

func TestArticlesMalformedJSON(t *testing.T) {
	decoded := `[{"headline": "Unclosed", "article": "body"}` // missing ]
	res := Articles(decoded)
	if res.Parsed() {
		t.Fatal("expected raw fallback for malformed JSON")
	}
	if res.Raw != decoded {
		t.Errorf("raw output must be preserved verbatim, got %q", res.Raw)
	}
}

func TestArticlesDropsEmptyTemplateEntries(t *testing.T) {
	decoded := `[
  {"headline": "Real One", "article": "Content."},
  {"headline": "", "article": ""},
  {"headline": "", "article": ""}
]`
	res := Articles(decoded)
	if len(res.Articles) != 1 {
		t.Fatalf("expected 1 article after dropping empties, got %d", len(res.Articles))
	}
}

func TestArticlesAllEmptyFallsBack(t *testing.T) {
	decoded := `[{"headline": "", "article": ""}]`
	res := Articles(decoded)
	if res.Parsed() {
		t.Fatal("expected raw fallback when every entry is empty")
	}
}
