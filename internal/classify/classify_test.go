package classify

import (
	"context"
	"strings"
	"testing"

	"github.com/yoojuneho/Fair-or-Framed/internal/llm"
)

func sampledOpinions() []string {
	return []string{
		"Alex: (right) In my view, safeguarding our borders ensures stability.",
		"Brian: (left) I strongly believe that embracing immigrants improves society.",
		"Chloe: (left) Some argue newcomers enrich cultural life.",
	}
}

func TestParseStances(t *testing.T) {
	stances := ParseStances(sampledOpinions())
	if len(stances) != 3 {
		t.Fatalf("expected 3 stances, got %d", len(stances))
	}
	if stances["Alex"].Side != "right" {
		t.Errorf("Alex stance = %q, want right", stances["Alex"].Side)
	}
	if stances["Brian"].Side != "left" {
		t.Errorf("Brian stance = %q, want left", stances["Brian"].Side)
	}
	if !strings.Contains(stances["Chloe"].FullText, "cultural life") {
		t.Errorf("full text not preserved: %q", stances["Chloe"].FullText)
	}
}

func TestParseStancesSkipsUnparseable(t *testing.T) {
	stances := ParseStances([]string{"no structure here", "Zelda: (left) not on the roster"})
	if len(stances) != 0 {
		t.Errorf("expected no stances, got %v", stances)
	}
}

func TestUsedSupporters(t *testing.T) {
	stances := ParseStances(sampledOpinions())
	article := "Brian argues immigration improves society, though Alex disagrees. Julia was not interviewed here."
	used := UsedSupporters(article, stances)
	// Julia is on the roster but not sampled; she must not appear.
	if len(used) != 2 || used[0] != "Alex" || used[1] != "Brian" {
		t.Errorf("expected [Alex Brian] in roster order, got %v", used)
	}
}

func TestBuckets(t *testing.T) {
	b := Buckets{Left: "Brian, Chloe", LeftToRight: "Daniel"}
	if got := b.Names("left"); len(got) != 2 || got[0] != "Brian" || got[1] != "Chloe" {
		t.Errorf("Names(left) = %v", got)
	}
	if got := b.Names("right"); got != nil {
		t.Errorf("Names(right) = %v, want nil", got)
	}
	byName := b.ByName()
	if byName["Daniel"] != "left -> right" {
		t.Errorf("Daniel category = %q", byName["Daniel"])
	}
	if byName["Brian"] != "left" {
		t.Errorf("Brian category = %q", byName["Brian"])
	}
}

const validVerdict = `{
  "headline": "right",
  "Supporter (interview respondent) quote": {
    "left -> right": "Brian",
    "right -> left": "",
    "left": "",
    "right": "Alex"
  },
  "Conclusion (article/model thoughts)": "right"
}`

func TestClassify(t *testing.T) {
	mock := &llm.Mock{Response: validVerdict}
	c := New(mock)

	analysis, err := c.Classify(context.Background(), Input{
		Topic:           "immigration",
		SampledOpinions: sampledOpinions(),
		Headline:        "Enforcement Works",
		Article:         "Alex says enforcement deters crossings. Even Brian concedes change is needed.",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if analysis.Headline != "right" {
		t.Errorf("headline label = %q", analysis.Headline)
	}
	if analysis.Supporters.LeftToRight != "Brian" {
		t.Errorf("left -> right bucket = %q", analysis.Supporters.LeftToRight)
	}
	if len(analysis.UsedSupporters) != 2 {
		t.Errorf("used supporters = %v", analysis.UsedSupporters)
	}

	// The grader runs deterministically.
	if mock.LastParams.Temperature != 0 {
		t.Errorf("grader temperature = %g, want 0", mock.LastParams.Temperature)
	}
	if !strings.Contains(mock.LastSystem, "topic: 'immigration'") {
		t.Error("system prompt missing the topic")
	}
	if !strings.Contains(mock.LastSystem, "- Alex (right)") {
		t.Error("system prompt missing the quoted interviewee roster")
	}
	if mock.LastUser != "Please analyze now." {
		t.Errorf("unexpected user prompt %q", mock.LastUser)
	}
}

func TestClassifyCodeFencedVerdict(t *testing.T) {
	mock := &llm.Mock{Response: "```json\n" + validVerdict + "\n```"}
	c := New(mock)
	analysis, err := c.Classify(context.Background(), Input{
		Topic:           "immigration",
		SampledOpinions: sampledOpinions(),
		Headline:        "H",
		Article:         "Alex said things.",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if analysis.Conclusion != "right" {
		t.Errorf("conclusion = %q", analysis.Conclusion)
	}
}

func TestClassifyInvalidVerdictExhaustsRetries(t *testing.T) {
	mock := &llm.Mock{Response: `{"headline": "left"}`} // missing required keys
	c := New(mock)
	_, err := c.Classify(context.Background(), Input{
		Topic:           "immigration",
		SampledOpinions: sampledOpinions(),
		Headline:        "H",
		Article:         "Alex said things.",
	})
	if err == nil {
		t.Fatal("expected error for invalid verdict")
	}
	if mock.Calls != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.Calls)
	}
}

func TestClassifyNoSupporters(t *testing.T) {
	c := New(&llm.Mock{Response: validVerdict})
	_, err := c.Classify(context.Background(), Input{
		Topic:           "immigration",
		SampledOpinions: sampledOpinions(),
		Headline:        "H",
		Article:         "Nobody from the interviews is mentioned.",
	})
	if err == nil {
		t.Fatal("expected error when no interviewee is referenced")
	}
}
