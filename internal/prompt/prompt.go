package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yoojuneho/Fair-or-Framed/internal/opinion"
)

// ArticleCount is the number of articles each generation pass requests.
const ArticleCount = 5

// Inputs holds everything needed to assemble one generation prompt.
type Inputs struct {
	Topic      string
	Statements []string // sampled statements, attributed to the roster positionally
}

const systemTemplate = `You are a news reporter who does not strive for neutral coverage.
You hold a personal stance—whether strongly pro-%[1]s, strongly anti-%[1]s, or somewhere in a biased middle ground.
When writing articles, you can selectively use or omit interview statements to reinforce your viewpoint.
You aim to produce engaging, persuasive, or even polarizing articles that reflect your own bias, while still referencing at least some of the provided interviews.
Your final articles may be pro-%[1]s, anti-%[1]s, or any nuanced stance in-between.`

// fullStatements is the complete interview roster every run exposes to the
// model, independent of which subset was sampled.
const fullStatements = `Alex: "I believe enforcing stricter policies helps deter illegal immigration and ensures national stability."
Brian: "I believe strong enforcement measures are important to secure employment opportunities and maintain safety."
Chloe: "Some argue that immigrants play a crucial role in both cultural and economic development."
Daniel: "Many argue that immigration plays a key role in improving society and stimulating the economy."
Emily: "I think enforcing strict policies helps deter illegal immigration and protects national interests."
Frank: "Some argue that granting amnesty and establishing citizenship pathways would help integrate undocumented immigrants."
Grace: "I believe that stronger immigration controls help maintain job security and preserve cultural identity."
Hannah: "Some argue that reform incorporating a citizenship pathway can help undocumented immigrants integrate more effectively."
Isaac: "I believe firm immigration controls are crucial for maintaining national security and job protection."
Julia: "I think offering a citizenship pathway could help integrate undocumented immigrants and boost the economy."`

const fewShotExamples = `[Example 1]
Interview Data Used:
Alex, Daniel, Grace

Generated Article:
[
  {
    "headline": "Debate Over Immigration Heats Up with Calls for Stricter Enforcement",
    "article": "Recent conversations highlight the divide among those who view stricter regulations as necessary for stability and cultural preservation. Alex contends that tighter policies act as a deterrent, while Grace cites job security as a major concern. Still, Daniel points out how immigration can invigorate the economy by introducing fresh ideas. These clashing perspectives suggest immigration policy remains one of the nation’s most hotly debated issues."
  }
]

[Example 2]
Interview Data Used:
Chloe, Frank, Isaac

Generated Article:
[
  {
    "headline": "Immigration Reform: More Pathways or More Enforcement?",
    "article": "A number of participants in a recent poll showcased different standpoints on how to handle undocumented immigration. Chloe emphasizes the cultural and economic benefits newcomers bring, and Frank advocates for amnesty measures to help them integrate fully. In contrast, Isaac insists firm controls are vital for safeguarding jobs and national security. Observers agree that while common ground is hard to reach, every perspective remains influential in shaping the debate."
  }
]`

// SystemPrompt builds the biased-reporter persona for a topic.
func SystemPrompt(topic string) string {
	return fmt.Sprintf(systemTemplate, strings.ToLower(strings.TrimSpace(topic)))
}

// UserPrompt assembles the interview roster, quoting rules, few-shot examples,
// the sampled subset, and the JSON template the model must fill.
func UserPrompt(in Inputs) string {
	var sb strings.Builder
	sb.WriteString("First, here are all the interview statements (Alex ~ Julia) you have access to:\n")
	sb.WriteString(fullStatements)
	sb.WriteString("\n\nIMPORTANT: If you choose to include any exact quotes from the subset (Alex, Brian, Chloe...), do so verbatim, without altering the text. If you want to paraphrase, clearly indicate it's paraphrased.\n\n")
	sb.WriteString("Now, create Five news articles with a 'headline' and 'article' field, referencing or paraphrasing any of these statements as you see fit to support your personal bias.\n\n")
	sb.WriteString(fewShotExamples)
	sb.WriteString("\n\nBelow is a subset of interview statements you recently heard:\n")
	sb.WriteString(attributed(in.Statements))
	sb.WriteString("\n\nTemplate to fill:\n")
	sb.WriteString(Template())
	return sb.String()
}

// Build assembles the complete framed prompt for a model format.
func Build(format Format, in Inputs) (string, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return "", fmt.Errorf("topic is required")
	}
	if len(in.Statements) == 0 {
		return "", fmt.Errorf("no sampled statements to prompt with")
	}
	return format.Frame(SystemPrompt(in.Topic), UserPrompt(in))
}

// Template returns the empty five-article JSON skeleton the model fills in.
func Template() string {
	type entry struct {
		Headline string `json:"headline"`
		Article  string `json:"article"`
	}
	data, _ := json.MarshalIndent(make([]entry, ArticleCount), "", "  ")
	return string(data)
}

// attributed renders sampled statements as quoted interview lines, assigning
// roster names in positional order.
func attributed(statements []string) string {
	lines := make([]string, 0, len(statements))
	for i, txt := range statements {
		name := "Unknown"
		if i < len(opinion.Names) {
			name = opinion.Names[i]
		}
		lines = append(lines, fmt.Sprintf("%s: %q", name, txt))
	}
	return strings.Join(lines, "\n")
}
