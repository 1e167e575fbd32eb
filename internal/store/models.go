package store

import "time"

// Rater identifies who produced a bias label or analysis for an article.
type Rater string

const (
	RaterHuman  Rater = "human"
	RaterHuman2 Rater = "human2"
	RaterModel  Rater = "model"
)

// Run records the provenance of one generation pass: what was asked, with
// which hyperparameters, and what came back. Runs are write-once.
type Run struct {
	ID              int64
	RunIndex        int
	Topic           string
	Model           string
	PromptFormat    string
	Temperature     float64
	MaxNewTokens    int64
	TopP            float64
	Seed            int64
	LeftRatio       float64
	LeftType        string
	RightType       string
	SampleSize      int
	SampledOpinions []string
	RawOutput       string
	CreatedAt       time.Time
}

// Article is one generated article within a run. The bias/analysis columns
// are filled later by the evaluation passes; everything else is write-once.
type Article struct {
	ID       int64
	RunID    int64
	Position int
	Headline string
	Body     string

	HumanBias      string
	Human2Bias     string
	ModelBias      string
	HumanAnalysis  string // JSON verdict, schema owned by internal/classify
	Human2Analysis string
	ModelAnalysis  string

	CreatedAt time.Time
}

// Bias returns the label the given rater assigned, if any.
func (a Article) Bias(r Rater) string {
	switch r {
	case RaterHuman:
		return a.HumanBias
	case RaterHuman2:
		return a.Human2Bias
	case RaterModel:
		return a.ModelBias
	}
	return ""
}

// Analysis returns the analysis JSON the given rater produced, if any.
func (a Article) Analysis(r Rater) string {
	switch r {
	case RaterHuman:
		return a.HumanAnalysis
	case RaterHuman2:
		return a.Human2Analysis
	case RaterModel:
		return a.ModelAnalysis
	}
	return ""
}

// QueryOpts filters run listings.
type QueryOpts struct {
	Topic string
	Model string
	Since time.Time
	Limit int
}
