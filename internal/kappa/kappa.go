// Package kappa measures inter-rater agreement between the two human
// annotators and the model rater using Fleiss' kappa, and collects the
// cases where the three disagree.
package kappa

import (
	"errors"

	"github.com/yoojuneho/Fair-or-Framed/internal/classify"
	"github.com/yoojuneho/Fair-or-Framed/internal/grade"
)

// Raters is the fixed rater count: human, second human, model.
const Raters = 3

// Labels holds one label per rater, in human/human2/model order.
type Labels [Raters]string

// complete reports whether every rater supplied a label.
func (l Labels) complete() bool {
	for _, v := range l {
		if v == "" {
			return false
		}
	}
	return true
}

// unanimous reports whether all raters agree.
func (l Labels) unanimous() bool {
	return l[0] == l[1] && l[1] == l[2]
}

// validBias reports whether every label is left/neutral/right.
func (l Labels) validBias() bool {
	for _, v := range l {
		if !grade.IsValid(v) {
			return false
		}
	}
	return true
}

// Item is one labeled article as seen by all three raters.
type Item struct {
	RunID        int64
	RunIndex     int
	ArticleIndex int
	Headline     string
	Article      string

	Bias            Labels
	HeadlineLabel   Labels
	ConclusionLabel Labels
	Supporters      map[string]Labels // interviewee name -> per-rater category
}

// Metric is the agreement result for one label dimension.
type Metric struct {
	Name  string  `json:"metric"`
	Kappa float64 `json:"fleiss_kappa"`
	Items int     `json:"items"`
	OK    bool    `json:"computed"`
}

// Differences records which dimensions of an article the raters disagreed on.
type Differences struct {
	Bias       []string            `json:"bias,omitempty"`
	Headline   []string            `json:"headline,omitempty"`
	Conclusion []string            `json:"conclusion,omitempty"`
	Supporter  map[string][]string `json:"supporter,omitempty"`
}

// Disagreement is one article the raters did not agree on.
type Disagreement struct {
	RunID        int64       `json:"run_id"`
	RunIndex     int         `json:"run_index"`
	ArticleIndex int         `json:"article_index"`
	Headline     string      `json:"headline"`
	Article      string      `json:"article"`
	Differences  Differences `json:"differences"`
}

// Report is the full agreement analysis.
type Report struct {
	Bias          Metric
	Headline      Metric
	Conclusion    Metric
	Supporter     Metric
	Disagreements []Disagreement
}

func biasCategories() []string {
	cats := make([]string, 0, len(grade.ValidBiases))
	for _, b := range grade.ValidBiases {
		cats = append(cats, string(b))
	}
	return cats
}

// Analyze computes Fleiss' kappa per dimension and collects disagreements.
// Items missing a label from any rater are skipped for that dimension.
func Analyze(items []Item) Report {
	var biasTri, headTri, conclTri, suppTri []Labels
	var disagreements []Disagreement

	for _, it := range items {
		var diff Differences
		flag := false

		if it.Bias.validBias() {
			biasTri = append(biasTri, it.Bias)
			if !it.Bias.unanimous() {
				diff.Bias = it.Bias[:]
				flag = true
			}
		}
		if it.HeadlineLabel.validBias() {
			headTri = append(headTri, it.HeadlineLabel)
			if !it.HeadlineLabel.unanimous() {
				diff.Headline = it.HeadlineLabel[:]
				flag = true
			}
		}
		if it.ConclusionLabel.validBias() {
			conclTri = append(conclTri, it.ConclusionLabel)
			if !it.ConclusionLabel.unanimous() {
				diff.Conclusion = it.ConclusionLabel[:]
				flag = true
			}
		}

		for name, tri := range it.Supporters {
			if !tri.complete() {
				continue // need labels from all three raters
			}
			suppTri = append(suppTri, tri)
			if !tri.unanimous() {
				if diff.Supporter == nil {
					diff.Supporter = map[string][]string{}
				}
				diff.Supporter[name] = tri[:]
				flag = true
			}
		}

		if flag {
			disagreements = append(disagreements, Disagreement{
				RunID:        it.RunID,
				RunIndex:     it.RunIndex,
				ArticleIndex: it.ArticleIndex,
				Headline:     it.Headline,
				Article:      it.Article,
				Differences:  diff,
			})
		}
	}

	return Report{
		Bias:          metric("Bias", biasTri, biasCategories()),
		Headline:      metric("Headline", headTri, biasCategories()),
		Conclusion:    metric("Conclusion", conclTri, biasCategories()),
		Supporter:     metric("Supporter", suppTri, classify.SupporterCategories),
		Disagreements: disagreements,
	}
}

func metric(name string, triples []Labels, categories []string) Metric {
	m := Metric{Name: name, Items: len(triples)}
	if len(triples) == 0 {
		return m
	}
	k, err := Fleiss(Matrix(triples, categories))
	if err != nil {
		return m
	}
	m.Kappa = k
	m.OK = true
	return m
}

// Matrix builds the n_items x n_categories count matrix Fleiss' kappa needs.
// Labels outside the category set are dropped.
func Matrix(triples []Labels, categories []string) [][]int {
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}

	mat := make([][]int, len(triples))
	for i, tri := range triples {
		row := make([]int, len(categories))
		for _, label := range tri {
			if j, ok := index[label]; ok {
				row[j]++
			}
		}
		mat[i] = row
	}
	return mat
}

// Fleiss computes Fleiss' kappa for a count matrix whose rows each sum to the
// same number of raters. Perfect chance agreement makes kappa undefined.
func Fleiss(mat [][]int) (float64, error) {
	if len(mat) == 0 {
		return 0, errors.New("no items")
	}

	n := float64(len(mat))
	raters := 0
	for _, c := range mat[0] {
		raters += c
	}
	if raters < 2 {
		return 0, errors.New("need at least two raters per item")
	}
	r := float64(raters)

	// Per-item agreement.
	var pBarSum float64
	colSums := make([]float64, len(mat[0]))
	for _, row := range mat {
		rowSum := 0
		sq := 0
		for j, c := range row {
			rowSum += c
			sq += c * c
			colSums[j] += float64(c)
		}
		if rowSum != raters {
			return 0, errors.New("inconsistent rater count across items")
		}
		pBarSum += (float64(sq) - r) / (r * (r - 1))
	}
	pBar := pBarSum / n

	// Chance agreement from the category distribution.
	var pe float64
	for _, s := range colSums {
		p := s / (n * r)
		pe += p * p
	}

	if pe == 1 {
		return 0, errors.New("kappa undefined: all ratings fall in one category")
	}
	return (pBar - pe) / (1 - pe), nil
}
