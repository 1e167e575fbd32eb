package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ExportArticle mirrors the annotation field names the paper's evaluation
// files use, so exported datasets round-trip through human annotators.
type ExportArticle struct {
	Headline string `json:"headline"`
	Article  string `json:"article"`

	HumanBias      string          `json:"Human's Bias,omitempty"`
	HumanAnalysis  json.RawMessage `json:"Human's analysis,omitempty"`
	Human2Bias     string          `json:"Human's Bias(1),omitempty"`
	Human2Analysis json.RawMessage `json:"Human's analysis(1),omitempty"`
	ModelBias      string          `json:"GPT's Bias,omitempty"`
	ModelAnalysis  json.RawMessage `json:"GPT's analysis,omitempty"`
}

// ExportRun is one run in the interchange file. Articles holds either the
// parsed article list or, for runs where extraction failed, the raw model
// output string.
type ExportRun struct {
	RunID           int64       `json:"run_id"`
	RunIndex        int         `json:"run_index"`
	SampledOpinions []string    `json:"sampled_opinions"`
	Articles        interface{} `json:"articles"`
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

// Export collects runs matching opts into the interchange shape. GetRuns
// lists newest-first for browsing; datasets read top to bottom, so the
// export reverses that into ascending run order.
func (s *Store) Export(opts QueryOpts) ([]ExportRun, error) {
	runs, err := s.GetRuns(opts)
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })

	out := make([]ExportRun, 0, len(runs))
	for _, run := range runs {
		rec := ExportRun{
			RunID:           run.ID,
			RunIndex:        run.RunIndex,
			SampledOpinions: run.SampledOpinions,
		}

		articles, err := s.GetArticles(run.ID)
		if err != nil {
			return nil, err
		}
		if len(articles) == 0 {
			// Extraction failed for this run; carry the raw output.
			rec.Articles = run.RawOutput
			out = append(out, rec)
			continue
		}

		exported := make([]ExportArticle, 0, len(articles))
		for _, a := range articles {
			exported = append(exported, ExportArticle{
				Headline:       a.Headline,
				Article:        a.Body,
				HumanBias:      a.HumanBias,
				HumanAnalysis:  rawOrNil(a.HumanAnalysis),
				Human2Bias:     a.Human2Bias,
				Human2Analysis: rawOrNil(a.Human2Analysis),
				ModelBias:      a.ModelBias,
				ModelAnalysis:  rawOrNil(a.ModelAnalysis),
			})
		}
		rec.Articles = exported
		out = append(out, rec)
	}
	return out, nil
}

// WriteExport writes the interchange file.
func WriteExport(path string, runs []ExportRun) error {
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// importRun is the read-side counterpart of ExportRun; Articles is decoded
// leniently because annotated files may carry extra fields.
type importRun struct {
	RunID    int64           `json:"run_id"`
	Articles json.RawMessage `json:"articles"`
}

// ImportAnnotations reads an annotated interchange file and stores any
// non-empty bias labels and analyses back onto the matching articles.
// Articles are matched by position within their run.
func (s *Store) ImportAnnotations(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading annotations: %w", err)
	}

	var runs []importRun
	if err := json.Unmarshal(data, &runs); err != nil {
		return 0, fmt.Errorf("parsing annotations %s: %w", path, err)
	}

	updated := 0
	for _, rec := range runs {
		if rec.RunID == 0 {
			continue
		}
		var annotated []ExportArticle
		if err := json.Unmarshal(rec.Articles, &annotated); err != nil {
			continue // raw-output run, nothing to import
		}

		stored, err := s.GetArticles(rec.RunID)
		if err != nil {
			return updated, err
		}

		for i, ann := range annotated {
			if i >= len(stored) {
				break
			}
			id := stored[i].ID
			changed, err := s.applyAnnotation(id, ann)
			if err != nil {
				return updated, fmt.Errorf("run %d article %d: %w", rec.RunID, i, err)
			}
			if changed {
				updated++
			}
		}
	}
	return updated, nil
}

func (s *Store) applyAnnotation(id int64, ann ExportArticle) (bool, error) {
	changed := false
	set := func(r Rater, bias string, analysis json.RawMessage) error {
		if bias != "" {
			if err := s.SetBias(id, r, bias); err != nil {
				return err
			}
			changed = true
		}
		if len(analysis) > 0 {
			// Indented files re-flow nested JSON; store it compact.
			var buf bytes.Buffer
			if err := json.Compact(&buf, analysis); err != nil {
				return fmt.Errorf("invalid analysis JSON: %w", err)
			}
			if err := s.SetAnalysis(id, r, buf.String()); err != nil {
				return err
			}
			changed = true
		}
		return nil
	}

	if err := set(RaterHuman, ann.HumanBias, ann.HumanAnalysis); err != nil {
		return changed, err
	}
	if err := set(RaterHuman2, ann.Human2Bias, ann.Human2Analysis); err != nil {
		return changed, err
	}
	if err := set(RaterModel, ann.ModelBias, ann.ModelAnalysis); err != nil {
		return changed, err
	}
	return changed, nil
}
