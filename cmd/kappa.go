package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/classify"
	"github.com/yoojuneho/Fair-or-Framed/internal/kappa"
	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

var (
	flagKappaTopic string
	flagKappaOut   string
)

var kappaCmd = &cobra.Command{
	Use:   "kappa",
	Short: "Compute inter-rater agreement over labeled articles",
	Long: `Compute Fleiss' kappa across the three raters (two humans and the grader
model) for the bias, headline, conclusion, and per-supporter labels, and list
the articles the raters disagreed on.`,
	RunE: runKappa,
}

func init() {
	kappaCmd.Flags().StringVar(&flagKappaTopic, "topic", "", "only analyze runs for this topic")
	kappaCmd.Flags().StringVar(&flagKappaOut, "out", "", "write disagreement cases to a JSON file")
}

func runKappa(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := collectItems(db, flagKappaTopic)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No labeled articles found.")
		return nil
	}

	report := kappa.Analyze(items)

	fmt.Printf("Agreement over %d article(s):\n\n", len(items))
	for _, m := range []kappa.Metric{report.Bias, report.Headline, report.Conclusion, report.Supporter} {
		if m.OK {
			fmt.Printf("  %-12s κ = %+.4f  (%d items)\n", m.Name, m.Kappa, m.Items)
		} else {
			fmt.Printf("  %-12s not computable  (%d items)\n", m.Name, m.Items)
		}
	}
	fmt.Printf("\nDisagreements: %d\n", len(report.Disagreements))

	if flagKappaOut != "" {
		data, err := json.MarshalIndent(report.Disagreements, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding disagreements: %w", err)
		}
		if err := os.WriteFile(flagKappaOut, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagKappaOut, err)
		}
		fmt.Printf("Wrote disagreement cases to %s.\n", flagKappaOut)
	}

	return nil
}

// collectItems joins each article's three bias labels and analyses into one
// agreement item.
func collectItems(db *store.Store, topic string) ([]kappa.Item, error) {
	runs, err := db.GetRuns(store.QueryOpts{Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var items []kappa.Item
	for _, run := range runs {
		articles, err := db.GetArticles(run.ID)
		if err != nil {
			return nil, fmt.Errorf("run #%d: %w", run.ID, err)
		}

		for _, a := range articles {
			item := kappa.Item{
				RunID:        run.ID,
				RunIndex:     run.RunIndex,
				ArticleIndex: a.Position,
				Headline:     a.Headline,
				Article:      a.Body,
				Bias:         kappa.Labels{a.HumanBias, a.Human2Bias, a.ModelBias},
				Supporters:   map[string]kappa.Labels{},
			}

			for ri, r := range []store.Rater{store.RaterHuman, store.RaterHuman2, store.RaterModel} {
				raw := a.Analysis(r)
				if raw == "" {
					continue
				}
				var analysis classify.Analysis
				if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
					fmt.Printf("  [warn] run #%d article %d: bad %s analysis: %v\n", run.ID, a.Position+1, r, err)
					continue
				}

				item.HeadlineLabel[ri] = analysis.Headline
				item.ConclusionLabel[ri] = analysis.Conclusion
				for name, category := range analysis.Supporters.ByName() {
					labels := item.Supporters[name]
					labels[ri] = category
					item.Supporters[name] = labels
				}
			}

			items = append(items, item)
		}
	}
	return items, nil
}
