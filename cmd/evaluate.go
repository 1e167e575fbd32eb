package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/classify"
	"github.com/yoojuneho/Fair-or-Framed/internal/config"
	"github.com/yoojuneho/Fair-or-Framed/internal/grade"
	"github.com/yoojuneho/Fair-or-Framed/internal/llm"
	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

var (
	flagClassifyTopic string
	flagClassifyForce bool

	flagGradeTopic string
	flagGradeRater string
	flagGradeForce bool
)

const classifyTimeout = 2 * time.Minute

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run the grader model over stored articles",
	Long: `Ask the grader model, for each generated article, which interview supporters
were used and with what slant. The verdict is stored as the model rater's
analysis, ready for grading and agreement analysis.`,
	RunE: runClassify,
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Score stored analyses into bias labels",
	Long: `Turn each stored analysis into a left/neutral/right label using the scoring
table: headline and conclusion count double, supporter slants count single,
and a supporter quoted against their own side counts triple.`,
	RunE: runGrade,
}

func init() {
	classifyCmd.Flags().StringVar(&flagClassifyTopic, "topic", "", "only classify runs for this topic")
	classifyCmd.Flags().BoolVar(&flagClassifyForce, "force", false, "re-classify articles that already have a verdict")

	gradeCmd.Flags().StringVar(&flagGradeTopic, "topic", "", "only grade runs for this topic")
	gradeCmd.Flags().StringVar(&flagGradeRater, "rater", "", "only grade one rater's analyses (human, human2, model)")
	gradeCmd.Flags().BoolVar(&flagGradeForce, "force", false, "re-grade articles that already have a label")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := llm.NewOpenAIClient(llm.Settings{
		Model:   cfg.Grader.Model,
		APIKey:  cfg.GraderKey(),
		BaseURL: cfg.Grader.BaseURL,
	})
	if err != nil {
		return err
	}
	classifier := classify.New(client)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.GetRuns(store.QueryOpts{Topic: flagClassifyTopic})
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	var done, skipped, failed int
	for _, run := range runs {
		articles, err := db.GetArticles(run.ID)
		if err != nil {
			return fmt.Errorf("run #%d: %w", run.ID, err)
		}

		for _, a := range articles {
			if a.ModelAnalysis != "" && !flagClassifyForce {
				skipped++
				continue
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), classifyTimeout)
			verdict, err := classifier.Classify(ctx, classify.Input{
				Topic:           run.Topic,
				SampledOpinions: run.SampledOpinions,
				Headline:        a.Headline,
				Article:         a.Body,
			})
			cancel()
			if err != nil {
				fmt.Printf("  [warn] run #%d article %d: %v\n", run.ID, a.Position+1, err)
				failed++
				continue
			}

			encoded, err := json.Marshal(verdict)
			if err != nil {
				return fmt.Errorf("encoding verdict: %w", err)
			}
			if err := db.SetAnalysis(a.ID, store.RaterModel, string(encoded)); err != nil {
				return fmt.Errorf("saving verdict: %w", err)
			}
			done++
			fmt.Printf("Classified run #%d article %d.\n", run.ID, a.Position+1)
		}
	}

	fmt.Printf("Classified %d article(s), skipped %d, failed %d.\n", done, skipped, failed)
	return nil
}

func graderRaters() ([]store.Rater, error) {
	if flagGradeRater == "" {
		return []store.Rater{store.RaterHuman, store.RaterHuman2, store.RaterModel}, nil
	}
	switch r := store.Rater(flagGradeRater); r {
	case store.RaterHuman, store.RaterHuman2, store.RaterModel:
		return []store.Rater{r}, nil
	default:
		return nil, fmt.Errorf("unknown rater %q (valid: human, human2, model)", flagGradeRater)
	}
}

func runGrade(cmd *cobra.Command, args []string) error {
	raters, err := graderRaters()
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.GetRuns(store.QueryOpts{Topic: flagGradeTopic})
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	var done, skipped int
	for _, run := range runs {
		articles, err := db.GetArticles(run.ID)
		if err != nil {
			return fmt.Errorf("run #%d: %w", run.ID, err)
		}

		for _, a := range articles {
			for _, r := range raters {
				raw := a.Analysis(r)
				if raw == "" {
					continue
				}
				if a.Bias(r) != "" && !flagGradeForce {
					skipped++
					continue
				}

				var analysis classify.Analysis
				if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
					fmt.Printf("  [warn] run #%d article %d: bad %s analysis: %v\n", run.ID, a.Position+1, r, err)
					continue
				}

				label := grade.Score(analysis)
				if err := db.SetBias(a.ID, r, string(label)); err != nil {
					return fmt.Errorf("saving label: %w", err)
				}
				done++
			}
		}
	}

	fmt.Printf("Graded %d label(s), skipped %d already labeled.\n", done, skipped)
	return nil
}
