package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/config"
	"github.com/yoojuneho/Fair-or-Framed/internal/extract"
	"github.com/yoojuneho/Fair-or-Framed/internal/llm"
	"github.com/yoojuneho/Fair-or-Framed/internal/opinion"
	"github.com/yoojuneho/Fair-or-Framed/internal/prompt"
	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

var (
	flagGenTopic        string
	flagGenData         string
	flagGenModel        string
	flagGenBaseURL      string
	flagGenFormat       string
	flagGenTemperature  float64
	flagGenMaxNewTokens int64
	flagGenTopP         float64
	flagGenSamples      int
	flagGenLeftRatio    float64
	flagGenLeftType     string
	flagGenRightType    string
	flagGenSeed         int64
	flagGenRuns         int
	flagGenOut          string
)

// Completion requests against a local 32B model can take a while.
const generateTimeout = 15 * time.Minute

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate slanted articles and record them as dataset runs",
	Long: `Sample interview opinions, build a persona prompt around the topic, call the
model endpoint, and persist the extracted articles. Each run records its full
sampling and decoding parameters so the dataset is reproducible.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&flagGenTopic, "topic", "", "article topic (required)")
	f.StringVar(&flagGenData, "data", "data/opinions.json", "path to the opinion dataset")
	f.StringVar(&flagGenModel, "model", "", "model name served at the endpoint")
	f.StringVar(&flagGenBaseURL, "base-url", "", "OpenAI-compatible endpoint base URL")
	f.StringVar(&flagGenFormat, "prompt-format", "", "prompt framing: alpaca, deepseek, chatml, llama")
	f.Float64Var(&flagGenTemperature, "temperature", 0, "sampling temperature")
	f.Int64Var(&flagGenMaxNewTokens, "max-new-tokens", 0, "completion token budget")
	f.Float64Var(&flagGenTopP, "top-p", 0, "nucleus sampling cutoff")
	f.IntVar(&flagGenSamples, "samples", 0, "opinions sampled per run")
	f.Float64Var(&flagGenLeftRatio, "left-ratio", 0, "fraction of sampled opinions from the left side")
	f.StringVar(&flagGenLeftType, "left-type", "", "left phrasing: explicit or implicit")
	f.StringVar(&flagGenRightType, "right-type", "", "right phrasing: explicit or implicit")
	f.Int64Var(&flagGenSeed, "seed", 0, "sampling seed")
	f.IntVar(&flagGenRuns, "runs", 0, "number of generation runs")
	f.StringVar(&flagGenOut, "out", "", "also write the new runs to a JSON dataset file")

	generateCmd.MarkFlagRequired("topic")
}

// applyGenerateFlags overlays explicitly set flags on the config defaults.
func applyGenerateFlags(cmd *cobra.Command, g *config.Generation) {
	set := map[string]func(){
		"model":          func() { g.Model = flagGenModel },
		"base-url":       func() { g.BaseURL = flagGenBaseURL },
		"prompt-format":  func() { g.PromptFormat = flagGenFormat },
		"temperature":    func() { g.Temperature = flagGenTemperature },
		"max-new-tokens": func() { g.MaxNewTokens = flagGenMaxNewTokens },
		"top-p":          func() { g.TopP = flagGenTopP },
		"samples":        func() { g.Samples = flagGenSamples },
		"left-ratio":     func() { g.LeftRatio = flagGenLeftRatio },
		"left-type":      func() { g.LeftType = flagGenLeftType },
		"right-type":     func() { g.RightType = flagGenRightType },
		"seed":           func() { g.Seed = flagGenSeed },
		"runs":           func() { g.Runs = flagGenRuns },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}

// runRecord builds the provenance record for one generation pass. Dataset
// run indices are 1-based, so the loop counter is shifted on the way in.
func runRecord(run int, topic string, g config.Generation, format prompt.Format, sel opinion.Selection, result extract.Result) store.Run {
	return store.Run{
		RunIndex:        run + 1,
		Topic:           topic,
		Model:           g.Model,
		PromptFormat:    string(format),
		Temperature:     g.Temperature,
		MaxNewTokens:    g.MaxNewTokens,
		TopP:            g.TopP,
		Seed:            g.Seed,
		LeftRatio:       g.LeftRatio,
		LeftType:        g.LeftType,
		RightType:       g.RightType,
		SampleSize:      g.Samples,
		SampledOpinions: opinion.MapNames(sel.Labeled),
		RawOutput:       result.Raw,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	g := cfg.Generation
	applyGenerateFlags(cmd, &g)

	format, err := prompt.ParseFormat(g.PromptFormat)
	if err != nil {
		return err
	}
	leftType, err := opinion.ParsePhrasing(g.LeftType)
	if err != nil {
		return fmt.Errorf("left-type: %w", err)
	}
	rightType, err := opinion.ParsePhrasing(g.RightType)
	if err != nil {
		return fmt.Errorf("right-type: %w", err)
	}

	dataset, err := opinion.Load(flagGenData)
	if err != nil {
		return fmt.Errorf("loading opinions: %w", err)
	}

	client, err := llm.NewOpenAIClient(llm.Settings{
		Model:   g.Model,
		APIKey:  cfg.GenerationKey(),
		BaseURL: g.BaseURL,
	})
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	started := time.Now()
	sampler := opinion.NewSampler(g.Seed)
	runs := g.Runs
	if runs <= 0 {
		runs = 1
	}

	for run := 0; run < runs; run++ {
		fmt.Printf("Run %d/%d: sampling %d opinions...\n", run+1, runs, g.Samples)
		sel, err := sampler.Sample(dataset, opinion.SampleOpts{
			Total:     g.Samples,
			LeftRatio: g.LeftRatio,
			LeftType:  leftType,
			RightType: rightType,
		})
		if err != nil {
			return fmt.Errorf("run %d: sampling: %w", run, err)
		}

		full, err := prompt.Build(format, prompt.Inputs{Topic: flagGenTopic, Statements: sel.Clean})
		if err != nil {
			return fmt.Errorf("run %d: building prompt: %w", run, err)
		}

		fmt.Printf("Run %d/%d: calling %s...\n", run+1, runs, g.Model)
		ctx, cancel := context.WithTimeout(cmd.Context(), generateTimeout)
		text, err := client.Complete(ctx, llm.Request{
			Prompt: full,
			Params: llm.Params{
				Temperature: g.Temperature,
				MaxTokens:   g.MaxNewTokens,
				TopP:        g.TopP,
				Seed:        g.Seed,
			},
		})
		cancel()
		if err != nil {
			return fmt.Errorf("run %d: completion: %w", run, err)
		}

		result := extract.Articles(text)
		record := runRecord(run, flagGenTopic, g, format, sel, result)

		var articles []store.Article
		for i, a := range result.Articles {
			articles = append(articles, store.Article{
				Position: i,
				Headline: a.Headline,
				Body:     a.Article,
			})
		}

		id, err := db.InsertRun(record, articles)
		if err != nil {
			return fmt.Errorf("run %d: saving: %w", run, err)
		}

		if result.Parsed() {
			fmt.Printf("Run %d/%d: saved run #%d with %d article(s).\n", run+1, runs, id, len(articles))
		} else {
			fmt.Printf("Run %d/%d: saved run #%d raw output only (no article array found).\n", run+1, runs, id)
		}
	}

	if flagGenOut != "" {
		exported, err := db.Export(store.QueryOpts{Topic: flagGenTopic, Model: g.Model, Since: started})
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		if err := store.WriteExport(flagGenOut, exported); err != nil {
			return fmt.Errorf("writing %s: %w", flagGenOut, err)
		}
		fmt.Printf("Wrote %d run(s) to %s.\n", len(exported), flagGenOut)
	}

	return nil
}
