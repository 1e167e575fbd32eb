package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/config"
	"github.com/yoojuneho/Fair-or-Framed/internal/topics"
)

var flagTopicsLimit int

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Suggest generation topics from current news feeds",
	Long: `Scan the configured news feeds and rank recurring headline terms. Terms that
show up across several outlets make good topics for a generation study.`,
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().IntVar(&flagTopicsLimit, "limit", 5, "number of suggestions to show")
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sources := cfg.EnabledSources()
	if len(sources) == 0 {
		return fmt.Errorf("no enabled feed sources in config")
	}

	fmt.Printf("Fetching %d feed(s)...\n", len(sources))
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	result := topics.FetchAll(ctx, topics.NewRSSFetcher(), sources)
	for _, e := range result.Errors {
		fmt.Printf("  [warn] %v\n", e)
	}
	if len(result.Headlines) == 0 {
		return fmt.Errorf("no headlines fetched")
	}

	suggestions := topics.Trending(result.Headlines, flagTopicsLimit)
	if len(suggestions) == 0 {
		fmt.Println("No recurring terms found across the fetched headlines.")
		return nil
	}

	fmt.Printf("\nTrending terms across %d headline(s):\n\n", len(result.Headlines))
	for i, s := range suggestions {
		fmt.Printf("%d. %s\n", i+1, s.Term)
		for _, h := range s.Headlines {
			fmt.Printf("     %s: %s\n", h.Source, h.Title)
		}
	}

	return nil
}
