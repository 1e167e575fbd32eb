package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/config"
	"github.com/yoojuneho/Fair-or-Framed/internal/store"
	"github.com/yoojuneho/Fair-or-Framed/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "fairframe",
	Short: "Slanted-news generation and bias-rating toolkit",
	Long: `fairframe generates deliberately slanted news articles with a language model,
records each run as a dataset, and measures how humans and a grader model
agree on the articles' political bias.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(kappaCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fairframe %s (commit: %s, built: %s)\n", version, commit, date)
		if flagVersionCheck {
			if res := update.Check(cmd.Context(), version); res != nil {
				fmt.Printf("Update available: v%s (%s)\n", res.LatestVersion, res.URL)
			} else {
				fmt.Println("Up to date.")
			}
		}
	},
}

func openStore() (*store.Store, error) {
	db, err := store.Open(config.DataPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return db, nil
}

func Execute() {
	// API keys commonly live in a local .env; missing file is fine.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
