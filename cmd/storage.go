package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/config"
	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

var (
	flagExportOut   string
	flagExportTopic string
	flagExportModel string
	flagExportSince string

	flagPruneOlderThan string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored runs to a JSON dataset file",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		opts := store.QueryOpts{Topic: flagExportTopic, Model: flagExportModel}
		if flagExportSince != "" {
			d, err := parseSince(flagExportSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		runs, err := db.Export(opts)
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("Nothing to export.")
			return nil
		}

		if err := store.WriteExport(flagExportOut, runs); err != nil {
			return fmt.Errorf("writing %s: %w", flagExportOut, err)
		}
		fmt.Printf("Wrote %d run(s) to %s.\n", len(runs), flagExportOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import human annotations from an exported dataset file",
	Long: `Read an exported dataset file whose articles have been annotated out-of-band
(bias labels and analyses under the paper's annotation keys) and write the
annotations back to the matching stored articles.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ImportAnnotations(args[0])
		if err != nil {
			return fmt.Errorf("importing: %w", err)
		}
		fmt.Printf("Imported annotations for %d article(s).\n", n)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old runs from the store",
	Long: `Delete stored runs older than the retention period and reclaim disk space.

Uses the retention value from config (default: 180d) unless overridden with
--older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d run(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.DataPath()
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, articles, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Store: %s\n", dbPath)
		fmt.Printf("Runs: %d\n", runs)
		fmt.Printf("Articles: %d\n", articles)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "dataset.json", "output file path")
	exportCmd.Flags().StringVar(&flagExportTopic, "topic", "", "only export runs for this topic")
	exportCmd.Flags().StringVar(&flagExportModel, "model", "", "only export runs for this model")
	exportCmd.Flags().StringVar(&flagExportSince, "since", "", "only export runs from the last duration (e.g., 7d, 24h)")

	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
