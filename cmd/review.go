package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yoojuneho/Fair-or-Framed/internal/tui"
)

var (
	flagReviewTopic string
	flagReviewModel string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse and annotate stored runs interactively",
	Long: `Open the two-pane annotation browser: runs on the left, articles and their
bias labels on the right. Label keys write the human raters' bias labels used
by the agreement analysis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		return tui.Run(tui.RunOpts{
			DB:    db,
			Topic: flagReviewTopic,
			Model: flagReviewModel,
		})
	},
}

func init() {
	reviewCmd.Flags().StringVar(&flagReviewTopic, "topic", "", "pre-filter runs by topic")
	reviewCmd.Flags().StringVar(&flagReviewModel, "model", "", "pre-filter runs by model")
}
