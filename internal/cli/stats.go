package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/p-blackswan/claudechain/internal/report"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"statistics"},
	Short:   "Aggregate status report across all projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		statuses, err := eng.Statistics(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Print(report.Markdown(statuses, eng.RunID(), time.Now()))

		if err := eng.WriteSummary(statuses); err != nil {
			logger.Warn().Err(err).Msg("writing step summary failed")
		}
		if cfg.SlackEnabled() {
			poster := report.NewPoster(cfg.SlackToken, cfg.SlackChannel, logger)
			if err := poster.Post(cmd.Context(), statuses); err != nil {
				logger.Warn().Err(err).Msg("posting Slack report failed")
			}
		}
		return nil
	},
}
