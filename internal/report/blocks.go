package report

import (
	"fmt"

	"github.com/slack-go/slack"
)

// StatusBlocks builds the Slack Block Kit payload for a status report.
func StatusBlocks(statuses []ProjectStatus) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject("plain_text", "📋 Task automation status", false, false),
		),
		slack.NewDividerBlock(),
	}

	for _, s := range statuses {
		if s.Err != "" {
			blocks = append(blocks, slack.NewSectionBlock(
				slack.NewTextBlockObject("mrkdwn",
					fmt.Sprintf("*%s*\n⚠️ %s", s.Project, s.Err),
					false, false),
				nil, nil,
			))
			continue
		}
		text := fmt.Sprintf("*%s*\n• Tasks: %d/%d done, %d pending\n• Open PRs: %d (%d merged)\n• Capacity: %s",
			s.Project, s.CompletedTasks, s.TotalTasks, s.PendingTasks, s.OpenPRs, s.MergedPRs, s.Capacity)
		if s.NextTask != "" {
			text += fmt.Sprintf("\n• Next: `%s`", s.NextTask)
		}
		if len(s.Orphaned) > 0 {
			text += fmt.Sprintf("\n• Orphaned PRs: %s", prList(s.Orphaned))
		}
		if len(s.Stale) > 0 {
			text += fmt.Sprintf("\n• Stale PRs: %s", prList(s.Stale))
		}
		if s.Cost.TotalUSD > 0 {
			text += fmt.Sprintf("\n• Spend: $%.2f", s.Cost.TotalUSD)
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", text, false, false),
			nil, nil,
		))
	}
	return blocks
}
