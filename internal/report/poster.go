package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// Poster sends status reports to a Slack channel.
type Poster struct {
	client  *slack.Client
	channel string
	logger  zerolog.Logger
}

// NewPoster creates a poster for the given bot token and channel.
func NewPoster(token, channel string, logger zerolog.Logger) *Poster {
	return &Poster{
		client:  slack.New(token),
		channel: channel,
		logger:  logger.With().Str("component", "report.poster").Logger(),
	}
}

// Post sends the status blocks to the configured channel.
func (p *Poster) Post(ctx context.Context, statuses []ProjectStatus) error {
	blocks := StatusBlocks(statuses)
	_, ts, err := p.client.PostMessageContext(ctx, p.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText("Task automation status", false),
	)
	if err != nil {
		return fmt.Errorf("posting status to %s: %w", p.channel, err)
	}
	p.logger.Info().Str("channel", p.channel).Str("ts", ts).Msg("status report posted")
	return nil
}
