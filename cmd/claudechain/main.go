// Command claudechain drives an AI coding agent through a markdown
// task checklist: one pull request per task, capacity-gated, with
// status reports to the workflow summary and Slack.
package main

import "github.com/p-blackswan/claudechain/internal/cli"

func main() {
	cli.Execute()
}
