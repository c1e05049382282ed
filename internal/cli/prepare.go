package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var promptFile string

var prepareCmd = &cobra.Command{
	Use:   "prepare <project>",
	Short: "Resolve the next task, create its branch, and emit the agent prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		prepared, err := eng.Prepare(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("branch=%s\n", prepared.Branch)
		fmt.Printf("base=%s\n", prepared.Base)
		fmt.Printf("task_index=%d\n", prepared.Task.Index)
		fmt.Printf("task_hash=%s\n", prepared.Task.Hash)
		if prepared.Assignee != "" {
			fmt.Printf("assignee=%s\n", prepared.Assignee)
		}

		if promptFile != "" {
			if err := os.WriteFile(promptFile, []byte(prepared.Prompt), 0o644); err != nil {
				return fmt.Errorf("writing prompt file: %w", err)
			}
		} else {
			fmt.Print(prepared.Prompt)
		}
		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVar(&promptFile, "prompt-file", "", "write the agent prompt to this file instead of stdout")
}
