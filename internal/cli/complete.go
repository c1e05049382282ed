package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:     "complete <project> <description>",
	Aliases: []string{"mark-complete", "finalize"},
	Short:   "Mark a merged task's checklist line as done",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		changed, err := eng.Complete(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if !changed {
			fmt.Printf("::notice::task already complete in %s, nothing to do\n", args[0])
			return nil
		}
		fmt.Printf("marked complete in %s: %s\n", args[0], args[1])
		return nil
	},
}
