package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var discoverJSON bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List all projects under the tool root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		projects, err := eng.Projects()
		if err != nil {
			return err
		}
		if discoverJSON {
			return json.NewEncoder(os.Stdout).Encode(projects)
		}
		for _, p := range projects {
			fmt.Println(p)
		}
		return nil
	},
}

// readyProject is the JSON shape discover-ready emits per project, fed
// into the workflow matrix.
type readyProject struct {
	Project  string `json:"project"`
	Task     string `json:"task"`
	Index    int    `json:"index"`
	Identity string `json:"identity"`
	Assignee string `json:"assignee,omitempty"`
}

var discoverReadyCmd = &cobra.Command{
	Use:   "discover-ready",
	Short: "List projects with capacity and an available task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		ready, err := eng.DiscoverReady(cmd.Context())
		if err != nil {
			return err
		}

		out := make([]readyProject, 0, len(ready))
		for _, ev := range ready {
			rp := readyProject{
				Project:  ev.Project,
				Task:     ev.Next.Description,
				Index:    ev.Next.Index,
				Identity: ev.Next.Identity(eng.Scheme()).String(),
			}
			if ev.Capacity.SelectedReviewer != "" {
				rp.Assignee = ev.Capacity.SelectedReviewer
			} else {
				rp.Assignee = ev.Capacity.Assignee
			}
			out = append(out, rp)
		}

		if discoverJSON {
			return json.NewEncoder(os.Stdout).Encode(out)
		}
		if len(out) == 0 {
			fmt.Println("::notice::no projects ready this cycle")
			return nil
		}
		for _, rp := range out {
			fmt.Printf("%s\t%s\t%s\n", rp.Project, rp.Identity, rp.Task)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "emit JSON")
	discoverReadyCmd.Flags().BoolVar(&discoverJSON, "json", false, "emit JSON")
}
