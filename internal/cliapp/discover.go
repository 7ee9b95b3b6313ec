package cliapp

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type discoverResultView struct {
	URL    string `json:"url"`
	Status string `json:"status"`
	Agent  string `json:"agent,omitempty"`
	Error  string `json:"error,omitempty"`
}

type discoverResponse struct {
	Results []discoverResultView `json:"results"`
}

// newDiscoverCmd creates the discover command: POST /a2a/agents/discover
// with one or more agent-card URLs, per spec.md §6 ("discover <url>").
// --tags is a SPEC_FULL.md §12 supplement: once registration completes, it
// re-lists the registry filtered by tag (internal/discovery's existing
// tag-presence filter, spec.md §4.7) so an operator can confirm what a
// newly-discovered agent actually advertises without a second command.
func newDiscoverCmd(flags *globalFlags) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "discover <url> [url...]",
		Short: "Register one or more remote agent cards",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(flags.server, flags.token)

			var resp discoverResponse
			if err := client.post(cmd.Context(), "/a2a/agents/discover", map[string][]string{"urls": args}, &resp); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"URL", "Status", "Agent/Error"})
			for _, r := range resp.Results {
				detail := r.Agent
				if r.Status == "error" {
					detail = r.Error
				}
				t.AppendRow(table.Row{r.URL, r.Status, detail})
			}
			t.Render()

			for _, tag := range tags {
				var byTag agentsResponse
				if err := client.get(cmd.Context(), "/a2a/agents?tag="+tag, &byTag); err != nil {
					return err
				}
				fmt.Printf("tag=%s: %d agent(s)\n", tag, byTag.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "after registering, show how many registered agents advertise each tag")

	return cmd
}
