package cliapp

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type agentSkillView struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

type agentView struct {
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Card    struct {
		Name   string           `json:"name"`
		Skills []agentSkillView `json:"skills"`
	} `json:"card"`
}

type agentsResponse struct {
	Agents []agentView `json:"agents"`
	Total  int         `json:"total"`
}

// newAgentsCmd creates the agents command: GET /a2a/agents, per spec.md §6.
func newAgentsCmd(flags *globalFlags) *cobra.Command {
	var skillID, tag string
	var healthyOnly bool

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List remote agents registered with this runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(flags.server, flags.token)
			path := fmt.Sprintf("/a2a/agents?skillId=%s&tag=%s", skillID, tag)
			if healthyOnly {
				path += "&healthy=true"
			}

			var resp agentsResponse
			if err := client.get(cmd.Context(), path, &resp); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"URL", "Name", "Healthy", "Skills"})
			for _, a := range resp.Agents {
				ids := make([]string, len(a.Card.Skills))
				for i, s := range a.Card.Skills {
					ids[i] = s.ID
				}
				t.AppendRow(table.Row{a.URL, a.Card.Name, a.Healthy, strings.Join(ids, ",")})
			}
			t.Render()
			fmt.Printf("%d agent(s)\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&skillID, "skill", "", "only agents advertising this skill id")
	cmd.Flags().StringVar(&tag, "tag", "", "only agents advertising a skill with this tag")
	cmd.Flags().BoolVar(&healthyOnly, "healthy", false, "only agents whose last health check succeeded")

	return cmd
}
