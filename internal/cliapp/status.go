package cliapp

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// healthView mirrors internal/httpapi's healthResponse JSON shape
// (status, agent, version, uptime, tasks:{total,counts}, skills) — the CLI
// has no import on internal/httpapi to avoid pulling the whole router into
// the client binary, so it decodes its own copy of the wire shape.
type healthView struct {
	Status  string `json:"status"`
	Agent   string `json:"agent"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Tasks   struct {
		Total  int            `json:"total"`
		Counts map[string]int `json:"counts"`
	} `json:"tasks"`
	Skills int `json:"skills"`
}

// newStatusCmd creates the status command: GET /a2a/health, rendered with
// fatih/color the way SPEC_FULL.md §10.4 binds color to CLI status output.
func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the health of a running A2A runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(flags.server, flags.token)
			var health healthView
			if err := client.get(cmd.Context(), "/a2a/health", &health); err != nil {
				color.Red("unreachable: %v", err)
				return err
			}

			statusColor := color.New(color.FgGreen, color.Bold)
			if health.Status != "ok" {
				statusColor = color.New(color.FgRed, color.Bold)
			}
			statusColor.Printf("%s", health.Status)
			fmt.Printf("  agent=%s version=%s uptime=%s skills=%d tasks=%d\n",
				health.Agent, health.Version, health.Uptime, health.Skills, health.Tasks.Total)
			for state, n := range health.Tasks.Counts {
				fmt.Printf("  %-12s %d\n", state, n)
			}
			return nil
		},
	}
}
