package cliapp

import (
	"github.com/spf13/cobra"
)

// globalFlags holds the persistent flags every client verb (everything but
// start) uses to reach a running instance of this runtime.
type globalFlags struct {
	server string
	token  string
}

// NewRootCmd builds the command tree spec.md §6 names: start, status,
// skills, agents, discover, task — shaped after the teacher's
// cli/internal/cli/adk/root.go (one root command, AddCommand per verb, a
// RunE closure over a small per-command config struct).
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "a2a",
		Short: "Operate the XActions A2A runtime",
		Long: `a2a drives the XActions Agent-to-Agent runtime: start the server,
check its health, browse its skill catalog, manage remote agent
discovery, and submit orchestrated tasks.`,
	}

	cmd.PersistentFlags().StringVar(&flags.server, "server", "http://localhost:8080", "base URL of a running a2a-server")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "", "bearer token for authenticated requests")

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStatusCmd(flags))
	cmd.AddCommand(newSkillsCmd(flags))
	cmd.AddCommand(newAgentsCmd(flags))
	cmd.AddCommand(newDiscoverCmd(flags))
	cmd.AddCommand(newTaskCmd(flags))

	return cmd
}
