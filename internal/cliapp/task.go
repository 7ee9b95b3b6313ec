package cliapp

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type taskResultView struct {
	Success   bool          `json:"success"`
	Results   []interface{} `json:"results"`
	Artifacts []interface{} `json:"artifacts"`
	Errors    []string      `json:"errors,omitempty"`
}

// newTaskCmd creates the task command: POST /a2a/orchestrate with a
// natural-language description, per spec.md §6 ("task <description>").
// --plan switches to the dry-run decomposition endpoint instead of running
// it, useful for previewing how a description will be split into steps.
func newTaskCmd(flags *globalFlags) *cobra.Command {
	var contextID string
	var planOnly bool

	cmd := &cobra.Command{
		Use:   "task <description>",
		Short: "Submit a natural-language task to the orchestrator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			client := newAPIClient(flags.server, flags.token)
			body := map[string]string{"description": description, "contextId": contextID}

			if planOnly {
				var plan map[string]interface{}
				if err := client.post(cmd.Context(), "/a2a/orchestrate/plan", body, &plan); err != nil {
					return err
				}
				fmt.Printf("%d step(s), parallel=%v, sequential=%v\n",
					plan["totalSteps"], plan["parallel"], plan["sequential"])
				return nil
			}

			var result taskResultView
			if err := client.post(cmd.Context(), "/a2a/orchestrate", body, &result); err != nil {
				return err
			}

			if result.Success {
				color.Green("success")
			} else {
				color.Red("failed")
			}
			fmt.Printf("%d step result(s), %d artifact(s)\n", len(result.Results), len(result.Artifacts))
			for _, e := range result.Errors {
				color.Yellow("  error: %s", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contextID, "context", "", "reuse an existing context id instead of minting a new one")
	cmd.Flags().BoolVar(&planOnly, "plan", false, "only show the decomposition, don't execute it")

	return cmd
}
