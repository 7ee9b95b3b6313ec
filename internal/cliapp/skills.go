package cliapp

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type skillView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

type skillsResponse struct {
	Skills []skillView `json:"skills"`
	Total  int         `json:"total"`
}

// newSkillsCmd creates the skills command: GET /a2a/skills, rendered as a
// table via go-pretty, per spec.md §6 ("skills [-q query]").
func newSkillsCmd(flags *globalFlags) *cobra.Command {
	var query, category string
	var limit int

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List the skills this runtime's catalog advertises",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(flags.server, flags.token)
			path := "/a2a/skills?q=" + query + "&category=" + category
			if limit > 0 {
				path += "&limit=" + strconv.Itoa(limit)
			}

			var resp skillsResponse
			if err := client.get(cmd.Context(), path, &resp); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Name", "Category", "Tags", "Description"})
			for _, s := range resp.Skills {
				t.AppendRow(table.Row{s.ID, s.Name, s.Category, strings.Join(s.Tags, ","), s.Description})
			}
			t.Render()
			fmt.Printf("%d skill(s)\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "text search over id/name/description")
	cmd.Flags().StringVar(&category, "category", "", "restrict to one skill category")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of results (0 = unlimited)")

	return cmd
}
