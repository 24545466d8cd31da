package cmd

import (
	"strings"

	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tracked jobs by company or title",
	Args:  cobra.MinimumNArgs(1),
	Example: `  pipeliner search acme
  pipeliner search "product manager" --sort interest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		sortFlag, _ := cmd.Flags().GetString("sort")
		key, err := metrics.ParseSortKey(sortFlag)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		jobs := application.Session.Search(query, key)
		if len(jobs) == 0 {
			cmd.Printf("No jobs matching '%s'\n", query)
			return nil
		}

		cmd.Println(titleStyle.Render("Search Results"))
		for i, job := range jobs {
			printJobLine(cmd, i, job)
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Matches:"), len(jobs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("sort", "updated", "Sort order: "+sortKeyList())
}
