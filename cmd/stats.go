package cmd

import (
	"strings"

	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/spf13/cobra"
)

const barWidth = 30

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View the dashboard: funnel, success rate and active pipeline",
	Long:  "Display headline numbers, the status breakdown, the application funnel and every active job's progress",
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

		d := application.Session.Dashboard(key)
		if d.Summary.TotalApplications == 0 {
			cmd.Println("No jobs yet. Add one with 'pipeliner job add'")
			return nil
		}

		cmd.Println(titleStyle.Render("Application Statistics"))

		cmd.Printf("%s\n", labelStyle.Render("Overview"))
		cmd.Printf("  Total Applications: %d\n", d.Summary.TotalApplications)
		cmd.Printf("  Active Processes:   %d\n", d.Summary.ActiveProcess)
		cmd.Printf("  Interviewing:       %d\n", d.Summary.InterviewingCount)
		cmd.Printf("  Offer Rate:         %d%%\n", d.Summary.OfferRate)

		cmd.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
		for _, sc := range d.Breakdown {
			cmd.Printf("  %-14s %3d %s\n", sc.Status, sc.Count,
				statusStyle(sc.Status).Render(bar(sc.Count, d.Summary.TotalApplications)))
		}

		cmd.Printf("\n%s\n", labelStyle.Render("Funnel"))
		top := 0
		if len(d.Funnel) > 0 {
			top = d.Funnel[0].Count
		}
		for _, step := range d.Funnel {
			cmd.Printf("  %-14s %3d %s\n", step.Name, step.Count, bar(step.Count, top))
		}
		cmd.Printf("  %s %d%%\n", labelStyle.Render("Success Rate:"), d.SuccessRate)

		if len(d.Pipeline) > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Active Pipeline"))
			for _, row := range d.Pipeline {
				cmd.Printf("  • %s at %s\n", row.Job.Title, row.Job.Company)
				cmd.Printf("    %s %s | %d/%d rounds (%d%%) | %d days active\n",
					labelStyle.Render("Current:"), row.CurrentStage,
					row.Completed, row.Total, row.Velocity, row.DaysActive)
			}
		}
		return nil
	},
}

func bar(n, of int) string {
	if of <= 0 || n <= 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*barWidth/of))
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("sort", "updated", "Pipeline order: "+sortKeyList())
}
