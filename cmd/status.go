package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View jobs grouped by status",
	Long:  "View and manage your job application statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var filter models.JobStatus
		if f, _ := cmd.Flags().GetString("filter"); f != "" {
			if filter, err = models.ParseJobStatus(f); err != nil {
				return err
			}
		}

		jobs := metrics.Sort(application.Session.Jobs(), metrics.SortUpdated)
		if len(jobs) == 0 {
			cmd.Println("No jobs yet. Add one with 'pipeliner job add'")
			return nil
		}

		// Group by status
		groups := make(map[models.JobStatus][]models.JobApplication)
		total := 0
		for _, job := range jobs {
			if filter != "" && job.Status != filter {
				continue
			}
			groups[job.Status] = append(groups[job.Status], job)
			total++
		}
		if total == 0 {
			cmd.Printf("No jobs with status '%s'\n", filter)
			return nil
		}

		cmd.Println(titleStyle.Render("Your Applications"))
		for _, status := range models.JobStatuses {
			group := groups[status]
			if len(group) == 0 {
				continue
			}
			cmd.Printf("\n%s (%d)\n", statusStyle(status).Render(string(status)), len(group))
			for _, job := range group {
				cmd.Printf("  • %s at %s\n", job.Title, job.Company)
				cmd.Printf("    %s %s | Updated: %s\n",
					labelStyle.Render("ID:"),
					job.ID,
					job.LastUpdated.Format(dateLayout))
			}
		}

		cmd.Printf("\n%s %d\n", labelStyle.Render("Total:"), total)
		return nil
	},
}

var setStatusCmd = &cobra.Command{
	Use:   "set <job-id> <status>",
	Short: "Update a job's status",
	Args:  cobra.ExactArgs(2),
	Example: `  pipeliner status set 3f2a Interviewing
  pipeliner status set 3f2a rejected`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(application.Session, args[0])
		if err != nil {
			return err
		}
		status, err := models.ParseJobStatus(args[1])
		if err != nil {
			return fmt.Errorf("%w (must be one of: %s)", err, statusList())
		}

		job, err = application.Session.SetStatus(cmd.Context(), job.ID, status)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		cmd.Printf("✓ %s at %s is now %s\n", job.Title, job.Company, statusStyle(status).Render(string(status)))
		return nil
	},
}

func statusList() string {
	names := make([]string, len(models.JobStatuses))
	for i, s := range models.JobStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.AddCommand(setStatusCmd)

	statusCmd.Flags().String("filter", "", "Only show jobs with this status")
}
