package cmd

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/khrees2412/pipeliner/internal/timeline"
	"github.com/khrees2412/pipeliner/internal/tracker"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI",
	Long:  "Browse jobs and move them through their interview rounds interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return runTUI(cmd, application.Session)
	},
}

func runTUI(cmd *cobra.Command, session *tracker.Session) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	for {
		jobs := metrics.Sort(session.Jobs(), metrics.SortUpdated)
		if len(jobs) == 0 {
			cmd.Println("No jobs found. Add jobs with 'pipeliner job add'")
			return nil
		}

		cmd.Println(titleStyle.Render("Job Browser"))
		cmd.Println("Press 'q' to quit, or enter a job number to view details")
		cmd.Println()
		for i, job := range jobs {
			cmd.Printf("%d. %s at %s %s\n", i+1, job.Title, job.Company,
				statusStyle(job.Status).Render("["+string(job.Status)+"]"))
		}

		cmd.Print("\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" || (err != nil && input == "") {
			return nil
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(jobs) {
			cmd.Println("Invalid selection")
			continue
		}
		if err := jobDetails(cmd, session, jobs[n-1].ID, reader); err != nil {
			return err
		}
	}
}

func jobDetails(cmd *cobra.Command, session *tracker.Session, id string, reader *bufio.Reader) error {
	ctx := cmd.Context()
	for {
		job, err := session.Job(id)
		if err != nil {
			return err
		}
		cmd.Println("\n" + strings.Repeat("=", 60))
		printJob(cmd, job)

		cmd.Println("\nOptions:")
		cmd.Println("  [s] Change status")
		cmd.Println("  [r] Add interview round")
		cmd.Println("  [c] Mark next round completed")
		cmd.Println("  [b] Back to list")
		cmd.Print("\n> ")

		choice, readErr := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))
		if readErr != nil && choice == "" {
			return nil
		}

		switch choice {
		case "s":
			cmd.Printf("New status (%s): ", statusList())
			line, _ := reader.ReadString('\n')
			status, err := models.ParseJobStatus(strings.TrimSpace(line))
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				continue
			}
			if _, err := session.SetStatus(ctx, id, status); err != nil {
				return err
			}
			cmd.Println("✓ Status updated")
		case "r":
			cmd.Print("Round name (blank for default): ")
			name, _ := reader.ReadString('\n')
			cmd.Print("Date YYYY-MM-DD (blank for TBD): ")
			date, _ := reader.ReadString('\n')
			stage := models.InterviewStage{Name: strings.TrimSpace(name), Date: strings.TrimSpace(date)}
			if _, err := session.AddStage(ctx, id, stage); err != nil {
				cmd.Printf("Error: %v\n", err)
				continue
			}
			cmd.Println("✓ Round added")
		case "c":
			next, ok := timeline.Upcoming(job.Stages)
			if !ok {
				cmd.Println("No open rounds")
				continue
			}
			if _, err := session.SetStageStatus(ctx, id, next.ID, models.StageCompleted); err != nil {
				return err
			}
			cmd.Printf("✓ %s marked completed\n", next.Name)
		case "b":
			return nil
		default:
			cmd.Println("Invalid choice")
		}
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
