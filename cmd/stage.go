package cmd

import (
	"fmt"

	"github.com/khrees2412/pipeliner/internal/tracker"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Manage interview rounds",
	Long:  "Add, edit, and remove the interview rounds of a job",
}

var addStageCmd = &cobra.Command{
	Use:   "add <job-id>",
	Short: "Add an interview round",
	Args:  cobra.ExactArgs(1),
	Example: `  pipeliner stage add 3f2a --name "Hiring manager chat" --type "Hiring Manager" --date 2024-06-12
  pipeliner stage add 3f2a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(application.Session, args[0])
		if err != nil {
			return err
		}

		stage := models.InterviewStage{}
		stage.Name, _ = cmd.Flags().GetString("name")
		stage.Date, _ = cmd.Flags().GetString("date")
		stage.Notes, _ = cmd.Flags().GetString("notes")
		if t, _ := cmd.Flags().GetString("type"); t != "" {
			if stage.Type, err = models.ParseStageType(t); err != nil {
				return err
			}
		}
		if s, _ := cmd.Flags().GetString("status"); s != "" {
			if stage.Status, err = models.ParseStageStatus(s); err != nil {
				return err
			}
		}

		job, err = application.Session.AddStage(cmd.Context(), job.ID, stage)
		if err != nil {
			return fmt.Errorf("add stage: %w", err)
		}
		cmd.Printf("✓ Round added to %s (%d rounds)\n", job.Company, len(job.Stages))
		return nil
	},
}

var setStageCmd = &cobra.Command{
	Use:   "set <job-id> <stage-id>",
	Short: "Edit an interview round",
	Args:  cobra.ExactArgs(2),
	Example: `  pipeliner stage set 3f2a stage-2 --status Completed --notes "Went well"
  pipeliner stage set 3f2a stage-3 --date 2024-06-20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(application.Session, args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("status") && !flags.Changed("date") && !flags.Changed("notes") {
			return fmt.Errorf("nothing to change: use --name, --status, --date or --notes")
		}

		var changes tracker.StageChanges
		str := func(name string) *string {
			if !flags.Changed(name) {
				return nil
			}
			v, _ := flags.GetString(name)
			return &v
		}
		changes.Name, changes.Date, changes.Notes = str("name"), str("date"), str("notes")
		if s := str("status"); s != nil {
			status, err := models.ParseStageStatus(*s)
			if err != nil {
				return err
			}
			changes.Status = &status
		}

		job, err = application.Session.UpdateStage(cmd.Context(), job.ID, args[1], changes)
		if err != nil {
			return fmt.Errorf("update stage: %w", err)
		}

		printJob(cmd, job)
		return nil
	},
}

var removeStageCmd = &cobra.Command{
	Use:   "remove <job-id> <stage-id>",
	Short: "Remove an interview round",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(application.Session, args[0])
		if err != nil {
			return err
		}
		before := len(job.Stages)
		job, err = application.Session.RemoveStage(cmd.Context(), job.ID, args[1])
		if err != nil {
			return fmt.Errorf("remove stage: %w", err)
		}
		if len(job.Stages) == before {
			cmd.Printf("No round %s on %s\n", args[1], job.Company)
			return nil
		}
		cmd.Printf("✓ Round removed from %s (%d left)\n", job.Company, len(job.Stages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
	stageCmd.AddCommand(addStageCmd)
	stageCmd.AddCommand(setStageCmd)
	stageCmd.AddCommand(removeStageCmd)

	for _, c := range []*cobra.Command{addStageCmd, setStageCmd} {
		c.Flags().String("name", "", "Round name")
		c.Flags().String("status", "", "Pending, Scheduled, Completed, Passed or Failed")
		c.Flags().String("date", "", "Date as YYYY-MM-DD (empty for TBD)")
		c.Flags().String("notes", "", "Notes")
	}
	addStageCmd.Flags().String("type", "", "Recruiter Screen, Hiring Manager, Technical/Case, Leadership, Onsite or Other")
}
