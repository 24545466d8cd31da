package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/pipeliner/internal/timeline"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

const dateLayout = "Jan 2, 2006"

func printJobLine(cmd *cobra.Command, i int, job models.JobApplication) {
	cmd.Printf("\n%s %s at %s %s\n",
		labelStyle.Render(fmt.Sprintf("%d.", i+1)),
		job.Title, job.Company,
		statusStyle(job.Status).Render("["+string(job.Status)+"]"))
	cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), job.ID)
	if next, ok := timeline.Upcoming(job.Stages); ok {
		cmd.Printf("   %s %s %s\n", labelStyle.Render("Next:"), next.Name, mutedStyle.Render(dateOrTBD(next.Date)))
	}
	cmd.Printf("   %s %s\n", labelStyle.Render("Updated:"), job.LastUpdated.Format(dateLayout))
}

func printJob(cmd *cobra.Command, job models.JobApplication) {
	cmd.Println(titleStyle.Render(job.Title))
	field := func(label, value string) {
		if value != "" {
			cmd.Printf("%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
		}
	}
	field("ID:", job.ID)
	field("Company:", job.Company)
	cmd.Printf("%s %s\n", labelStyle.Render("Status:"), statusStyle(job.Status).Render(string(job.Status)))
	field("Location:", job.Location)
	field("Compensation:", job.Compensation)
	field("Source:", string(job.Source))
	field("Interest:", stars(job.InterestLevel))
	field("Resume:", job.ResumeVersion)
	field("URL:", job.URL)
	if !job.AppliedDate.IsZero() {
		field("Applied:", job.AppliedDate.Format(dateLayout))
	}
	field("Updated:", job.LastUpdated.Format(dateLayout+" 15:04"))

	if job.Description != "" {
		cmd.Println(labelStyle.Render("\nSummary:"))
		cmd.Println(job.Description)
	}

	p := timeline.ProgressOf(job.Stages)
	cmd.Printf("\n%s %d/%d rounds done (%d%%)\n", labelStyle.Render("Interview Rounds:"), p.Completed, p.Total, p.Percent)
	for _, s := range timeline.Sort(job.Stages) {
		cmd.Printf("  • %-28s %-18s %-10s %s\n", s.Name, mutedStyle.Render(string(s.Type)), s.Status, dateOrTBD(s.Date))
		cmd.Printf("    %s\n", mutedStyle.Render("id: "+s.ID))
		if s.Notes != "" {
			cmd.Printf("    %s %s\n", labelStyle.Render("Notes:"), s.Notes)
		}
	}
}

func dateOrTBD(date string) string {
	if d, ok := models.ParseDay(date); ok {
		return d.Format("Mon Jan 2")
	}
	return "TBD"
}

func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
