package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/pipeliner/internal/calendar"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show interview rounds on a month grid",
	Example: `  pipeliner calendar
  pipeliner calendar --month 2024-06
  pipeliner calendar --next 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		now := time.Now()
		year, month := now.Year(), now.Month()
		if m, _ := cmd.Flags().GetString("month"); m != "" {
			t, err := time.Parse("2006-01", m)
			if err != nil {
				return fmt.Errorf("invalid --month %q: use YYYY-MM", m)
			}
			year, month = t.Year(), t.Month()
		}
		if delta, _ := cmd.Flags().GetInt("next"); delta != 0 {
			year, month = calendar.Shift(year, month, delta)
		}

		renderMonth(cmd, application.Session.Calendar(year, month))
		return nil
	},
}

func renderMonth(cmd *cobra.Command, m calendar.Month) {
	cmd.Println(titleStyle.Render(fmt.Sprintf("%s %d", m.Month, m.Year)))
	cmd.Println(mutedStyle.Render(" Sun  Mon  Tue  Wed  Thu  Fri  Sat"))

	var line strings.Builder
	line.WriteString(strings.Repeat("     ", m.LeadingBlanks))
	col := m.LeadingBlanks
	for _, cell := range m.Days {
		label := fmt.Sprintf("%3d", cell.Day)
		mark := " "
		if len(cell.Events) > 0 {
			mark = eventStyle.Render("*")
		}
		switch {
		case cell.IsToday:
			label = todayStyle.Render(label)
		case len(cell.Events) > 0:
			label = eventStyle.Render(label)
		}
		line.WriteString(" " + label + mark)
		col++
		if col == 7 {
			cmd.Println(line.String())
			line.Reset()
			col = 0
		}
	}
	if col > 0 {
		cmd.Println(line.String())
	}

	cmd.Printf("\n%s\n", labelStyle.Render("Interviews"))
	found := false
	for _, cell := range m.Days {
		for _, e := range cell.Events {
			found = true
			cmd.Printf("  %s  %s at %s: %s %s\n",
				eventStyle.Render(fmt.Sprintf("%2d %s", cell.Day, m.Month.String()[:3])),
				e.JobTitle, e.Company, e.StageName, mutedStyle.Render("("+string(e.Status)+")"))
		}
	}
	if !found {
		cmd.Println(mutedStyle.Render("  Nothing scheduled this month"))
	}
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().String("month", "", "Month to show as YYYY-MM (default current month)")
	calendarCmd.Flags().Int("next", 0, "Shift by this many months (negative for earlier)")
}
