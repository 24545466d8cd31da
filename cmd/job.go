package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/khrees2412/pipeliner/internal/applicator"
	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage tracked jobs",
	Long:  "Add, list, view, update, and remove job applications",
}

var addJobCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job",
	Example: `  pipeliner job add --title "Senior PM" --company "Acme Inc"
  pipeliner job add --from-url https://boards.greenhouse.io/acme/jobs/123
  pipeliner job add --text-file posting.txt
  pbpaste | pipeliner job add --text-file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		url, _ := cmd.Flags().GetString("url")
		fromURL, _ := cmd.Flags().GetString("from-url")
		textFile, _ := cmd.Flags().GetString("text-file")
		title, _ := cmd.Flags().GetString("title")
		company, _ := cmd.Flags().GetString("company")
		location, _ := cmd.Flags().GetString("location")
		interest, _ := cmd.Flags().GetInt("interest")

		switch {
		case fromURL != "":
			cmd.Printf("Fetching job posting from %s...\n", fromURL)
			page, err := application.Scraper.Fetch(ctx, fromURL)
			if err != nil {
				return fmt.Errorf("fetch posting: %w", err)
			}
			cmd.Println("Extracting details...")
			job, err := application.Session.AddFromText(ctx, page.Text, fromURL)
			if err != nil {
				return fmt.Errorf("extract job: %w", err)
			}
			// extraction could not name the employer; the URL usually can
			if job.Company == applicator.UnknownCompany && page.Company != "" {
				job.Company = page.Company
				if job, err = application.Session.UpdateJob(ctx, job); err != nil {
					return fmt.Errorf("save job: %w", err)
				}
			}
			cmd.Printf("✓ Job added: %s at %s (ID: %s)\n", job.Title, job.Company, job.ID)
			return nil

		case textFile != "":
			text, err := readText(cmd, textFile)
			if err != nil {
				return err
			}
			cmd.Println("Extracting details...")
			job, err := application.Session.AddFromText(ctx, text, url)
			if err != nil {
				return fmt.Errorf("extract job: %w", err)
			}
			cmd.Printf("✓ Job added: %s at %s (ID: %s)\n", job.Title, job.Company, job.ID)
			return nil
		}

		// Manual entry
		if title == "" || company == "" {
			return fmt.Errorf("either --from-url, --text-file or both --title and --company are required")
		}
		job := applicator.Manual(title, company, url, time.Now())
		job.Location = location
		job.InterestLevel = interest

		job, err = application.Session.AddJob(ctx, job)
		if err != nil {
			return fmt.Errorf("save job: %w", err)
		}
		cmd.Printf("✓ Job added: %s at %s (ID: %s)\n", job.Title, job.Company, job.ID)
		return nil
	},
}

func readText(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open posting: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read posting: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("posting text is empty")
	}
	return text, nil
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked jobs",
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

		jobs := metrics.Sort(application.Session.Jobs(), key)
		if len(jobs) == 0 {
			cmd.Println("No jobs found. Add jobs with 'pipeliner job add'")
			return nil
		}

		cmd.Println(titleStyle.Render("Tracked Jobs"))
		for i, job := range jobs {
			printJobLine(cmd, i, job)
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a job and its interview rounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		job, err := findJob(application.Session, args[0])
		if err != nil {
			return err
		}
		printJob(cmd, job)
		return nil
	},
}

var updateJobCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Update job fields",
	Args:  cobra.ExactArgs(1),
	Example: `  pipeliner job update 3f2a... --interest 5 --compensation "$180k-$210k"
  pipeliner job update 3f2a... --resume-version "Fintech v2"`,
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
		str := func(name string, dst *string) {
			if flags.Changed(name) {
				*dst, _ = flags.GetString(name)
			}
		}
		str("title", &job.Title)
		str("company", &job.Company)
		str("location", &job.Location)
		str("compensation", &job.Compensation)
		str("description", &job.Description)
		str("resume-version", &job.ResumeVersion)
		str("url", &job.URL)
		if flags.Changed("interest") {
			job.InterestLevel, _ = flags.GetInt("interest")
		}
		if flags.Changed("source") {
			s, _ := flags.GetString("source")
			if job.Source, err = models.ParseSource(s); err != nil {
				return err
			}
		}

		job, err = application.Session.UpdateJob(cmd.Context(), job)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		cmd.Printf("✓ Updated: %s at %s\n", job.Title, job.Company)
		return nil
	},
}

var removeJobCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		// Check if job exists
		job, err := findJob(application.Session, args[0])
		if err != nil {
			return err
		}

		if err := application.Session.DeleteJob(cmd.Context(), job.ID); err != nil {
			return fmt.Errorf("remove job: %w", err)
		}

		cmd.Printf("✓ Removed job: %s at %s\n", job.Title, job.Company)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(addJobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(updateJobCmd)
	jobCmd.AddCommand(removeJobCmd)

	// Flags for add command
	addJobCmd.Flags().String("from-url", "", "Fetch the posting at this URL and extract it")
	addJobCmd.Flags().String("text-file", "", "Extract from posting text in a file ('-' for stdin)")
	addJobCmd.Flags().String("url", "", "Job posting URL")
	addJobCmd.Flags().String("title", "", "Job title")
	addJobCmd.Flags().String("company", "", "Company name")
	addJobCmd.Flags().String("location", "", "Job location")
	addJobCmd.Flags().Int("interest", applicator.DefaultInterest, "Interest level (1-5)")

	listJobsCmd.Flags().String("sort", "updated", "Sort order: "+sortKeyList())

	updateJobCmd.Flags().String("title", "", "Job title")
	updateJobCmd.Flags().String("company", "", "Company name")
	updateJobCmd.Flags().String("location", "", "Job location")
	updateJobCmd.Flags().String("compensation", "", "Compensation range")
	updateJobCmd.Flags().String("description", "", "Short summary")
	updateJobCmd.Flags().String("resume-version", "", "Resume version sent")
	updateJobCmd.Flags().String("url", "", "Job posting URL")
	updateJobCmd.Flags().String("source", "", "Applied, Recruiter Reachout, Referral or Other")
	updateJobCmd.Flags().Int("interest", 0, "Interest level (1-5)")
}

func sortKeyList() string {
	keys := make([]string, len(metrics.SortKeys))
	for i, k := range metrics.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
