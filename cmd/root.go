package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/khrees2412/pipeliner/internal/app"
	"github.com/khrees2412/pipeliner/internal/tracker"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

// configOnly marks commands that need configuration but no open store
const configOnly = "config-only"

var rootCmd = &cobra.Command{
	Use:   "pipeliner",
	Short: "Job application pipeline tracker",
	Long: `Pipeliner tracks your job applications and their interview rounds.
It turns pasted postings into tracked jobs, reads your inbox for status updates,
and reports your funnel, pipeline and interview calendar.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		newApp := app.NewApp
		if cmd.Annotations[configOnly] == "true" {
			newApp = func(context.Context) (*app.App, error) { return app.NewConfigOnly() }
		}
		application, err := newApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.NewContext(cmd.Context(), application))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a := app.FromContext(cmd.Context()); a != nil {
			return a.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// appFrom returns the App set up by the root command
func appFrom(cmd *cobra.Command) (*app.App, error) {
	a := app.FromContext(cmd.Context())
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	if a.Session == nil && cmd.Annotations[configOnly] != "true" {
		return nil, fmt.Errorf("storage not opened")
	}
	return a, nil
}

// findJob resolves a job by ID or by an unambiguous ID prefix
func findJob(session *tracker.Session, ref string) (models.JobApplication, error) {
	if job, err := session.Job(ref); err == nil {
		return job, nil
	}
	var matches []models.JobApplication
	for _, job := range session.Jobs() {
		if ref != "" && strings.HasPrefix(job.ID, ref) {
			matches = append(matches, job)
		}
	}
	switch len(matches) {
	case 0:
		return models.JobApplication{}, fmt.Errorf("%w: %s", tracker.ErrJobNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.JobApplication{}, fmt.Errorf("%w: job id %q is ambiguous (%d matches)", models.ErrInvalid, ref, len(matches))
}
