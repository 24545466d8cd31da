package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import jobs from a JSON export",
	Long:  "Read a JSON array of jobs. Jobs whose ID is already tracked are replaced, the rest are added",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		var jobs []models.JobApplication
		if err := json.Unmarshal(b, &jobs); err != nil {
			return fmt.Errorf("%w: parse import file: %v", models.ErrInvalid, err)
		}

		created, updated, err := application.Session.Import(cmd.Context(), jobs)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		cmd.Printf("✓ Imported %d jobs (%d new, %d updated)\n", created+updated, created, updated)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all jobs as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		jobs := application.Session.Jobs()
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jobs); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		if len(args) == 1 {
			cmd.Printf("✓ Exported %d jobs to %s\n", len(jobs), args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
