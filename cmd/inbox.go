package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Find status updates in your Gmail inbox",
}

var inboxAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize read-only Gmail access",
	Long:  "Open the consent URL, approve access, then paste the authorization code back here",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		auth, err := application.GmailAuth()
		if err != nil {
			return err
		}

		cmd.Println("Go to the following link in your browser and authorize access:")
		cmd.Printf("\n%s\n\n", auth.AuthCodeURL())
		cmd.Print("Authorization code: ")

		code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && strings.TrimSpace(code) == "" {
			return fmt.Errorf("read authorization code: %w", err)
		}
		if err := auth.Exchange(cmd.Context(), strings.TrimSpace(code)); err != nil {
			return err
		}
		cmd.Println("✓ Gmail access authorized")
		return nil
	},
}

var inboxScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan recent mail for application updates",
	Example: `  pipeliner inbox scan
  pipeliner inbox scan --apply`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		cmd.Println("Scanning inbox...")
		suggestions, err := application.Session.ScanInbox(ctx)
		if err != nil {
			return fmt.Errorf("scan inbox: %w", err)
		}
		if len(suggestions) == 0 {
			cmd.Println("No new updates found")
			return nil
		}

		apply, _ := cmd.Flags().GetBool("apply")
		cmd.Println(titleStyle.Render(fmt.Sprintf("Found %d updates", len(suggestions))))
		for i, s := range suggestions {
			cmd.Printf("\n%s %s → %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), s.Company,
				statusStyle(s.NewStatus).Render(string(s.NewStatus)))
			cmd.Printf("   %s\n", s.Reason)
			if s.EmailDate != "" {
				cmd.Printf("   %s\n", mutedStyle.Render(s.EmailDate))
			}
			if !apply {
				continue
			}
			job, created, err := application.Session.ApplySuggestion(ctx, s)
			if err != nil {
				return fmt.Errorf("apply update for %s: %w", s.Company, err)
			}
			if created {
				cmd.Printf("   ✓ Added %s (ID: %s)\n", job.Company, job.ID)
			} else {
				cmd.Printf("   ✓ Updated %s\n", job.Company)
			}
		}
		if !apply {
			cmd.Println("\nRun again with --apply to record these updates")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inboxCmd)
	inboxCmd.AddCommand(inboxAuthCmd)
	inboxCmd.AddCommand(inboxScanCmd)
	inboxAuthCmd.Annotations = map[string]string{configOnly: "true"}

	inboxScanCmd.Flags().Bool("apply", false, "Record every suggested update")
}
