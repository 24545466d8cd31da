package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/pipeliner/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		cfg := application.Config

		cmd.Println(titleStyle.Render("Configuration"))
		cmd.Printf("%s %s\n", labelStyle.Render("Config File:"), cfg.Path())
		for _, key := range config.Keys {
			value := cfg.Get(key)
			// Show if credentials are configured, never the values
			if config.Secret(key) {
				if value != "" {
					value = "✓ Configured"
				} else {
					value = "✗ Not configured"
				}
			}
			if value == "" {
				value = mutedStyle.Render("(unset)")
			}
			cmd.Printf("%s %s\n", labelStyle.Render(key+":"), value)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  pipeliner config set --key gemini_key --value AIza...
  pipeliner config set --key ai_provider --value openai
  pipeliner config set --key storage --value cloud
  pipeliner config set --key cloud_dsn --value postgres://...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")
		if key == "" || value == "" {
			return fmt.Errorf("both --key and --value are required")
		}

		if err := application.Config.Set(key, value); err != nil {
			if errors.Is(err, config.ErrUnknownKey) {
				return fmt.Errorf("invalid key %q, must be one of: %s", key, strings.Join(config.Keys, ", "))
			}
			return fmt.Errorf("update config: %w", err)
		}
		cmd.Printf("✓ Configuration updated: %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	for _, c := range []*cobra.Command{showConfigCmd, setConfigCmd} {
		c.Annotations = map[string]string{configOnly: "true"}
	}

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
