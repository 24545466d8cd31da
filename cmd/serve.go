package cmd

import (
	"github.com/khrees2412/pipeliner/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker over HTTP",
	Long:  "Start the JSON API used by the web dashboard. Stops cleanly on Ctrl+C",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = application.Config.ServerAddr
		}
		router := api.NewRouter(application.Session, application.Log)
		return api.Serve(cmd.Context(), addr, router, application.Log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default from server_addr)")
}
