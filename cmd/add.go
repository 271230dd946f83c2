package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/y3rawat/mindstore/internal/api"
	"github.com/y3rawat/mindstore/internal/config"
)

var addCmd = &cobra.Command{
	Use:   "add <url>...",
	Short: "Save URLs to the library",
	Long:  "Submit one or more URLs to the archive backend. Already-saved URLs are reported, not treated as errors.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.UserID == "" {
			return fmt.Errorf("no user configured, set MINDSTORE_USER_ID or user_id in the config file")
		}

		client := api.NewClient(cfg.API.BaseURL)
		failures := 0
		for _, rawURL := range args {
			result, err := client.SaveURL(cmd.Context(), rawURL, cfg.UserID)
			if err != nil {
				failures++
				fmt.Printf("x %s: %v\n", rawURL, err)
				continue
			}
			if result.AlreadySaved {
				fmt.Printf("= %s (already in your library)\n", rawURL)
			} else {
				fmt.Printf("+ %s (%s)\n", rawURL, result.Platform)
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d of %d URLs failed", failures, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
