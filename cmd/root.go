package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/y3rawat/mindstore/internal/config"
	"github.com/y3rawat/mindstore/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "mindstore",
	Short: "Personal media library TUI",
	Long:  "A TUI client for a personal media archive: save social media URLs, watch them sync to Drive, and browse the library.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.UserID == "" {
			return fmt.Errorf("no user configured, set MINDSTORE_USER_ID or user_id in the config file")
		}
		return tui.Run(cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.mindstore)")
}
