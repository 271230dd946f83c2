package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/y3rawat/mindstore/internal/api"
	"github.com/y3rawat/mindstore/internal/config"
	"github.com/y3rawat/mindstore/internal/library"
)

var rmCmd = &cobra.Command{
	Use:   "rm <content-hash>...",
	Short: "Delete items from the library",
	Long:  "Delete one or more items by content hash. Deletes run concurrently; partial failures are reported per item.",
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
		loop := library.NewLoop(client, cfg.UserID, cfg.Library.PageSize, cfg.PollInterval())
		defer loop.Close()

		sel := library.NewSelection()
		for _, hash := range args {
			sel.Toggle(hash)
		}

		err = loop.DeleteSelected(cmd.Context(), sel, library.NewBus())
		if err != nil {
			var batchErr *library.BatchDeleteError
			if errors.As(err, &batchErr) {
				for _, id := range sel.IDs() {
					fmt.Printf("x %s: %v\n", id, batchErr.Failed[id])
				}
				return fmt.Errorf("%d of %d deletes failed", len(batchErr.Failed), len(args))
			}
			return err
		}

		fmt.Printf("Deleted %d item(s).\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
