package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/y3rawat/mindstore/internal/api"
	"github.com/y3rawat/mindstore/internal/config"
	"github.com/y3rawat/mindstore/internal/content"
	"github.com/y3rawat/mindstore/internal/db"
)

var (
	listJSON     bool
	listLimit    int
	listPlatform string
	listCached   bool
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List library items",
	Long:  "Fetch the library from the backend and print each item with its sync state. With --cached, read the local snapshot instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.UserID == "" {
			return fmt.Errorf("no user configured, set MINDSTORE_USER_ID or user_id in the config file")
		}
		query := strings.Join(args, " ")

		items, err := fetchItems(cmd, cfg, query)
		if err != nil {
			return err
		}
		items = filterItems(items, query, listPlatform)

		if listJSON {
			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}
		for i, item := range items {
			badge := lifecycleBadge(content.Classify(item.Media))
			fmt.Printf("%d. %s %s %s\n   %s  %s\n", i+1, badge,
				content.PlatformTag(item.Media.Platform),
				content.DisplayTitle(item.Media),
				item.SavedAt.DisplayDate(), item.URL)
		}
		return nil
	},
}

func fetchItems(cmd *cobra.Command, cfg *config.Config, query string) ([]content.Item, error) {
	if listCached {
		store, err := db.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open local cache: %w", err)
		}
		defer store.Close()
		if query != "" {
			return store.SearchCache(cfg.UserID, query)
		}
		return store.LoadSnapshot(cfg.UserID)
	}

	client := api.NewClient(cfg.API.BaseURL)
	page, err := client.FetchContent(cmd.Context(), cfg.UserID, listLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	return page.Items, nil
}

func filterItems(items []content.Item, query, platform string) []content.Item {
	if query == "" && platform == "" {
		return items
	}
	query = strings.ToLower(query)
	out := make([]content.Item, 0, len(items))
	for _, item := range items {
		if platform != "" && string(item.Media.Platform) != platform {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(content.DisplayTitle(item.Media) + " " + item.Media.Author + " " + item.Media.Caption)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func lifecycleBadge(s content.Status) string {
	switch s {
	case content.StatusPending:
		return "[~]"
	case content.StatusFailed:
		return "[!]"
	default:
		return "[+]"
	}
}

func init() {
	listCmd.Flags().BoolVarP(&listJSON, "json", "j", false, "Output as JSON")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum items to fetch")
	listCmd.Flags().StringVarP(&listPlatform, "platform", "p", "", "Only show one platform (instagram, youtube, twitter, linkedin, tiktok)")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "Read the local snapshot instead of the backend")
	rootCmd.AddCommand(listCmd)
}
