package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/y3rawat/mindstore/internal/analyze"
	"github.com/y3rawat/mindstore/internal/api"
	"github.com/y3rawat/mindstore/internal/config"
	"github.com/y3rawat/mindstore/internal/content"
	"github.com/y3rawat/mindstore/internal/db"
)

var analyzeForce bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <content-hash>",
	Short: "Analyze a library item with an LLM",
	Long:  "Generate a short summary and topic list for one item from its metadata. Results are cached locally.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash := args[0]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.UserID == "" {
			return fmt.Errorf("no user configured, set MINDSTORE_USER_ID or user_id in the config file")
		}

		store, err := db.NewStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open local cache: %w", err)
		}
		defer store.Close()

		if !analyzeForce {
			cached, err := store.GetAnalysis(hash)
			if err != nil {
				return err
			}
			if cached != nil {
				fmt.Println(cached.Text)
				fmt.Printf("\n(cached, %s)\n", cached.Model)
				return nil
			}
		}

		item, err := findItem(cmd, cfg, store, hash)
		if err != nil {
			return err
		}

		analyzer := analyze.NewAnalyzer(cfg)
		result, err := analyzer.Analyze(cmd.Context(), *item)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		text := result.Summary
		if result.Topics != "" {
			text += "\nTopics: " + result.Topics
		}
		fmt.Println(text)

		return store.SaveAnalysis(db.Analysis{
			ContentHash: hash,
			Text:        text,
			Model:       cfg.LLM.Model,
			GeneratedAt: time.Now(),
		})
	},
}

// findItem looks for the item in the local snapshot first, then pages
// through the backend.
func findItem(cmd *cobra.Command, cfg *config.Config, store *db.Store, hash string) (*content.Item, error) {
	cached, err := store.LoadSnapshot(cfg.UserID)
	if err == nil {
		for _, item := range cached {
			if item.Key() == hash {
				return &item, nil
			}
		}
	}

	client := api.NewClient(cfg.API.BaseURL)
	const pageSize = 50
	for offset := 0; ; offset += pageSize {
		page, err := client.FetchContent(cmd.Context(), cfg.UserID, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch failed: %w", err)
		}
		for _, item := range page.Items {
			if item.Key() == hash {
				return &item, nil
			}
		}
		if len(page.Items) < pageSize {
			return nil, fmt.Errorf("item %s not found", hash)
		}
	}
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeForce, "force", "f", false, "Regenerate even if a cached analysis exists")
	rootCmd.AddCommand(analyzeCmd)
}
