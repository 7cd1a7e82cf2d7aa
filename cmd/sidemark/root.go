package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/bus"
	"github.com/sidemark/sidemark/internal/classify"
	"github.com/sidemark/sidemark/internal/config"
	"github.com/sidemark/sidemark/internal/engine"
	"github.com/sidemark/sidemark/internal/host"
	"github.com/sidemark/sidemark/internal/storage"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "sidemark",
	Short: "Bookmark sync and taxonomy engine",
	Long: `sidemark mirrors your browser's native bookmark tree into a local
store, enriches it with categories, tags, and optional AI metadata, and
serves filtered views plus a live event feed to the sidebar UI.

The store lives in a local SQLite database. The browser stays the source
of truth for the tree itself; your tags, categories and notes survive
every sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	rootCmd.AddGroup(
		&cobra.Group{ID: "sync", Title: "Sync commands:"},
		&cobra.Group{ID: "records", Title: "Record commands:"},
	)
}

// loadConfig resolves configuration or exits.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openService wires the engine for one-shot commands. The returned
// cleanup closes the store.
func openService(cfg *config.Config, events *bus.Bus) (*engine.Service, func()) {
	gw, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}

	reader := host.NewChromeReader(cfg.HostBookmarksFile, nil)

	var classifier classify.Classifier
	if cfg.AnthropicAPIKey != "" {
		classifier = classify.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}

	svc := engine.New(storage.NewCollections(gw), reader, engine.Options{
		Classifier:   classifier,
		AutoClassify: cfg.AutoClassify,
		Bus:          events,
		Logger:       log.New(cfg.LogWriter(), "[engine] ", log.LstdFlags),
	})

	return svc, func() { _ = gw.Close() }
}
