package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sidemark/sidemark/internal/config"
	"github.com/sidemark/sidemark/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long: `Walk through sidemark configuration and write it to the default
config location. Existing config files are never overwritten without
confirmation.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		target := filepath.Join(config.Dir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			var overwrite bool
			confirm := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s exists. Overwrite?", target)).
					Value(&overwrite),
			))
			if err := confirm.Run(); err != nil || !overwrite {
				fmt.Println("Aborted.")
				return
			}
		}

		bookmarksFile := cfg.HostBookmarksFile
		dbPath := cfg.DBPath
		autoClassify := cfg.AutoClassify
		apiKey := cfg.AnthropicAPIKey
		model := cfg.AnthropicModel
		port := strconv.Itoa(cfg.EventPort)
		logFile := cfg.LogFile

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Browser bookmarks file").
					Description("The Chrome Bookmarks file to mirror").
					Value(&bookmarksFile),
				huh.NewInput().
					Title("Database path").
					Description("Where the SQLite store lives").
					Value(&dbPath),
				huh.NewInput().
					Title("Event feed port").
					Value(&port).
					Validate(func(s string) error {
						n, err := strconv.Atoi(s)
						if err != nil || n < 1 || n > 65535 {
							return fmt.Errorf("port must be 1-65535")
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Anthropic API key").
					Description("Leave empty to disable AI classification").
					EchoMode(huh.EchoModePassword).
					Value(&apiKey),
				huh.NewInput().
					Title("Anthropic model").
					Value(&model),
				huh.NewConfirm().
					Title("Auto-classify new bookmarks?").
					Value(&autoClassify),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Log file").
					Description("Leave empty to log to stderr").
					Value(&logFile),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		portNum, _ := strconv.Atoi(port)
		doc := map[string]any{
			"host_bookmarks_file": bookmarksFile,
			"db_path":             dbPath,
			"auto_classify":       autoClassify,
			"anthropic_model":     model,
			"event_port":          portNum,
		}
		if apiKey != "" {
			doc["anthropic_api_key"] = apiKey
		}
		if logFile != "" {
			doc["log_file"] = logFile
		}

		data, err := yaml.Marshal(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
			os.Exit(1)
		}
		if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", config.Dir(), err)
			os.Exit(1)
		}
		if err := os.WriteFile(target, data, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", target, err)
			os.Exit(1)
		}

		fmt.Printf("%s Wrote %s\n", ui.RenderPass("ok"), target)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
