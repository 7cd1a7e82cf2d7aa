package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sidemark/sidemark/internal/types"
)

var exportFlags struct {
	format string
	output string
}

// exportDocument is the serialized shape of a full store export.
type exportDocument struct {
	ExportedAt time.Time        `json:"exportedAt" yaml:"exportedAt"`
	Bookmarks  []types.Bookmark `json:"bookmarks" yaml:"bookmarks"`
	Categories []types.Category `json:"categories" yaml:"categories"`
	Tags       []types.Tag      `json:"tags" yaml:"tags"`
}

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "sync",
	Short:   "Export the full store",
	Long: `Export all bookmarks, categories and tags as JSON or YAML, to stdout
or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		bookmarks, categories, tags, err := svc.Records(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
			os.Exit(1)
		}

		doc := exportDocument{
			ExportedAt: time.Now(),
			Bookmarks:  bookmarks,
			Categories: categories,
			Tags:       tags,
		}

		var data []byte
		switch exportFlags.format {
		case "json":
			data, err = json.MarshalIndent(doc, "", "  ")
			if err == nil {
				data = append(data, '\n')
			}
		case "yaml":
			data, err = yaml.Marshal(doc)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown format %q (want json or yaml)\n", exportFlags.format)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding export: %v\n", err)
			os.Exit(1)
		}

		if exportFlags.output == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(exportFlags.output, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", exportFlags.output, err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d bookmark(s) to %s\n", len(bookmarks), exportFlags.output)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "json", "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
