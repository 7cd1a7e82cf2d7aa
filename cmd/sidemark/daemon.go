package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/bus"
	"github.com/sidemark/sidemark/internal/daemon"
	"github.com/sidemark/sidemark/internal/engine"
	"github.com/sidemark/sidemark/internal/server"
	"github.com/sidemark/sidemark/internal/ui"
)

// syncAdapter narrows the engine to the daemon's Syncer interface.
type syncAdapter struct {
	svc *engine.Service
}

func (a syncAdapter) Sync(ctx context.Context) error {
	_, err := a.svc.Sync(ctx)
	return err
}

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	GroupID: "sync",
	Short:   "Watch the browser bookmarks file and sync continuously",
	Long: `Run sidemark as a long-lived process:

  - syncs once on startup, then re-syncs whenever the browser rewrites
    its bookmarks file (debounced) and periodically as a safety net
  - serves a WebSocket event feed for the sidebar UI at /ws
  - exposes /health for monitoring

Stop with Ctrl-C or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		events := bus.New(log.New(cfg.LogWriter(), "[bus] ", log.LstdFlags))
		svc, cleanup := openService(cfg, events)
		defer cleanup()

		srv := server.New(events, &server.Config{
			Port:   cfg.EventPort,
			Logger: log.New(cfg.LogWriter(), "[server] ", log.LstdFlags),
		})
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting event server: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := srv.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Error stopping event server: %v\n", err)
			}
		}()

		dcfg := daemon.DefaultConfig()
		dcfg.Logger = log.New(cfg.LogWriter(), "[daemon] ", log.LstdFlags)

		d, err := daemon.New(syncAdapter{svc}, cfg.HostBookmarksFile, dcfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating daemon: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("%s Watching %s\n", ui.RenderAccent("daemon"), cfg.HostBookmarksFile)
		fmt.Printf("%s Event feed on ws://%s/ws\n", ui.RenderAccent("daemon"), srv.Addr())

		if err := d.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
