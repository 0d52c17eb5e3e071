package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/stepdeck/internal/adapters/primary/http"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/browser"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/stepdeck/internal/domain/services"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [deck]",
		Short: "Present a deck in the browser",
		Long: `Start a local HTTP server that presents the deck. Every open tab
follows the same position, and edits to the deck file reload all of
them when watching is enabled.

Example:
  stepdeck serve
  stepdeck serve talk.md --port 8080 --no-browser`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServe,
	}

	// defaults come from the config; only explicitly set flags override it
	cmd.Flags().IntP(config.FlagPort, "p", 0, "Port to serve on, 0 keeps the configured port")
	cmd.Flags().String(config.FlagHost, "", "Host to bind to")
	cmd.Flags().Bool(config.FlagNoBrowser, false, "Don't open a browser")
	cmd.Flags().String(config.FlagBrowser, "", "Browser to open (chrome, firefox, safari, edge, default)")
	cmd.Flags().BoolP(config.FlagWatch, "w", true, "Reload when the deck file changes")
	cmd.Flags().Int(config.FlagDebounce, 0, "Watch debounce in milliseconds")
	cmd.Flags().String(config.FlagLogLevel, "", "Log level (debug, info, warn, error)")

	return cmd
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deckPath := deckArg(args)

	cfg, err := loadConfig(cmd, deckPath)
	if err != nil {
		return err
	}

	logger := logging.FromConfig("serve", cfg.Logging)
	decks := newDeckService(cfg.Watcher, logger)

	session, err := openSession(ctx, decks, deckPath, logger)
	if err != nil {
		return err
	}
	defer session.Stop()

	pages, err := renderer.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("loading page template: %w", err)
	}

	server := httpadapter.NewServer(session, pages, renderer.NewProgressBadge(), &cfg.Server, logger.With("http"))
	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return err
	}

	url := serverURL(cfg.Server.Host, server.Addr())
	deck := session.Deck()
	fmt.Fprintf(cmd.OutOrStdout(), "Presenting %q (%d slides) at %s\n", deck.Title, deck.SlideCount(), url)

	reload := services.NewLiveReloadService(decks, session, server, newSlogLogger(cfg.Logging, os.Stderr))
	startWatching(ctx, cfg, deckPath, reload, logger)
	defer func() { _ = reload.Stop() }()

	if cfg.Browser.AutoOpen {
		launcher := browser.NewLauncherFor(cfg.Browser.Browser)
		if err := launcher.Launch(url, false); err != nil {
			logger.Warn("could not open a browser: %v", err)
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()
	return server.Stop(shutdownCtx)
}

// serverURL builds the browser URL for the bound address. Wildcard and empty
// hosts are opened through localhost.
func serverURL(host, addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}

	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
