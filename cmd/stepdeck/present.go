package main

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fredcamaral/stepdeck/internal/adapters/primary/terminal"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/services"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

// debugLogFile receives log output while the terminal presenter owns the screen
const debugLogFile = "stepdeck-debug.log"

func newPresentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "present [deck]",
		Short: "Present a deck in the terminal",
		Long: `Present the deck full-screen in the terminal. Use the arrow keys,
h/l or space to move, 1-9 to jump, t for the slide list and ? for help.

With --verbose, logs are written to ` + debugLogFile + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPresent,
	}

	cmd.Flags().BoolP(config.FlagWatch, "w", true, "Reload when the deck file changes")
	cmd.Flags().Int(config.FlagDebounce, 0, "Watch debounce in milliseconds")
	cmd.Flags().String(config.FlagStyle, "", "Glamour style (tokyo-night, dark, light, dracula, notty)")
	cmd.Flags().Int(config.FlagWordWrap, 0, "Maximum body width")
	cmd.Flags().String(config.FlagLogLevel, "", "Log level (debug, info, warn, error)")

	return cmd
}

func init() {
	rootCmd.AddCommand(newPresentCmd())
}

func runPresent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deckPath := deckArg(args)

	cfg, err := loadConfig(cmd, deckPath)
	if err != nil {
		return err
	}

	closeLogs, err := redirectLogs(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLogs()

	logger := logging.FromConfig("present", cfg.Logging)
	decks := newDeckService(cfg.Watcher, logger)

	session, err := openSession(ctx, decks, deckPath, logger)
	if err != nil {
		return err
	}
	defer session.Stop()

	reload := services.NewLiveReloadService(decks, session, nil, newSlogLogger(cfg.Logging, log.Writer()))
	startWatching(ctx, cfg, deckPath, reload, logger)
	defer func() { _ = reload.Stop() }()

	return terminal.Run(ctx, session, terminal.Options{
		Style:    cfg.Terminal.GetStyle(),
		WordWrap: cfg.Terminal.WordWrap,
	})
}

// redirectLogs keeps log lines off the terminal UI: to a file when debugging,
// nowhere otherwise
func redirectLogs(cfg entities.LoggingConfig) (func(), error) {
	if cfg.Verbose || cfg.GetLevel() == entities.LogLevelDebug {
		f, err := tea.LogToFile(debugLogFile, "stepdeck")
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", debugLogFile, err)
		}
		return func() { _ = f.Close() }, nil
	}

	previous := log.Writer()
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(previous) }, nil
}
