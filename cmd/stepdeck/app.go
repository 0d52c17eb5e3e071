package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/content"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/repository"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/services"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

// configFlags are the flags that map onto config keys when set explicitly
var configFlags = []string{
	config.FlagHost,
	config.FlagPort,
	config.FlagNoBrowser,
	config.FlagBrowser,
	config.FlagWatch,
	config.FlagDebounce,
	config.FlagStyle,
	config.FlagWordWrap,
	config.FlagVerbose,
	config.FlagLogLevel,
}

// deckArg returns the optional deck path argument
func deckArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// configDir is where the local stepdeck.toml and .env are looked up: next
// to the deck, or the working directory for the built-in deck
func configDir(deckPath string) string {
	if deckPath != "" {
		return filepath.Dir(deckPath)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// changedFlags collects the config flags the user actually passed, so
// unset flags never shadow config files or the environment
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})

	for _, name := range configFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		var (
			value interface{}
			err   error
		)
		switch f.Value.Type() {
		case "bool":
			value, err = cmd.Flags().GetBool(name)
		case "int":
			value, err = cmd.Flags().GetInt(name)
		default:
			value = f.Value.String()
		}
		if err == nil {
			flags[name] = value
		}
	}
	return flags
}

// loadConfig resolves the configuration for a deck
func loadConfig(cmd *cobra.Command, deckPath string) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewTOMLLoaderAt(path)
	}

	svc := services.NewConfigService(loader, config.NewConfigMerger())
	cfg, err := svc.LoadConfig(cmd.Context(), configDir(deckPath), changedFlags(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// quickLogger is used by commands that do not load configuration
func quickLogger(cmd *cobra.Command, component string) *logging.Logger {
	level := entities.LogLevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = entities.LogLevelDebug
	}
	return logging.New(component, level)
}

// newSlogLogger builds the structured logger used by the live reload service
func newSlogLogger(cfg entities.LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.GetLevel() {
	case entities.LogLevelDebug:
		level = slog.LevelDebug
	case entities.LogLevelWarn:
		level = slog.LevelWarn
	case entities.LogLevelError:
		level = slog.LevelError
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newDeckService wires the deck pipeline: file repository and watcher,
// parser registry, built-in deck and markdown renderer
func newDeckService(cfg entities.WatcherConfig, logger *logging.Logger) *services.DeckService {
	registry := parser.NewRegistry()
	fsWatcher := watcher.NewFSWatcher(cfg.GetDebounce(), logger.With("watcher"))

	return services.NewDeckService(
		repository.NewFileRepository(registry, fsWatcher),
		registry,
		content.NewSource(),
		renderer.NewMarkdownRenderer(),
		logger.With("deck"),
	)
}

// openSession loads the deck and starts a session over it
func openSession(ctx context.Context, decks *services.DeckService, deckPath string, logger *logging.Logger) (*services.SessionService, error) {
	deck, err := decks.LoadDeck(ctx, deckPath)
	if err != nil {
		return nil, err
	}

	session, err := services.NewSessionService(deck, logger.With("session"))
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	return session, nil
}

// startWatching starts live reload when enabled and a deck file was given
func startWatching(ctx context.Context, cfg *entities.Config, deckPath string, reload *services.LiveReloadService, logger *logging.Logger) {
	if !cfg.Watcher.Enabled || deckPath == "" {
		return
	}
	if err := reload.Start(ctx, deckPath); err != nil {
		logger.Warn("live reload disabled: %v", err)
		return
	}
	logger.Debug("watching %s for changes", deckPath)
}
