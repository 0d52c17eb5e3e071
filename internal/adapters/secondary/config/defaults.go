package config

import (
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

// Default values for a fresh installation
const (
	DefaultHost       = "localhost"
	DefaultPort       = 3000
	DefaultDebounceMs = 200
	DefaultStyle      = "tokyo-night"
	DefaultWordWrap   = 80
)

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
			Environment:     "development",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:8080",
				"http://127.0.0.1:8080",
			},
			RateLimit: 300,
		},
		Browser: entities.BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Watcher: entities.WatcherConfig{
			Enabled:    true,
			DebounceMs: DefaultDebounceMs,
		},
		Terminal: entities.TerminalConfig{
			Style:    DefaultStyle,
			WordWrap: DefaultWordWrap,
		},
		Logging: entities.LoggingConfig{
			Level:   string(entities.LogLevelInfo),
			Verbose: false,
		},
	}
}
