package config

import (
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// Flag keys understood by ApplyFlags
const (
	FlagHost      = "host"
	FlagPort      = "port"
	FlagNoBrowser = "no-browser"
	FlagBrowser   = "browser"
	FlagWatch     = "watch"
	FlagDebounce  = "debounce"
	FlagStyle     = "style"
	FlagWordWrap  = "word-wrap"
	FlagVerbose   = "verbose"
	FlagLogLevel  = "log-level"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges configurations with later configs taking precedence.
// With no configs it returns the defaults.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	var result *entities.Config
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if result == nil {
			result = deepCopy(cfg)
			continue
		}
		m.mergeInto(result, cfg)
	}

	if result == nil {
		return GetDefaultConfig()
	}
	return result
}

// ApplyFlags applies CLI flag overrides to a configuration. Zero values
// and values of the wrong type are ignored.
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)
	if result == nil {
		result = GetDefaultConfig()
	}

	if host, ok := flags[FlagHost].(string); ok && host != "" {
		result.Server.Host = host
	}

	if port, ok := flags[FlagPort].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if noBrowser, ok := flags[FlagNoBrowser].(bool); ok && noBrowser {
		result.Browser.AutoOpen = false
	}

	if browser, ok := flags[FlagBrowser].(string); ok && browser != "" {
		result.Browser.Browser = browser
	}

	if watch, ok := flags[FlagWatch].(bool); ok {
		result.Watcher.Enabled = watch
	}

	if debounce, ok := flags[FlagDebounce].(int); ok && debounce > 0 {
		result.Watcher.DebounceMs = debounce
	}

	if style, ok := flags[FlagStyle].(string); ok && style != "" {
		result.Terminal.Style = style
	}

	if wrap, ok := flags[FlagWordWrap].(int); ok && wrap > 0 {
		result.Terminal.WordWrap = wrap
	}

	if level, ok := flags[FlagLogLevel].(string); ok && level != "" {
		result.Logging.Level = level
	}

	if verbose, ok := flags[FlagVerbose].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies STEPDECK_* environment overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)
	if result == nil {
		result = GetDefaultConfig()
	}

	result.Server.Host = getEnvOrDefault(envKey("HOST"), result.Server.Host)
	if port := getEnvIntOrDefault(envKey("PORT"), 0); port > 0 {
		result.Server.Port = port
	}
	result.Server.Environment = getEnvOrDefault(envKey("ENV"), result.Server.Environment)
	result.Server.CORSOrigins = getEnvSliceOrDefault(envKey("CORS_ORIGINS"), result.Server.CORSOrigins)
	if limit := getEnvIntOrDefault(envKey("RATE_LIMIT"), 0); limit > 0 {
		result.Server.RateLimit = limit
	}

	result.Browser.AutoOpen = !getEnvBoolOrDefault(envKey("NO_BROWSER"), !result.Browser.AutoOpen)
	result.Browser.Browser = getEnvOrDefault(envKey("BROWSER"), result.Browser.Browser)

	result.Watcher.Enabled = getEnvBoolOrDefault(envKey("WATCH"), result.Watcher.Enabled)
	if debounce := getEnvIntOrDefault(envKey("WATCH_DEBOUNCE"), -1); debounce >= 0 {
		result.Watcher.DebounceMs = debounce
	}

	result.Terminal.Style = getEnvOrDefault(envKey("STYLE"), result.Terminal.Style)
	if wrap := getEnvIntOrDefault(envKey("WORD_WRAP"), 0); wrap > 0 {
		result.Terminal.WordWrap = wrap
	}

	result.Logging.Level = getEnvOrDefault(envKey("LOG_LEVEL"), result.Logging.Level)
	result.Logging.Verbose = getEnvBoolOrDefault(envKey("LOG_VERBOSE"), result.Logging.Verbose)

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}
	if source.Server.RateLimit != 0 {
		target.Server.RateLimit = source.Server.RateLimit
	}

	// Booleans always come from the later config; the loader fills keys a
	// file leaves out with their defaults.
	target.Browser.AutoOpen = source.Browser.AutoOpen
	if source.Browser.Browser != "" {
		target.Browser.Browser = source.Browser.Browser
	}

	target.Watcher.Enabled = source.Watcher.Enabled
	if source.Watcher.DebounceMs != 0 {
		target.Watcher.DebounceMs = source.Watcher.DebounceMs
	}

	if source.Terminal.Style != "" {
		target.Terminal.Style = source.Terminal.Style
	}
	if source.Terminal.WordWrap != 0 {
		target.Terminal.WordWrap = source.Terminal.WordWrap
	}

	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.Verbose {
		target.Logging.Verbose = true
	}
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}
	return &dst
}

var _ ports.ConfigMerger = (*ConfigMerger)(nil)
