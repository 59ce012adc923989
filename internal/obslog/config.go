// Package obslog provides the cluster transport's per-subsystem structured
// logger, built on log/slog.
//
// Level configuration:
//
//	UDPCLUSTER_LOG_LEVEL=sending=debug,demux=warn,info
//	UDPCLUSTER_LOG_FORMAT=json
package obslog

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the slog handler used to render log lines.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Config controls the default and per-subsystem log levels.
type Config struct {
	DefaultLevel    slog.Level
	SubsystemLevels map[string]slog.Level
	Format          Format
	AddSource       bool
}

// LevelForSubsystem returns the configured level for subsystem, falling
// back to the default level when none was set.
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configCache *Config
	configOnce  sync.Once
)

// ConfigFromEnv parses UDPCLUSTER_LOG_LEVEL / UDPCLUSTER_LOG_FORMAT /
// UDPCLUSTER_LOG_ADD_SOURCE once per process and caches the result.
func ConfigFromEnv() *Config {
	configOnce.Do(func() {
		configCache = parseConfig()
	})
	return configCache
}

func parseConfig() *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
		AddSource:       false,
	}

	if levelStr := os.Getenv("UDPCLUSTER_LOG_LEVEL"); levelStr != "" {
		parseLevelConfig(cfg, levelStr)
	}

	if formatStr := os.Getenv("UDPCLUSTER_LOG_FORMAT"); formatStr != "" {
		if strings.EqualFold(formatStr, "json") {
			cfg.Format = FormatJSON
		}
	}

	if addSourceStr := os.Getenv("UDPCLUSTER_LOG_ADD_SOURCE"); addSourceStr != "" {
		cfg.AddSource = addSourceStr != "false" && addSourceStr != "0"
	}

	return cfg
}

// parseLevelConfig parses "subsystem=level,subsystem=level,defaultLevel".
func parseLevelConfig(cfg *Config, levelStr string) {
	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if kv := strings.SplitN(part, "=", 2); len(kv) == 2 {
			if level, ok := parseLevel(strings.TrimSpace(kv[1])); ok {
				cfg.SubsystemLevels[strings.TrimSpace(kv[0])] = level
			}
			continue
		}
		if level, ok := parseLevel(part); ok {
			cfg.DefaultLevel = level
		}
	}
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ResetConfig clears the cached env-derived config. Test-only.
func ResetConfig() {
	configOnce = sync.Once{}
	configCache = nil
}
