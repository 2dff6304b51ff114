package config

import (
	"os"
	"strconv"
	"strings"
)

// envPrefix prefixes every environment override.
const envPrefix = "TASKCLI_"

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it marks each overridden field as SourceEnv.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(field string, target *string) {
		if v := os.Getenv(envName(field)); v != "" {
			*target = v
			mark(field)
		}
	}
	boolean := func(field string, target *bool) {
		if v := os.Getenv(envName(field)); v != "" {
			*target = boolFromString(v)
			mark(field)
		}
	}
	integer := func(field string, target *int) {
		if v := os.Getenv(envName(field)); v != "" {
			if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*target = i
				mark(field)
			}
		}
	}

	str("store_file", &cfg.StoreFile)
	// TASKCLI_FILE is a short alias for TASKCLI_STORE_FILE.
	if v := os.Getenv(envPrefix + "FILE"); v != "" && os.Getenv(envName("store_file")) == "" {
		cfg.StoreFile = v
		mark("store_file")
	}
	str("log_dir", &cfg.LogDir)

	boolean("activity_log", &cfg.ActivityLog)
	integer("log_max_size_mb", &cfg.LogMaxSizeMB)
	integer("log_max_backups", &cfg.LogMaxBackups)
	integer("log_max_age_days", &cfg.LogMaxAgeDays)

	// Logging configuration
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	boolean("log_timestamps", &cfg.LogTimestamps)
	boolean("log_caller", &cfg.LogCaller)
}

// envName maps a config key to its environment variable, e.g.
// log_level to TASKCLI_LOG_LEVEL.
func envName(field string) string {
	return envPrefix + strings.ToUpper(field)
}

// boolFromString interprets common truthy spellings.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
