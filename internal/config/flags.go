package config

import (
	"flag"
)

// parseFlags parses CLI flags into cfg. Flags bind directly to cfg, so
// defaults shown in usage reflect the values already loaded from files and the
// environment. If sources is non-nil, flags set explicitly are marked as
// SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}
	RegisterFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources == nil {
		return nil
	}
	fs.Visit(func(f *flag.Flag) {
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})
	return nil
}

// flagToSource maps flag names to config keys.
var flagToSource = map[string]string{
	"file":            "store_file",
	"log-dir":         "log_dir",
	"activity-log":    "activity_log",
	"log-max-size":    "log_max_size_mb",
	"log-max-backups": "log_max_backups",
	"log-max-age":     "log_max_age_days",
	"log-level":       "log_level",
	"log-format":      "log_format",
	"log-timestamps":  "log_timestamps",
	"log-caller":      "log_caller",
}

// RegisterFlags defines the global flags on fs, bound to cfg.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	// Paths
	fs.StringVar(&cfg.StoreFile, "file", cfg.StoreFile, "Path to the tasks JSON file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")

	// Activity log
	fs.BoolVar(&cfg.ActivityLog, "activity-log", cfg.ActivityLog, "Record task changes to the activity log")
	fs.IntVar(&cfg.LogMaxSizeMB, "log-max-size", cfg.LogMaxSizeMB, "Activity log size in MB before rotation")
	fs.IntVar(&cfg.LogMaxBackups, "log-max-backups", cfg.LogMaxBackups, "Rotated activity logs to keep")
	fs.IntVar(&cfg.LogMaxAgeDays, "log-max-age", cfg.LogMaxAgeDays, "Days to keep rotated activity logs")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
}
