package config

import "sort"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStoreFile     = "tasks.json"
	DefaultLogDir        = "~/.taskcli"
	DefaultActivityLog   = true
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config holds the full configuration for taskcli.
type Config struct {
	// Paths
	StoreFile string `toml:"store_file"`
	LogDir    string `toml:"log_dir"`

	// Activity log
	ActivityLog   bool `toml:"activity_log"`
	LogMaxSizeMB  int  `toml:"log_max_size_mb"`
	LogMaxBackups int  `toml:"log_max_backups"`
	LogMaxAgeDays int  `toml:"log_max_age_days"`

	// Console logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Field pairs a config key with its current value for display.
type Field struct {
	Key    string
	Value  interface{}
	Source ConfigSource
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"store_file",
		"log_dir",
		"activity_log",
		"log_max_size_mb",
		"log_max_backups",
		"log_max_age_days",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

func (c *Config) values() map[string]interface{} {
	return map[string]interface{}{
		"store_file":       c.StoreFile,
		"log_dir":          c.LogDir,
		"activity_log":     c.ActivityLog,
		"log_max_size_mb":  c.LogMaxSizeMB,
		"log_max_backups":  c.LogMaxBackups,
		"log_max_age_days": c.LogMaxAgeDays,
		"log_level":        c.LogLevel,
		"log_format":       c.LogFormat,
		"log_timestamps":   c.LogTimestamps,
		"log_caller":       c.LogCaller,
	}
}

// Fields returns every configurable value with its source, sorted by key.
func (cws *ConfigWithSources) Fields() []Field {
	values := cws.Config.values()
	fields := make([]Field, 0, len(values))
	for _, key := range configFields() {
		source := cws.Sources[key]
		if source == "" {
			source = SourceDefault
		}
		fields = append(fields, Field{Key: key, Value: values[key], Source: source})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}
