package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskcli configuration file
# Values can be overridden by TASKCLI_* environment variables or CLI flags

# Tasks file (relative paths resolve against the working directory)
store_file = "tasks.json"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.taskcli"

# Record every change to <log_dir>/<project>/activity.jsonl
activity_log = true

# Activity log rotation
log_max_size_mb = 5
log_max_backups = 3
log_max_age_days = 28

# Console logging on stderr
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
