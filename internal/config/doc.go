// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskcli/taskcli.toml or OS-specific config directory)
// 3. Project config file (taskcli.toml or .taskcli.toml in the working directory)
// 4. Environment variables (TASKCLI_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskcli/taskcli.toml (preferred)
// - Windows: %APPDATA%\taskcli\taskcli.toml
// - macOS: ~/Library/Application Support/taskcli/taskcli.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskcli/taskcli.toml or ~/.config/taskcli/taskcli.toml
//
// Project-level config locations (overrides user config):
// - ./taskcli.toml (preferred)
// - ./.taskcli.toml
package config
