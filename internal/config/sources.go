package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "taskcli"

// projectConfigNames are checked in order in the working directory.
var projectConfigNames = []string{"taskcli.toml", ".taskcli.toml"}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.taskcli/taskcli.toml first, then falls back to the OS-specific
// config directory.
func findUserConfigFile() string {
	for _, path := range userConfigCandidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// userConfigCandidates lists the user config paths in lookup order.
func userConfigCandidates() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appName, appName+".toml"))
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		paths = append(paths, filepath.Join(cfgDir, appName, appName+".toml"))
	}
	return paths
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		// Respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StoreFile = DefaultStoreFile
	cfg.LogDir = DefaultLogDir
	cfg.ActivityLog = DefaultActivityLog
	cfg.LogMaxSizeMB = DefaultLogMaxSizeMB
	cfg.LogMaxBackups = DefaultLogMaxBackups
	cfg.LogMaxAgeDays = DefaultLogMaxAgeDays
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// ConfigFile returns the highest-priority config file that was read, or ""
// when only defaults, environment and flags were used.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// UserConfigPath returns the preferred location for a new user config file.
func UserConfigPath() string {
	candidates := userConfigCandidates()
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}
