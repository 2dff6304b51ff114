package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points home and config lookups at empty temp dirs and moves into a
// fresh working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, field := range configFields() {
		t.Setenv(envName(field), "")
	}
	t.Setenv(envPrefix+"FILE", "")

	wd := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return home
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.StoreFile != DefaultStoreFile {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, DefaultStoreFile)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, DefaultLogDir)
	}
	if !cfg.ActivityLog {
		t.Errorf("ActivityLog: got false, want true")
	}
	if cfg.LogMaxSizeMB != DefaultLogMaxSizeMB {
		t.Errorf("LogMaxSizeMB: got %d, want %d", cfg.LogMaxSizeMB, DefaultLogMaxSizeMB)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDefaultsResolveStoreAgainstWorkingDir(t *testing.T) {
	home := isolate(t)
	wd, _ := os.Getwd()

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config
	if cfg.StoreFile != filepath.Join(wd, "tasks.json") {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, filepath.Join(wd, "tasks.json"))
	}
	if cfg.LogDir != filepath.Join(home, ".taskcli") {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, filepath.Join(home, ".taskcli"))
	}
	if cfg.ProjectRoot != wd {
		t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, wd)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKCLI_STORE_FILE", "custom.json")
	t.Setenv("TASKCLI_LOG_LEVEL", "debug")
	t.Setenv("TASKCLI_ACTIVITY_LOG", "off")
	t.Setenv("TASKCLI_LOG_MAX_BACKUPS", "7")
	t.Setenv("TASKCLI_LOG_MAX_AGE_DAYS", "not-a-number")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg, nil)

	if cfg.StoreFile != "custom.json" {
		t.Errorf("StoreFile: got %q, want custom.json", cfg.StoreFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.ActivityLog {
		t.Errorf("ActivityLog: got true, want false")
	}
	if cfg.LogMaxBackups != 7 {
		t.Errorf("LogMaxBackups: got %d, want 7", cfg.LogMaxBackups)
	}
	if cfg.LogMaxAgeDays != DefaultLogMaxAgeDays {
		t.Errorf("LogMaxAgeDays: got %d, want default %d", cfg.LogMaxAgeDays, DefaultLogMaxAgeDays)
	}
}

func TestLoadFromEnvFileAlias(t *testing.T) {
	isolate(t)
	t.Setenv("TASKCLI_FILE", "alias.json")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg, nil)
	if cfg.StoreFile != "alias.json" {
		t.Errorf("StoreFile: got %q, want alias.json", cfg.StoreFile)
	}

	t.Setenv("TASKCLI_STORE_FILE", "explicit.json")
	setDefaults(cfg)
	loadFromEnv(cfg, nil)
	if cfg.StoreFile != "explicit.json" {
		t.Errorf("StoreFile: got %q, want explicit.json", cfg.StoreFile)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "taskcli.toml")

	content := []byte(`store_file = "custom.json"
log_max_size_mb = 25
activity_log = false
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile, nil, ""); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.StoreFile != "custom.json" {
		t.Errorf("StoreFile: got %q, want custom.json", cfg.StoreFile)
	}
	if cfg.LogMaxSizeMB != 25 {
		t.Errorf("LogMaxSizeMB: got %d, want 25", cfg.LogMaxSizeMB)
	}
	if cfg.ActivityLog {
		t.Errorf("ActivityLog: got true, want false")
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want untouched default", cfg.LogLevel)
	}
}

func TestLoadConfigFileInvalidTOML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "taskcli.toml")
	if err := os.WriteFile(configFile, []byte("store_file = "), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile, nil, ""); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoadWithSourcesPriority(t *testing.T) {
	home := isolate(t)

	userDir := filepath.Join(home, ".taskcli")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(userDir, "taskcli.toml")
	user := `store_file = "user.json"
log_level = "warn"
log_max_backups = 9
`
	if err := os.WriteFile(userFile, []byte(user), 0644); err != nil {
		t.Fatal(err)
	}
	project := `store_file = "project.json"
log_format = "json"
`
	if err := os.WriteFile("taskcli.toml", []byte(project), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKCLI_LOG_FORMAT", "logfmt")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-log-caller", "list", "todo"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config
	wd, _ := os.Getwd()

	if cfg.StoreFile != filepath.Join(wd, "project.json") {
		t.Errorf("StoreFile: got %q", cfg.StoreFile)
	}
	if cfg.LogLevel != "warn" || cfg.LogMaxBackups != 9 {
		t.Errorf("user values not applied: %+v", cfg)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}
	if !cfg.LogCaller {
		t.Errorf("LogCaller: got false, want true")
	}

	wantSources := map[string]ConfigSource{
		"store_file":      SourceProjFile,
		"log_level":       SourceUserFile,
		"log_max_backups": SourceUserFile,
		"log_format":      SourceEnv,
		"log_caller":      SourceFlag,
		"log_dir":         SourceDefault,
		"activity_log":    SourceDefault,
	}
	for field, want := range wantSources {
		if got := cws.Sources[field]; got != want {
			t.Errorf("Sources[%s]: got %q, want %q", field, got, want)
		}
	}

	if len(cws.Files) != 2 || cws.Files[0] != userFile || cws.Files[1] != "taskcli.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
	if cws.ConfigFile() != "taskcli.toml" {
		t.Errorf("ConfigFile: got %q, want taskcli.toml", cws.ConfigFile())
	}

	if args := fs.Args(); len(args) != 2 || args[0] != "list" || args[1] != "todo" {
		t.Errorf("remaining args: got %v", args)
	}
}

func TestLoadWithSourcesDefinedDefaultValueCountsAsFile(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".taskcli.toml", []byte("log_level = \"info\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if got := cws.Sources["log_level"]; got != SourceProjFile {
		t.Errorf("Sources[log_level]: got %q, want %q", got, SourceProjFile)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "log level", args: []string{"-log-level", "loud"}, want: "log_level"},
		{name: "log format", args: []string{"-log-format", "xml"}, want: "log_format"},
		{name: "empty store", args: []string{"-file", " "}, want: "store_file"},
		{name: "size", args: []string{"-log-max-size", "0"}, want: "log_max_size_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"-file", "flag-tasks.json",
		"-log-dir", "/tmp/taskcli-logs",
		"-activity-log=false",
		"-log-format", "json",
		"add", "Buy milk",
	}

	if err := parseFlags(cfg, fs, args, nil); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.StoreFile != "flag-tasks.json" {
		t.Errorf("StoreFile: got %q, want flag-tasks.json", cfg.StoreFile)
	}
	if cfg.LogDir != "/tmp/taskcli-logs" {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if cfg.ActivityLog {
		t.Errorf("ActivityLog: got true, want false")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "add" {
		t.Errorf("Args: got %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS == "windows" {
		t.Setenv("TASKCLI_TEST_HOME", home)
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: `%TASKCLI_TEST_HOME%\logs`,
			want:  filepath.Join(home, "logs"),
		})
	} else {
		t.Setenv("TASKCLI_TEST_DIR", "/data")
		tests = append(tests, struct {
			input string
			want  string
		}{
			input: "$TASKCLI_TEST_DIR/tasks.json",
			want:  "/data/tasks.json",
		}, struct {
			input string
			want  string
		}{
			input: `~\test`,
			want:  `~\test`,
		})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExpandPath(tt.input)
			if got != tt.want {
				t.Errorf("ExpandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("ExampleConfig does not decode: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		t.Errorf("ExampleConfig has unknown keys: %v", undecoded)
	}
	for _, field := range configFields() {
		if !md.IsDefined(field) {
			t.Errorf("ExampleConfig does not document %s", field)
		}
	}

	want := &Config{}
	setDefaults(want)
	if cfg.StoreFile != want.StoreFile || cfg.LogMaxAgeDays != want.LogMaxAgeDays || cfg.ActivityLog != want.ActivityLog {
		t.Errorf("ExampleConfig values differ from defaults: %+v", cfg)
	}
}

func TestFieldsSortedWithSources(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cws := &ConfigWithSources{
		Config:  cfg,
		Sources: map[string]ConfigSource{"log_level": SourceEnv},
	}

	fields := cws.Fields()
	if len(fields) != len(configFields()) {
		t.Fatalf("len: got %d, want %d", len(fields), len(configFields()))
	}
	for i := 1; i < len(fields); i++ {
		if fields[i-1].Key > fields[i].Key {
			t.Errorf("fields not sorted: %s before %s", fields[i-1].Key, fields[i].Key)
		}
	}
	for _, f := range fields {
		want := SourceDefault
		if f.Key == "log_level" {
			want = SourceEnv
		}
		if f.Source != want {
			t.Errorf("%s source: got %q, want %q", f.Key, f.Source, want)
		}
	}
}
