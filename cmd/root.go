// Package cmd implements the CLI command structure for taskcli.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskcli/internal/config"
	"github.com/nibzard/taskcli/internal/logging"
	"github.com/nibzard/taskcli/internal/task"
	"github.com/nibzard/taskcli/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrNoCommand is returned when no command is given.
var ErrNoCommand = errors.New("no command given")

// app carries what every command needs for one invocation.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger

	activity *logging.ActivityLog
}

// Run executes the taskcli CLI against the process's stdout and stderr.
func Run(ctx context.Context, args []string) error {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

// RunWithIO executes the taskcli CLI with the given output writers.
func RunWithIO(ctx context.Context, args []string, out, errOut io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskcli", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}

	consoleOpts, err := logging.ParseConsoleOptions(cws.Config.LogLevel, cws.Config.LogFormat,
		cws.Config.LogTimestamps, cws.Config.LogCaller)
	if err != nil {
		return err
	}

	a := &app{
		cfg:     cws.Config,
		sources: cws,
		out:     out,
		errOut:  errOut,
		logger:  logging.NewConsoleLogger(errOut, consoleOpts),
	}
	defer a.close()

	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, errOut)
		return ErrNoCommand
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]
	a.logger.Debug("running command", "command", subcommand, "store", a.cfg.StoreFile)

	// Execute the subcommand
	switch subcommand {
	case "add":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "update":
		return a.updateCommand(remainingArgs)
	case "delete", "rm":
		return a.deleteCommand(remainingArgs)
	case "mark-in-progress":
		return a.markCommand(task.OpMarkInProgress, remainingArgs)
	case "mark-done":
		return a.markCommand(task.OpMarkDone, remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "tail":
		return a.tailCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, out)
		return nil
	default:
		fmt.Fprintf(errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// manager builds the task manager. Mutating commands pass record=true to
// attach the activity log when it is enabled.
func (a *app) manager(record bool) *task.Manager {
	opts := []task.Option{task.WithLogger(a.logger)}
	if record && a.cfg.ActivityLog {
		if a.activity == nil {
			activity, err := logging.NewActivityLog(a.cfg.LogDir, a.cfg.ProjectRoot, logging.RotateOptions{
				MaxSizeMB:  a.cfg.LogMaxSizeMB,
				MaxBackups: a.cfg.LogMaxBackups,
				MaxAgeDays: a.cfg.LogMaxAgeDays,
			})
			if err != nil {
				a.logger.Warn("activity log disabled", "err", err)
			} else {
				a.activity = activity
			}
		}
		if a.activity != nil {
			opts = append(opts, task.WithRecorder(a.activity))
		}
	}
	return task.NewManager(a.cfg.StoreFile, opts...)
}

func (a *app) close() {
	if a.activity != nil {
		if err := a.activity.Close(); err != nil {
			a.logger.Warn("closing activity log", "err", err)
		}
	}
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskcli tui", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	poll := fs.Bool("poll", false, "Poll the tasks file instead of watching it")
	interval := fs.Duration("interval", 2*time.Second, "Polling interval")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return ui.RunTUI(ctx, a.manager(true),
		ui.WithWatch(!*poll),
		ui.WithRefreshInterval(*interval),
		ui.WithLogger(a.logger),
	)
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.out, "taskcli version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskcli - Track tasks in a local JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskcli [global options] <command> [inputs/options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>          Add a new task")
	fmt.Fprintln(w, "  list [status]              List tasks (status: "+strings.Join(statusNames(), ", ")+")")
	fmt.Fprintln(w, "  update <id> <description>  Update an existing task")
	fmt.Fprintln(w, "  delete <id>                Delete a task")
	fmt.Fprintln(w, "  mark-in-progress <id>      Mark task as in progress")
	fmt.Fprintln(w, "  mark-done <id>             Mark task as done")
	fmt.Fprintln(w, "  export                     Write tasks as JSON, YAML or TOML")
	fmt.Fprintln(w, "  doctor                     Check config, tasks file and logs")
	fmt.Fprintln(w, "  tui                        Launch terminal UI")
	fmt.Fprintln(w, "  tail                       Show the activity log")
	fmt.Fprintln(w, "  config                     Show effective configuration")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list' command):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: json, yaml, toml (default json)")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Only export tasks with this status")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Write to file instead of stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}

func statusNames() []string {
	names := make([]string, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		names = append(names, string(s))
	}
	return names
}
