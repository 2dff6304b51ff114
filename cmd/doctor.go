package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/taskcli/internal/logging"
	"github.com/nibzard/taskcli/internal/task"
)

// ErrDoctorFailed is returned when at least one doctor check fails.
var ErrDoctorFailed = errors.New("doctor checks failed")

// doctorCommand checks the environment and the tasks file.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("taskcli doctor", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	out := a.out
	fmt.Fprintln(out, "Taskcli Doctor")
	fmt.Fprintln(out, "==============")
	fmt.Fprintln(out)

	allOK := true

	// Check project root
	fmt.Fprintf(out, "Project root: %s\n", a.cfg.ProjectRoot)
	if _, err := os.Stat(a.cfg.ProjectRoot); err != nil {
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(out, "  ✅ OK")
	}
	fmt.Fprintln(out)

	// Check config
	fmt.Fprintln(out, "Config:")
	if file := a.sources.ConfigFile(); file != "" {
		fmt.Fprintf(out, "  ✅ File: %s\n", file)
	} else {
		fmt.Fprintln(out, "  ✅ File: none (defaults)")
	}
	fmt.Fprintf(out, "  ✅ Log level: %s\n", a.cfg.LogLevel)
	fmt.Fprintln(out)

	// Check tasks file
	fmt.Fprintf(out, "Tasks file: %s\n", a.cfg.StoreFile)
	if !a.checkStore(*verbose) {
		allOK = false
	}
	fmt.Fprintln(out)

	// Check activity log
	if !a.checkActivityLog(*verbose) {
		allOK = false
	}
	fmt.Fprintln(out)

	if allOK {
		fmt.Fprintln(out, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(out, "❌ Some checks failed")
	return ErrDoctorFailed
}

func (a *app) checkStore(verbose bool) bool {
	out := a.out
	report, err := task.Verify(a.cfg.StoreFile)
	if err != nil {
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		return false
	}
	if !report.Exists {
		fmt.Fprintln(out, "  ⚠️  Not found (created on first add)")
		return true
	}
	fmt.Fprintln(out, "  ✅ OK")

	for _, w := range report.Warnings {
		fmt.Fprintf(out, "  ⚠️  %s\n", w)
	}
	if report.ParseErr != nil {
		fmt.Fprintf(out, "  ❌ %v\n", report.ParseErr)
	}
	if len(report.Errors) > 0 {
		fmt.Fprintln(out, "  ❌ Validation failed:")
		for _, e := range report.Errors {
			fmt.Fprintf(out, "     - %v\n", e)
		}
	}
	if !report.Valid() {
		return false
	}
	fmt.Fprintln(out, "  ✅ Valid")

	if verbose {
		tasks, err := a.manager(false).List("")
		if err != nil {
			fmt.Fprintf(out, "  ❌ Load error: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "  Tasks: %d\n", len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(out, "    - [%s] %d: %s\n", t.Status, t.ID, t.Description)
		}
	}
	return true
}

func (a *app) checkActivityLog(verbose bool) bool {
	out := a.out
	if !a.cfg.ActivityLog {
		fmt.Fprintln(out, "Activity log: disabled")
		return true
	}

	path, err := logging.ActivityLogPath(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintln(out, "Activity log:")
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "Activity log: %s\n", path)

	logs, err := logging.FindActivityLogs(filepath.Dir(path))
	if err != nil {
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		return false
	}
	if len(logs) == 0 {
		fmt.Fprintln(out, "  ⚠️  Not found (created on first change)")
		return true
	}
	fmt.Fprintf(out, "  ✅ OK (%d files)\n", len(logs))
	if verbose {
		for _, l := range logs {
			label := "current"
			if l.Rotated {
				label = "rotated"
			}
			fmt.Fprintf(out, "    - %s (%s, %d bytes, %s)\n", l.Path, label, l.Size, l.ModTime.Format("2006-01-02 15:04:05"))
		}
	}
	return true
}
