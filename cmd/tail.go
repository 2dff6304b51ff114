package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/nibzard/taskcli/internal/logging"
)

// tailCommand shows the activity log for the current project.
func (a *app) tailCommand(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("taskcli tail", flag.ContinueOnError)
	flags.SetOutput(a.errOut)
	follow := flags.Bool("f", false, "Follow the log (like tail -f)")
	flags.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	lines := flags.Int("n", 20, "Number of lines to show (0 = all)")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *lines < 0 {
		return fmt.Errorf("-n must be non-negative")
	}

	path, err := logging.ActivityLogPath(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(a.out, "No activity log found.")
			return nil
		}
		return err
	}

	if *follow {
		fmt.Fprintf(a.out, "Tailing: %s\n", path)
		fmt.Fprintln(a.out, "(Ctrl+C to stop)")
		fmt.Fprintln(a.out)
	}
	return logging.TailLog(ctx, a.out, path, *lines, *follow)
}
