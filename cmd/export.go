package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/taskcli/internal/config"
	"github.com/nibzard/taskcli/internal/task"
)

// exportCommand writes the collection in JSON, YAML or TOML.
func (a *app) exportCommand(args []string) error {
	fs := flag.NewFlagSet("taskcli export", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	formatName := fs.String("format", string(task.FormatJSON), "Output format: json, yaml, toml")
	status := fs.String("status", "", "Only export tasks with this status")
	output := fs.String("o", "", "Write to file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	format, err := task.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	tasks, err := a.manager(false).List(*status)
	if err != nil {
		return err
	}

	if *output == "" {
		return task.Export(a.out, tasks, format)
	}

	path := config.ExpandPath(*output)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := task.Export(f, tasks, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	fmt.Fprintf(a.out, "Exported %d tasks to %s\n", len(tasks), path)
	return nil
}
