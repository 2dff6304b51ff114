package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/taskcli/internal/task"
)

const listRule = "----------------------------------------"

// addCommand adds a task. Extra words are joined so unquoted descriptions work.
func (a *app) addCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: taskcli add <description>")
	}
	t, err := a.manager(true).Add(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task added: %s\n", formatRow(t))
	return nil
}

// listCommand prints tasks, optionally filtered by status.
func (a *app) listCommand(args []string) error {
	fs := flag.NewFlagSet("taskcli list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	status := fs.String("status", "", "Filter by status")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	switch len(positional) {
	case 0:
	case 1:
		if *status != "" && *status != positional[0] {
			return fmt.Errorf("conflicting status filters: %q and %q", *status, positional[0])
		}
		*status = positional[0]
	default:
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}

	tasks, err := a.manager(false).List(*status)
	if err != nil {
		return err
	}

	if *asJSON {
		return task.Export(a.out, tasks, task.FormatJSON)
	}

	if len(tasks) == 0 {
		if *status != "" {
			fmt.Fprintf(a.out, "No tasks found with status: %s.\n", *status)
		} else {
			fmt.Fprintln(a.out, "No tasks found.")
		}
		return nil
	}

	fmt.Fprintf(a.out, "\nListing %d tasks:\n", len(tasks))
	fmt.Fprintln(a.out, listRule)
	for _, t := range tasks {
		fmt.Fprintln(a.out, formatRow(t))
	}
	fmt.Fprint(a.out, "\n\n")
	return nil
}

// updateCommand replaces a task's description.
func (a *app) updateCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: taskcli update <id> <description>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	t, err := a.manager(true).Update(id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task updated: %s\n", formatRow(t))
	return nil
}

// deleteCommand removes a task.
func (a *app) deleteCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskcli delete <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if _, err := a.manager(true).Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task deleted: %d\n", id)
	return nil
}

// markCommand handles mark-in-progress and mark-done.
func (a *app) markCommand(op task.Op, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskcli %s <id>", op)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	m := a.manager(true)
	switch op {
	case task.OpMarkInProgress:
		if _, err := m.MarkInProgress(id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Task marked as in progress: %d\n", id)
	case task.OpMarkDone:
		if _, err := m.MarkDone(id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Task marked as done: %d\n", id)
	default:
		return fmt.Errorf("unsupported operation: %s", op)
	}
	return nil
}

// parseInterspersed parses flags that may appear before or after positional
// arguments and returns the positional arguments in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func parseID(text string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid task ID: %s", text)
	}
	return id, nil
}

func formatRow(t task.Task) string {
	return fmt.Sprintf("%d - %s - %s", t.ID, t.Description, t.Status)
}
