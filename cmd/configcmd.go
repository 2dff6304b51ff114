package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/taskcli/internal/config"
)

// configCommand prints the effective configuration and where each value came from.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("taskcli config", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	if file := a.sources.ConfigFile(); file != "" {
		fmt.Fprintf(a.out, "# config file: %s\n", file)
	} else {
		fmt.Fprintf(a.out, "# no config file (user config path: %s)\n", config.UserConfigPath())
	}
	for _, f := range a.sources.Fields() {
		fmt.Fprintf(a.out, "%s = %v  # %s\n", f.Key, formatValue(f.Value), f.Source)
	}
	return nil
}

func formatValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
