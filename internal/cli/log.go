// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"casemv/internal/logging"
)

// RegisterLogCommands registers the log command group commands.
func RegisterLogCommands(group *Group, opts Options) {
	group.AddCommand(&Command{
		Name:    "path",
		Summary: "Print the log file location",
		Usage:   "Usage: casemv log path",
		Run: func(args []string) error {
			fmt.Fprintln(opts.Stdout, LogPath(ResolveDataDir(opts.ConfigDir)))
			return nil
		},
	})

	group.AddCommand(&Command{
		Name:    "tail",
		Summary: "Follow the log file",
		Usage:   "Usage: casemv log tail [--from-start]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("log tail", flag.ContinueOnError)
			fs.SetOutput(opts.Stderr)
			fromStart := fs.Bool("from-start", false, "print existing entries first")
			if err := fs.Parse(args); err != nil {
				fmt.Fprintf(opts.Stderr, "Usage: casemv log tail [--from-start]\n")
				return ErrUsage
			}

			path := LogPath(ResolveDataDir(opts.ConfigDir))
			tailer, err := logging.NewTailer(path, *fromStart, func(entry logging.LogEntry) {
				fmt.Fprintln(opts.Stdout, entry.String())
			})
			if err != nil {
				return err
			}
			defer tailer.Close()

			if err := tailer.Start(opts.Context); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	})
}
