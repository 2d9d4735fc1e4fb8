// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"casemv/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses global flags, dispatches the command and maps its outcome to
// an exit code: 0 on success, 1 on failure, 2 on usage errors.
func run(args []string) int {
	fs := flag.NewFlagSet("casemv", flag.ContinueOnError)
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	fs.SetInterspersed(false)

	configDir := fs.StringP("config-dir", "c", "", "config directory (default: ~/.config/casemv)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := func() cli.Options {
		return cli.Options{Version: version, ConfigDir: *configDir, Context: ctx}
	}

	// Override Usage before Parse so --help uses the CLI app's help
	fs.Usage = func() {
		cli.BuildApp(opts()).PrintHelp(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	err := cli.BuildApp(opts()).Execute(fs.Args())
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrUsage):
		return 2
	default:
		var failed *cli.FailedError
		if !errors.As(err, &failed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
}
