// pattern: Imperative Shell
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"casemv/internal/instance"
	"casemv/internal/pathseg"
	"casemv/internal/rename"
)

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(opts Options) *App {
	opts = opts.withDefaults()
	app := NewApp(opts.Version, opts.Stderr)

	app.AddCommand(&Command{
		Name:    "rename",
		Summary: "Relay one case-only rename through git",
		Usage:   "Usage: casemv rename <old-path> <new-path>",
		Run: func(args []string) error {
			if len(args) != 2 {
				fmt.Fprintf(opts.Stderr, "Usage: casemv rename <old-path> <new-path>\n")
				return ErrUsage
			}
			intent := NormalizeIntent(rename.Intent{OldPath: absPath(args[0]), NewPath: absPath(args[1])})
			return runIntents(opts, []rename.Intent{intent})
		},
	})

	app.AddCommand(&Command{
		Name:    "batch",
		Summary: "Relay renames from a JSON rename event (file or stdin)",
		Usage:   "Usage: casemv batch [file|-]",
		Run: func(args []string) error {
			return runBatchCommand(opts, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "watch",
		Summary: "Watch directories and relay case-only renames as they happen",
		Usage:   "Usage: casemv watch [root...] [--quiet]",
		Run: func(args []string) error {
			return runWatchCommand(opts, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "probe",
		Summary: "Show repository root and tracking status of a path",
		Usage:   "Usage: casemv probe <path>",
		Run: func(args []string) error {
			if len(args) != 1 {
				fmt.Fprintf(opts.Stderr, "Usage: casemv probe <path>\n")
				return ErrUsage
			}
			return runProbeCommand(opts, args[0])
		},
	})

	app.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove stale lock files from a crashed watcher",
		Usage:   "Usage: casemv cleanup",
		Run: func(args []string) error {
			return runCleanupCommand(opts)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: casemv version [--check]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("version", flag.ContinueOnError)
			fs.SetOutput(opts.Stderr)
			check := fs.Bool("check", false, "check for a newer release")
			if err := fs.Parse(args); err != nil {
				return ErrUsage
			}
			fmt.Fprintln(opts.Stdout, opts.Version)
			if *check {
				checkRelease(opts)
			}
			return nil
		},
	})

	logGroup := app.AddGroup("log", "Inspect the casemv log file")
	RegisterLogCommands(logGroup, opts)

	return app
}

// FailedError reports how many intents of a run failed.
type FailedError struct {
	Failed int
}

func (e *FailedError) Error() string {
	if e.Failed == 1 {
		return "1 rename failed"
	}
	return fmt.Sprintf("%d renames failed", e.Failed)
}

func runIntents(opts Options, intents []rename.Intent) error {
	rt, err := opts.newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	results := rt.orch.Process(opts.Context, intents)
	PrintResults(opts.Stdout, results)

	if s := rename.Summarize(results); s.Failed > 0 {
		return &FailedError{Failed: s.Failed}
	}
	return nil
}

func runBatchCommand(opts Options, args []string) error {
	if len(args) > 1 {
		fmt.Fprintf(opts.Stderr, "Usage: casemv batch [file|-]\n")
		return ErrUsage
	}

	var in io.Reader = opts.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening rename event: %w", err)
		}
		defer f.Close()
		in = f
	}

	intents, err := ParseBatch(in)
	if err != nil {
		return err
	}
	return runIntents(opts, intents)
}

func runProbeCommand(opts Options, target string) error {
	rt, err := opts.newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	abs := absPath(target)
	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	ctx := opts.Context
	fmt.Fprintf(opts.Stdout, "path:       %s\n", abs)
	if !rt.git.IsRepository(ctx, dir) {
		fmt.Fprintf(opts.Stdout, "repository: no\n")
		return nil
	}

	root, err := rt.git.ResolveRoot(ctx, dir)
	if err != nil {
		return err
	}
	rel := pathseg.Relative(pathseg.NormalizeHostPath(abs), root)
	fmt.Fprintf(opts.Stdout, "repository: yes\n")
	fmt.Fprintf(opts.Stdout, "root:       %s\n", root)
	fmt.Fprintf(opts.Stdout, "relative:   %s\n", rel)

	if rel == "" {
		return nil
	}
	untracked, err := rt.git.IsUntracked(ctx, root, rel)
	if err != nil {
		return err
	}
	fmt.Fprintf(opts.Stdout, "untracked:  %s\n", yesNo(untracked))
	return nil
}

// runCleanupCommand removes stale lock and pid files from a crashed watcher.
func runCleanupCommand(opts Options) error {
	dataDir := ResolveDataDir(opts.ConfigDir)

	removed, err := instance.RemoveStale(dataDir)
	if errors.Is(err, instance.ErrRunning) {
		pid, _ := instance.ReadPID(dataDir)
		if pid > 0 {
			return fmt.Errorf("a casemv watcher appears to be running (pid %d), stop it first", pid)
		}
		return fmt.Errorf("a casemv watcher appears to be running, stop it first")
	}
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(opts.Stdout, "Cleaned up stale lock and pid files.")
	} else {
		fmt.Fprintln(opts.Stdout, "Nothing to clean up.")
	}
	return nil
}

func checkRelease(opts Options) {
	source := opts.Release
	if source == nil {
		source = &latest.GithubTag{Owner: "casemv", Repository: "casemv"}
	}
	res, err := latest.Check(source, opts.Version)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "Warning: release check failed: %v\n", err)
		return
	}
	if res.Outdated {
		fmt.Fprintf(opts.Stdout, "A new version is available: %s (you have %s)\n", res.Current, opts.Version)
		return
	}
	fmt.Fprintf(opts.Stdout, "You are using the latest version: %s\n", opts.Version)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
