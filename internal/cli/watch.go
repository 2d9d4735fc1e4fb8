// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"casemv/internal/config"
	"casemv/internal/discovery"
	"casemv/internal/instance"
	"casemv/internal/rename"
	"casemv/internal/watch"
)

func runWatchCommand(opts Options, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	quiet := fs.BoolP("quiet", "q", false, "do not echo log entries to stderr")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(opts.Stderr, "Usage: casemv watch [root...] [--quiet]\n")
		return ErrUsage
	}

	rt, err := opts.newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	// Acquire single-instance lock
	fl, err := instance.Lock(rt.dataDir)
	if err != nil {
		if errors.Is(err, instance.ErrRunning) {
			return fmt.Errorf("%w (run \"casemv cleanup\" if it crashed)", err)
		}
		return err
	}
	defer instance.Cleanup(rt.dataDir, fl)
	if err := instance.WritePID(rt.dataDir, os.Getpid()); err != nil {
		rt.app.Warn("failed to write pid file", "error", err)
	}

	ctx, cancel := context.WithCancel(opts.Context)
	defer cancel()

	if !*quiet {
		go rt.logs.Echo(ctx, opts.Stderr)
	}

	roots := watchRoots(ctx, rt, fs.Args())
	if len(roots) == 0 {
		return fmt.Errorf("nothing to watch: pass directories or set watch.roots / watch.scan_paths")
	}

	logger := rt.logs.For("watch")
	w, err := watch.New(watch.Options{
		Roots:  roots,
		Ignore: rt.cfg.Watch.Ignore,
		Settle: rt.cfg.SettleWindow(),
		Logger: logger,
	}, func(ctx context.Context, intents []rename.Intent) {
		results := rt.orch.Process(ctx, intents)
		s := rename.Summarize(results)
		logger.Info("batch processed", "renamed", s.Renamed, "skipped", s.Skipped, "failed", s.Failed)
	})
	if err != nil {
		return err
	}
	if err := w.Register(); err != nil {
		_ = w.Close()
		return err
	}

	rt.app.Info("watcher started", "roots", len(roots), "pid", os.Getpid())
	err = w.Run(ctx)
	rt.app.Info("watcher stopped")
	return err
}

// watchRoots combines explicit roots, or configured roots when none are
// given, with repositories discovered under the scan paths.
func watchRoots(ctx context.Context, rt *runtime, args []string) []string {
	roots := config.ResolvePaths(args)
	if len(roots) == 0 {
		roots = config.ResolvePaths(rt.cfg.Watch.Roots)
	}

	if scanPaths := config.ResolvePaths(rt.cfg.Watch.ScanPaths); len(scanPaths) > 0 {
		scanner := discovery.NewScanner(rt.git, rt.app)
		repos := scanner.ScanAll(ctx, scanPaths)
		rt.app.Info("discovered repositories", "count", len(repos), "scan_paths", scanPaths)
		roots = append(roots, discovery.Roots(repos)...)
	}

	seen := make(map[string]bool, len(roots))
	unique := roots[:0]
	for _, r := range roots {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	return unique
}
