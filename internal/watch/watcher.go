// pattern: Imperative Shell

package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"casemv/internal/logging"
	"casemv/internal/pathseg"
	"casemv/internal/rename"
)

// Handler receives each flushed batch of intents. It runs on the watcher
// goroutine, so batches never overlap.
type Handler func(ctx context.Context, intents []rename.Intent)

// Watcher registers every directory under its roots and relays paired
// rename notifications to a Handler.
type Watcher struct {
	fsw    *fsnotify.Watcher
	roots  []string
	ignore map[string]bool
	settle time.Duration
	pairer *Pairer
	handle Handler
	now    func() time.Time
	logger *logging.ScopedLogger
}

type Options struct {
	Roots  []string
	Ignore []string
	Settle time.Duration
	Logger *logging.ScopedLogger
}

func New(opts Options, handle Handler) (*Watcher, error) {
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("no directories to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignore[name] = true
	}
	return &Watcher{
		fsw:    fsw,
		roots:  opts.Roots,
		ignore: ignore,
		settle: opts.Settle,
		pairer: NewPairer(opts.Settle),
		handle: handle,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Register adds every root tree to the underlying watcher. Run calls it;
// it is exported so callers can fail fast before blocking.
func (w *Watcher) Register() error {
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("cannot watch %s: not a directory", root)
		}
		if err := w.addTree(root); err != nil {
			return err
		}
		w.logger.Info("watching", "root", root)
	}
	return nil
}

// WatchList returns the directories currently registered.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtrees are skipped, the root must be readable
			if p == root {
				return err
			}
			w.logger.Warn("skipping directory", "path", p, "error", err)
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.ignore[d.Name()] {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// Run relays intents until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	if len(w.fsw.WatchList()) == 0 {
		if err := w.Register(); err != nil {
			return err
		}
	}

	timer := time.NewTimer(w.settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignore[filepath.Base(event.Name)] {
				continue
			}
			w.record(event)
			timer.Reset(w.settle)

		case <-timer.C:
			if intents := w.pairer.Flush(w.now()); len(intents) > 0 {
				w.logger.Debug("relaying batch", "intents", len(intents))
				w.handle(ctx, intents)
			}
			if w.pairer.Pending() > 0 {
				timer.Reset(w.settle)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) record(event fsnotify.Event) {
	p := pathseg.NormalizeHostPath(event.Name)
	switch {
	case event.Has(fsnotify.Rename):
		w.pairer.Add(Event{Kind: EventRename, Path: p, At: w.now()})
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
		w.pairer.Add(Event{Kind: EventCreate, Path: p, At: w.now()})
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
