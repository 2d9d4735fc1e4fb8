// pattern: Imperative Shell

package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval is the safeguard for filesystems that drop events.
const pollInterval = 2 * time.Second

// Tailer follows the JSON log file and emits each new record as a
// LogEntry. Rotation (rename or removal of the file) is handled by
// reopening the new file from its start.
type Tailer struct {
	filePath  string
	fromStart bool
	emit      func(LogEntry)
	watcher   *fsnotify.Watcher

	mu     sync.Mutex
	file   *os.File
	offset int64
	closed bool
}

// NewTailer creates a tailer for filePath. With fromStart set, existing
// records are emitted first; otherwise only records written after Start.
func NewTailer(filePath string, fromStart bool, emit func(LogEntry)) (*Tailer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Tailer{
		filePath:  filePath,
		fromStart: fromStart,
		emit:      emit,
		watcher:   watcher,
	}, nil
}

// Start follows the file until ctx is cancelled.
func (t *Tailer) Start(ctx context.Context) error {
	// Watch the directory: the file may not exist yet and is replaced on rotation.
	dir := filepath.Dir(t.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := t.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	t.mu.Lock()
	if t.openFile(!t.fromStart) == nil {
		t.readNewLines()
	}
	t.mu.Unlock()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = t.Close()
			return ctx.Err()

		case event, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(t.filePath) {
				continue
			}

			t.mu.Lock()
			switch {
			case event.Has(fsnotify.Create):
				t.closeFile()
				_ = t.openFile(false)
				t.readNewLines()
			case event.Has(fsnotify.Write):
				if t.file == nil {
					_ = t.openFile(false)
				}
				t.readNewLines()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				t.readNewLines()
				t.closeFile()
			}
			t.mu.Unlock()

		case <-ticker.C:
			t.mu.Lock()
			if t.file == nil {
				_ = t.openFile(false)
			}
			t.readNewLines()
			t.mu.Unlock()

		case _, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// openFile opens the log file, optionally positioned at its end.
func (t *Tailer) openFile(seekToEnd bool) error {
	if t.file != nil {
		return nil
	}

	file, err := os.Open(t.filePath)
	if err != nil {
		return err
	}

	var offset int64
	if seekToEnd {
		offset, err = file.Seek(0, io.SeekEnd)
		if err != nil {
			_ = file.Close()
			return err
		}
	}

	t.file = file
	t.offset = offset
	return nil
}

func (t *Tailer) closeFile() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
		t.offset = 0
	}
}

// readNewLines emits complete records appended since the last read.
// A trailing partial line is left for the next read.
func (t *Tailer) readNewLines() {
	if t.file == nil {
		return
	}
	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return
	}

	reader := bufio.NewReader(t.file)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		t.offset += int64(len(line))
		if len(line) <= 1 {
			continue
		}
		if entry, perr := ParseEntry(line); perr == nil {
			t.emit(entry)
		}
	}
}

// Close stops the tailer and releases resources.
func (t *Tailer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.closeFile()
	return t.watcher.Close()
}
