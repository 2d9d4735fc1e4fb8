// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "casemv.lock"
	pidFileName  = "casemv.pid"
)

// ErrRunning is returned when another watcher holds the lock.
var ErrRunning = errors.New("another casemv watcher is already running")

// Lock acquires an exclusive file lock for single-instance enforcement.
// Returns the flock handle (caller must defer Cleanup) or ErrRunning if
// another watcher already holds the lock.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrRunning
	}
	return fl, nil
}

// WritePID records the watcher's process id next to the lock.
func WritePID(dataDir string, pid int) error {
	return os.WriteFile(filepath.Join(dataDir, pidFileName), []byte(strconv.Itoa(pid)), 0600)
}

// ReadPID returns the recorded watcher pid, or 0 when none is recorded.
func ReadPID(dataDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, pidFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file: %w", err)
	}
	return pid, nil
}

// Cleanup removes the pid file and releases the file lock.
func Cleanup(dataDir string, fl *flock.Flock) {
	_ = os.Remove(filepath.Join(dataDir, pidFileName))
	if fl != nil {
		_ = fl.Unlock()
	}
}

// RemoveStale deletes lock and pid files left behind by a watcher that
// exited without cleaning up. It refuses while a live watcher holds the lock.
// Returns whether anything was removed.
func RemoveStale(dataDir string) (bool, error) {
	lockPath := filepath.Join(dataDir, lockFileName)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		_, pidErr := os.Stat(filepath.Join(dataDir, pidFileName))
		if os.IsNotExist(pidErr) {
			return false, nil
		}
	}

	fl, err := Lock(dataDir)
	if err != nil {
		return false, err
	}
	Cleanup(dataDir, fl)
	_ = os.Remove(lockPath)
	return true, nil
}
