// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tcnksm/go-latest"

	"casemv/internal/config"
	"casemv/internal/git"
	"casemv/internal/logging"
	"casemv/internal/notify"
	"casemv/internal/rename"
)

const logFileName = "casemv.log"

// Options carries process-wide inputs into the commands.
type Options struct {
	Version   string
	ConfigDir string
	Context   context.Context

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Executor replaces the git executor (for testing).
	Executor git.Executor
	// Notifier replaces the notifier chosen from config (for testing).
	Notifier rename.Notifier
	// LookPath locates the git binary. Defaults to exec.LookPath.
	LookPath git.LookPathFunc
	// Release is queried by "version --check".
	Release latest.Source
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	return o
}

// ResolveDataDir returns the directory for config, lock and log files.
// If configDir is specified, uses that; otherwise the default config dir.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	return config.DefaultDir()
}

// LogPath returns the rotated log file inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, logFileName)
}

// loadConfig loads the configuration from the specified directory or the
// default location. A malformed file is reported and defaults are used.
func (o Options) loadConfig() config.Config {
	var (
		cfg config.Config
		err error
	)
	if o.ConfigDir != "" {
		cfg, err = config.LoadFromDir(o.ConfigDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(o.Stderr, "Warning: failed to load config: %v\n", err)
	}
	return cfg
}

// runtime holds the collaborators shared by the rename commands.
type runtime struct {
	cfg     config.Config
	dataDir string
	logs    *logging.Manager
	git     *git.Client
	orch    *rename.Orchestrator
	app     *logging.ScopedLogger
}

func (o Options) newRuntime() (*runtime, error) {
	cfg := o.loadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dataDir := ResolveDataDir(o.ConfigDir)
	logs, err := logging.NewManager(logging.Config{
		FilePath:       LogPath(dataDir),
		MaxSizeMB:      10,
		MaxBackups:     3,
		MaxAgeDays:     7,
		ChannelBufSize: 1000,
		Level:          cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	var client *git.Client
	if o.Executor != nil {
		client = git.NewClientWithExecutor(cfg.GitBinary, o.Executor, logs.For("git"))
	} else {
		if err := git.Check(cfg.GitBinary, o.LookPath); err != nil {
			_ = logs.Close()
			return nil, err
		}
		client = git.NewClient(cfg.GitBinary, logs.For("git"))
	}

	notifier := o.Notifier
	if notifier == nil {
		notifier = notify.New(cfg, logs.For("notify"))
	}

	return &runtime{
		cfg:     cfg,
		dataDir: dataDir,
		logs:    logs,
		git:     client,
		orch:    rename.NewOrchestrator(client, notifier, logs.For("rename")),
		app:     logs.For("app"),
	}, nil
}

func (r *runtime) Close() {
	_ = r.logs.Close()
}
