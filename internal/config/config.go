// pattern: Imperative Shell

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	fileName = "config.yaml"
	appName  = "casemv"

	// DefaultRepositoryURL receives issue reports unless overridden.
	DefaultRepositoryURL = "https://github.com/casemv/casemv"
)

// Interactive modes for error reporting.
const (
	InteractiveAuto   = "auto"   // prompt when attached to a terminal
	InteractiveAlways = "always" // always prompt
	InteractiveNever  = "never"  // print to stderr only
)

type Config struct {
	LogLevel      string      `yaml:"log_level"`
	Theme         string      `yaml:"theme"`
	GitBinary     string      `yaml:"git_binary"`
	RepositoryURL string      `yaml:"repository_url"`
	Interactive   string      `yaml:"interactive"`
	Watch         WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Roots     []string `yaml:"roots"`
	ScanPaths []string `yaml:"scan_paths"`
	Ignore    []string `yaml:"ignore"`
	SettleMS  int      `yaml:"settle_ms"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		Theme:         "mocha",
		GitBinary:     "git",
		RepositoryURL: DefaultRepositoryURL,
		Interactive:   InteractiveAuto,
		Watch: WatchConfig{
			Ignore:   []string{".git", "node_modules"},
			SettleMS: 150,
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, fileName))
}

// LoadFrom reads the file at configPath. A missing file yields defaults;
// keys absent from the file keep their default values.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", configPath, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults refills values the file explicitly emptied.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.GitBinary == "" {
		c.GitBinary = def.GitBinary
	}
	if c.RepositoryURL == "" {
		c.RepositoryURL = def.RepositoryURL
	}
	if c.Interactive == "" {
		c.Interactive = def.Interactive
	}
	if c.Watch.SettleMS == 0 {
		c.Watch.SettleMS = def.Watch.SettleMS
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.Interactive {
	case InteractiveAuto, InteractiveAlways, InteractiveNever:
	default:
		return fmt.Errorf("interactive must be %q, %q or %q, got %q",
			InteractiveAuto, InteractiveAlways, InteractiveNever, c.Interactive)
	}

	if c.Watch.SettleMS < 0 {
		return fmt.Errorf("watch.settle_ms must not be negative, got %d", c.Watch.SettleMS)
	}

	u, err := url.Parse(c.RepositoryURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("repository_url must be an http(s) URL, got %q", c.RepositoryURL)
	}
	return nil
}

// SettleWindow is how long the watcher waits to pair rename events.
func (c *Config) SettleWindow() time.Duration {
	return time.Duration(c.Watch.SettleMS) * time.Millisecond
}

// ResolvePaths expands a leading ~ and makes each path absolute.
func ResolvePaths(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		p = expandHome(p)
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		resolved = append(resolved, p)
	}
	return resolved
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// DefaultDir returns the directory holding config, lock and log files.
func DefaultDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}

	return filepath.Join(home, ".config", appName)
}

func getConfigPath() string {
	return filepath.Join(DefaultDir(), fileName)
}
