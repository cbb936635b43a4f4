package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EventPlaceholder is the token replaced with the external event identifier
// in action command templates.
const EventPlaceholder = "<EVENT>"

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	LockDir string `toml:"lock_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Runner contains subprocess and locking knobs for the notification runner.
type Runner struct {
	// CommandTimeout bounds each external command in seconds. Zero disables the limit.
	CommandTimeout int `toml:"command_timeout"`
	// LockTimeout bounds the wait for the per-event lock in seconds.
	LockTimeout int `toml:"lock_timeout"`
}

// History contains configuration for the attempt journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Metrics contains configuration for Prometheus textfile output.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Action describes one notification target.
type Action struct {
	Command     string `toml:"command"`
	UndoCommand string `toml:"undo_command"`
	// UndoSet records that undo_command was present in the file, even if empty.
	UndoSet bool `toml:"-"`
}

// HasUndo reports whether the action declares an undo command. A declared but
// empty undo_command still counts; cancelling then fails to launch.
func (a Action) HasUndo() bool {
	return a.UndoSet || strings.TrimSpace(a.UndoCommand) != ""
}

// NamedAction pairs an action with its configuration key.
type NamedAction struct {
	Name string
	Action
}

// Config encapsulates all configuration values for aqmsnotify.
//
// Configuration sections:
//   - Paths: event data root, log and lock directories
//   - Logging: log format and level
//   - Runner: command and lock timeouts
//   - History: optional SQLite attempt journal
//   - Metrics: optional Prometheus textfile output
//   - Notify: named actions keyed by name
type Config struct {
	Paths   Paths             `toml:"paths"`
	Logging Logging           `toml:"logging"`
	Runner  Runner            `toml:"runner"`
	History History           `toml:"history"`
	Metrics Metrics           `toml:"metrics"`
	Notify  map[string]Action `toml:"notify"`
}

// Actions returns the configured actions sorted by name, the order in which
// the runner consults them.
func (c *Config) Actions() []NamedAction {
	names := make([]string, 0, len(c.Notify))
	for name := range c.Notify {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]NamedAction, 0, len(names))
	for _, name := range names {
		actions = append(actions, NamedAction{Name: name, Action: c.Notify[name]})
	}
	return actions
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// notifyKeys captures which keys each [notify.<name>] table declares.
type notifyKeys struct {
	Notify map[string]map[string]any `toml:"notify"`
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Notify actions are not validated here; callers
// check them with ValidateActions once they actually need them.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		var keys notifyKeys
		if err := toml.Unmarshal(data, &keys); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		cfg.markDeclaredUndo(keys)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.validateSettings(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) markDeclaredUndo(keys notifyKeys) {
	for name, table := range keys.Notify {
		if _, ok := table["undo_command"]; !ok {
			continue
		}
		if action, ok := c.Notify[name]; ok {
			action.UndoSet = true
			c.Notify[name] = action
		}
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("aqmsnotify.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories aqmsnotify writes into. The event
// data directory is never created; it belongs to the ShakeMap profile.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.LockDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
