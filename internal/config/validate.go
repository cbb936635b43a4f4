package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable, including every notify action.
func (c *Config) Validate() error {
	if err := c.validateSettings(); err != nil {
		return err
	}
	return c.ValidateActions()
}

// validateSettings covers everything Load needs before an event is located.
func (c *Config) validateSettings() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRunner(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must be set (or export %s)", dataDirEnv)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateRunner() error {
	if c.Runner.CommandTimeout < 0 || c.Runner.CommandTimeout > maxCommandTimeout {
		return fmt.Errorf("runner.command_timeout must be between 0 and %d seconds", maxCommandTimeout)
	}
	if c.Runner.LockTimeout < 0 || c.Runner.LockTimeout > maxLockTimeoutSecond {
		return fmt.Errorf("runner.lock_timeout must be between 0 and %d seconds", maxLockTimeoutSecond)
	}
	return nil
}

// ValidateActions checks the [notify.<name>] tables.
func (c *Config) ValidateActions() error {
	for _, action := range c.Actions() {
		if strings.TrimSpace(action.Name) == "" {
			return errors.New("notify: action names must not be empty")
		}
		if action.Command == "" {
			return fmt.Errorf("notify.%s.command must be set", action.Name)
		}
	}
	return nil
}

// Warnings reports suspicious but legal settings, such as templates that
// never reference the event placeholder.
func (c *Config) Warnings() []string {
	var warnings []string
	for _, action := range c.Actions() {
		if !strings.Contains(action.Command, EventPlaceholder) {
			warnings = append(warnings, fmt.Sprintf("notify.%s.command does not contain %s", action.Name, EventPlaceholder))
		}
		if action.UndoSet && action.UndoCommand == "" {
			warnings = append(warnings, fmt.Sprintf("notify.%s.undo_command is empty; cancel will fail to launch", action.Name))
			continue
		}
		if action.HasUndo() && !strings.Contains(action.UndoCommand, EventPlaceholder) {
			warnings = append(warnings, fmt.Sprintf("notify.%s.undo_command does not contain %s", action.Name, EventPlaceholder))
		}
	}
	if len(c.Notify) == 0 {
		warnings = append(warnings, "no notify actions configured; notify will do nothing")
	}
	return warnings
}
