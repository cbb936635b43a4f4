package preflight

import (
	"aqmsnotify/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Warning marks a result that passed with a caveat.
	Warning bool
	Detail  string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked)
	results = append(results, CheckReadableDirectory("Data directory", cfg.Paths.DataDir))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckWritableDirectory("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Paths.LockDir != "" {
		results = append(results, CheckWritableDirectory("Lock directory", cfg.Paths.LockDir))
	}

	if err := cfg.ValidateActions(); err != nil {
		results = append(results, Result{Name: "Notify actions", Detail: err.Error()})
	}
	results = append(results, CheckActions(cfg.Actions())...)

	for _, warning := range cfg.Warnings() {
		results = append(results, Result{Name: "Config", Passed: true, Warning: true, Detail: warning})
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
