// Package metrics exports the outcome of a notification run in the
// Prometheus textfile-collector format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aqmsnotify/internal/notify"
)

const namespace = "aqmsnotify"

// Outcome labels.
const (
	OutcomeCompleted   = "completed"
	OutcomeLaunchError = "launch_error"
	OutcomeSkipped     = "skipped"
)

// Outcome classifies a report for the outcome label.
func Outcome(report *notify.Report) string {
	if report == nil || len(report.Attempts) == 0 {
		return OutcomeSkipped
	}
	if !report.Attempts[0].Launched() {
		return OutcomeLaunchError
	}
	return OutcomeCompleted
}

// Registry builds a registry describing report. Each run fully replaces the
// previous textfile, so every metric describes the last run only.
func Registry(report *notify.Report, now time.Time) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last notification run finished",
	})
	outcome := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_outcome",
		Help:      "Outcome of the last notification run (1 for the reported outcome)",
	}, []string{"action", "mode", "outcome"})
	exitCode := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_exit_code",
		Help:      "Exit code of the last launched notification command",
	}, []string{"action", "mode"})
	attempts := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_attempts",
		Help:      "Commands attempted by the last notification run",
	})
	reg.MustRegister(lastRun, outcome, exitCode, attempts)

	lastRun.Set(float64(now.Unix()))
	if report == nil {
		outcome.WithLabelValues("", "", OutcomeSkipped).Set(1)
		return reg
	}

	attempts.Set(float64(len(report.Attempts)))
	action := ""
	if len(report.Attempts) > 0 {
		first := report.Attempts[0]
		action = first.Action
		if first.Launched() {
			exitCode.WithLabelValues(first.Action, string(report.Mode)).Set(float64(first.ExitCode))
		}
	}
	outcome.WithLabelValues(action, string(report.Mode), Outcome(report)).Set(1)
	return reg
}

// WriteTextfile renders report into path atomically.
func WriteTextfile(path string, report *notify.Report, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry(report, now)); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
