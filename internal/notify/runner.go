package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"aqmsnotify/internal/config"
	"aqmsnotify/internal/eventdata"
	"aqmsnotify/internal/logging"
	"aqmsnotify/internal/origin"
)

// Mode distinguishes a product announcement from its cancellation.
type Mode string

const (
	ModeNotify Mode = "notify"
	ModeCancel Mode = "cancel"
)

// Request names the event to announce.
type Request struct {
	EventID string
	Cancel  bool
	// Passthrough holds arguments left over for downstream modules.
	Passthrough []string
}

func (r Request) mode() Mode {
	if r.Cancel {
		return ModeCancel
	}
	return ModeNotify
}

// Attempt records one command execution.
type Attempt struct {
	RunID      string
	EventID    string
	ExternalID string
	Action     string
	Mode       Mode
	Argv       []string
	ExitCode   int
	Stdout     string
	Stderr     string
	LaunchErr  error
	StartedAt  time.Time
	Duration   time.Duration
}

// Launched reports whether the process started.
func (a Attempt) Launched() bool { return a.LaunchErr == nil }

// CommandLine renders Argv for display.
func (a Attempt) CommandLine() string { return strings.Join(a.Argv, " ") }

// Report summarizes a run. Under the current policy at most one attempt is made.
type Report struct {
	RunID      string
	EventID    string
	ExternalID string
	EventTime  time.Time
	Mode       Mode
	Attempts   []Attempt
	// NoUndo is set when cancel stopped at an action without undo_command.
	NoUndo bool
}

// Runner executes the configured notify actions for an event.
type Runner struct {
	dataDir     string
	actions     []config.NamedAction
	actionsErr  error
	executor    Executor
	logger      *slog.Logger
	lockDir     string
	lockTimeout time.Duration
	now         func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithExecutor replaces the os/exec backed executor.
func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		if e != nil {
			r.executor = e
		}
	}
}

// WithClock overrides the time source used for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner builds a runner from configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		dataDir:     cfg.Paths.DataDir,
		actions:     cfg.Actions(),
		actionsErr:  cfg.ValidateActions(),
		executor:    CommandExecutor{Timeout: time.Duration(cfg.Runner.CommandTimeout) * time.Second},
		logger:      logging.NewComponentLogger(logger, "notify"),
		lockDir:     cfg.Paths.LockDir,
		lockTimeout: time.Duration(cfg.Runner.LockTimeout) * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run locates the event, derives the external id, and runs the first
// applicable action. The returned error covers only failures that happen
// before any command is considered (missing data, unparsable event.xml, an
// invalid notify table, lock contention). A command that fails to launch is
// logged and returned in the report, not as an error.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID, _ := logging.RunIDFromContext(ctx)
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldEventID, req.EventID))

	loc, err := eventdata.Locate(r.dataDir, req.EventID)
	if err != nil {
		return nil, err
	}

	o, err := origin.ParseFile(loc.EventFile)
	if err != nil {
		return nil, err
	}

	// Actions are only inspected once the event data is known to exist.
	if r.actionsErr != nil {
		return nil, r.actionsErr
	}

	report := &Report{
		RunID:      runID,
		EventID:    loc.EventID,
		ExternalID: ExternalID(loc.EventID, o.NetID),
		EventTime:  o.Time,
		Mode:       req.mode(),
	}
	logger.Info("event located",
		logging.String("external_id", report.ExternalID),
		logging.String("netid", o.NetID),
		logging.String("event_time", o.TimeString()),
		logging.String("mode", string(report.Mode)),
	)
	if len(req.Passthrough) > 0 {
		logger.Debug("remaining arguments passed through", logging.Strings("args", req.Passthrough))
	}

	unlock, err := r.acquireLock(ctx, loc.EventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	action, template, ok := r.selectAction(req.Cancel)
	if !ok {
		report.NoUndo = req.Cancel && len(r.actions) > 0
		return report, nil
	}

	attempt := r.attempt(ctx, report, action, template)
	report.Attempts = append(report.Attempts, attempt)

	actionLogger := logger.With(logging.String(logging.FieldAction, action))
	if !attempt.Launched() {
		actionLogger.Warn("error running command",
			logging.String("command", attempt.CommandLine()),
			logging.Error(attempt.LaunchErr),
		)
		return report, nil
	}
	actionLogger.Info("command completed",
		logging.String("command", attempt.CommandLine()),
		logging.Int("exit_code", attempt.ExitCode),
		logging.String("stdout", attempt.Stdout),
		logging.String("stderr", attempt.Stderr),
		logging.Duration("duration", attempt.Duration),
	)

	return report, nil
}

// selectAction picks the command template to run. Actions are consulted in
// sorted order but the walk never gets past the first one: a completed command
// ends the run, a launch failure halts it, and a cancel stops at the first
// action lacking undo_command. The first action therefore decides.
func (r *Runner) selectAction(cancel bool) (string, string, bool) {
	if len(r.actions) == 0 {
		return "", "", false
	}
	first := r.actions[0]
	if !cancel {
		return first.Name, first.Command, true
	}
	if !first.HasUndo() {
		return "", "", false
	}
	return first.Name, first.UndoCommand, true
}

func (r *Runner) attempt(ctx context.Context, report *Report, action, template string) Attempt {
	attempt := Attempt{
		RunID:      report.RunID,
		EventID:    report.EventID,
		ExternalID: report.ExternalID,
		Action:     action,
		Mode:       report.Mode,
		Argv:       BuildArgv(template, report.ExternalID),
		StartedAt:  r.now(),
	}

	result, err := r.executor.Execute(ctx, attempt.Argv)
	attempt.Duration = r.now().Sub(attempt.StartedAt)
	attempt.ExitCode = result.ExitCode
	attempt.Stdout = result.Stdout
	attempt.Stderr = result.Stderr
	if err != nil {
		attempt.LaunchErr = fmt.Errorf("action %s: %w", action, err)
		attempt.ExitCode = -1
	}
	return attempt
}
