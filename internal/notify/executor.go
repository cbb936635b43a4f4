package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var errEmptyCommand = errors.New("empty command")

// Result describes a process that started and exited. A nonzero ExitCode is
// still a completed execution.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs an argument vector. The returned error is reserved for
// launch failures such as a missing executable.
type Executor interface {
	Execute(ctx context.Context, argv []string) (Result, error)
}

// CommandExecutor runs commands with os/exec, capturing stdout and stderr.
type CommandExecutor struct {
	// Timeout kills the child after the given duration. Zero disables it.
	Timeout time.Duration
}

// Execute implements Executor.
func (e CommandExecutor) Execute(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errEmptyCommand
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("launch %s: %w", argv[0], err)
}
