package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"aqmsnotify/internal/config"
	"aqmsnotify/internal/notify"
)

// probeEventID stands in for <EVENT> when resolving executables.
const probeEventID = "preflight"

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

// CheckWritableDirectory verifies that the directory exists and is readable/writable.
func CheckWritableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckActions resolves the executable of every command and undo command.
func CheckActions(actions []config.NamedAction) []Result {
	results := make([]Result, 0, len(actions)*2)
	for _, action := range actions {
		results = append(results, checkCommand(fmt.Sprintf("notify.%s.command", action.Name), action.Command))
		if action.HasUndo() {
			results = append(results, checkCommand(fmt.Sprintf("notify.%s.undo_command", action.Name), action.UndoCommand))
		}
	}
	return results
}

func checkCommand(name, template string) Result {
	argv := notify.BuildArgv(template, probeEventID)
	if len(argv) == 0 {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(argv[0])
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", argv[0])}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}
