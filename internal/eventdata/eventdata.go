package eventdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// CurrentDir is the per-event subdirectory holding the active product inputs.
	CurrentDir = "current"
	// EventFile is the origin description ShakeMap writes for every event.
	EventFile = "event.xml"
)

var (
	// ErrDirectoryNotFound reports a missing <data_dir>/<eventid>/current directory.
	ErrDirectoryNotFound = errors.New("event data directory not found")
	// ErrFileNotFound reports a missing event.xml inside the data directory.
	ErrFileNotFound = errors.New("event file not found")
	// ErrInvalidEventID reports an event identifier that cannot name a directory.
	ErrInvalidEventID = errors.New("invalid event id")
)

// NotFoundError captures which piece of the event data layout is missing.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if errors.Is(e.Err, ErrDirectoryNotFound) {
		return fmt.Sprintf("%s is not a valid directory", e.Path)
	}
	return fmt.Sprintf("%s does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for callers that map kinds to exit behavior.
func (e *NotFoundError) ErrorKind() string {
	if errors.Is(e.Err, ErrDirectoryNotFound) {
		return "directory_not_found"
	}
	return "file_not_found"
}

// Location points at an event's data directory and origin file.
type Location struct {
	EventID   string
	Dir       string
	EventFile string
}

// Locate resolves <dataDir>/<eventID>/current/event.xml, verifying that the
// directory and file both exist. Nothing is created.
func Locate(dataDir, eventID string) (Location, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidEventID)
	}
	if strings.ContainsAny(eventID, `/\`) || eventID == "." || eventID == ".." {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidEventID, eventID)
	}

	dir := filepath.Join(dataDir, eventID, CurrentDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Location{}, &NotFoundError{Path: dir, Err: ErrDirectoryNotFound}
	}

	file := filepath.Join(dir, EventFile)
	info, err = os.Stat(file)
	if err != nil || !info.Mode().IsRegular() {
		return Location{}, &NotFoundError{Path: file, Err: ErrFileNotFound}
	}

	return Location{EventID: eventID, Dir: dir, EventFile: file}, nil
}
