package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testEventXML = `<?xml version="1.0" encoding="UTF-8"?>
<earthquake id="%s" netid="ci" network="CI" lat="35.7695" lon="-117.5993" depth="8.0" mag="7.1" time="2019-07-06T03:19:53.040Z" locstring="Ridgecrest" event_type="ACTUAL"/>
`

type cliTestEnv struct {
	baseDir     string
	dataDir     string
	configPath  string
	historyPath string
	promPath    string
	outPath     string
}

// setupCLITestEnv writes a config whose single action records its argv into
// outPath.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("AQMSNOTIFY_DATA_DIR", "")

	env := &cliTestEnv{
		baseDir:     base,
		dataDir:     filepath.Join(base, "data"),
		configPath:  filepath.Join(base, "config.toml"),
		historyPath: filepath.Join(base, "state", "history.db"),
		promPath:    filepath.Join(base, "textfile", "aqmsnotify.prom"),
		outPath:     filepath.Join(base, "called.txt"),
	}
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}

	done := writeStub(t, base, "aqms_done", "notify")
	undo := writeStub(t, base, "aqms_cancel", "cancel")

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
lock_dir = %q

[logging]
level = "error"

[history]
enabled = true
path = %q

[metrics]
textfile = %q

[notify.aqms]
command = "%s <EVENT>"
undo_command = "%s <EVENT>"
`,
		env.dataDir,
		filepath.Join(base, "logs"),
		filepath.Join(base, "locks"),
		env.historyPath,
		env.promPath,
		done,
		undo,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// writeStub creates a script that appends "<tag> <args>" to called.txt.
func writeStub(t *testing.T, dir, name, tag string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := fmt.Sprintf("#!/bin/sh\necho \"%s $*\" >> %q\n", tag, filepath.Join(dir, "called.txt"))
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func (e *cliTestEnv) writeEvent(t *testing.T, eventID string) {
	t.Helper()
	dir := filepath.Join(e.dataDir, eventID, "current")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir event: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "event.xml"), []byte(fmt.Sprintf(testEventXML, eventID)), 0o644); err != nil {
		t.Fatalf("write event.xml: %v", err)
	}
}

func (e *cliTestEnv) appendConfig(t *testing.T, extra string) {
	t.Helper()
	f, err := os.OpenFile(e.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(extra); err != nil {
		t.Fatalf("append config: %v", err)
	}
}

func (e *cliTestEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.outPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read calls: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
