package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aqmsnotify/internal/eventdata"
)

func TestNotifyRunsActionAndRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeEvent(t, "ci38457511")

	if _, _, err := runCLI(t, []string{"notify", "ci38457511", "-d", "--extra"}, env.configPath); err != nil {
		t.Fatalf("notify: %v", err)
	}

	calls := env.calls(t)
	if len(calls) != 1 || calls[0] != "notify 38457511" {
		t.Fatalf("unexpected calls %q", calls)
	}

	prom, err := os.ReadFile(env.promPath)
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	requireContains(t, string(prom), `aqmsnotify_last_exit_code{action="aqms",mode="notify"} 0`)

	out, _, err := runCLI(t, []string{"history", "ci38457511"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "ci38457511")
	requireContains(t, out, "notify")
}

func TestNotifyCancelRunsUndo(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeEvent(t, "ci38457511")

	if _, _, err := runCLI(t, []string{"notify", "--cancel", "ci38457511"}, env.configPath); err != nil {
		t.Fatalf("notify --cancel: %v", err)
	}
	calls := env.calls(t)
	if len(calls) != 1 || calls[0] != "cancel 38457511" {
		t.Fatalf("unexpected calls %q", calls)
	}
}

func TestNotifyArgumentsAfterEventAreNotFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeEvent(t, "ci38457511")

	// -c after the event id belongs to the caller, not to --cancel.
	if _, _, err := runCLI(t, []string{"notify", "ci38457511", "-c"}, env.configPath); err != nil {
		t.Fatalf("notify: %v", err)
	}
	calls := env.calls(t)
	if len(calls) != 1 || !strings.HasPrefix(calls[0], "notify ") {
		t.Fatalf("expected notify command, got %q", calls)
	}
}

func TestNotifyMissingEventFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"notify", "ci00000000"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing event directory")
	}
	requireContains(t, err.Error(), "ci00000000")
	if calls := env.calls(t); len(calls) != 0 {
		t.Fatalf("expected no commands, got %q", calls)
	}
}

func TestNotifyMissingEventReportedBeforeInvalidActions(t *testing.T) {
	env := setupCLITestEnv(t)
	env.appendConfig(t, "\n[notify.zz]\nundo_command = \"/bin/true <EVENT>\"\n")

	_, _, err := runCLI(t, []string{"notify", "ci00000000"}, env.configPath)
	if !errors.Is(err, eventdata.ErrDirectoryNotFound) {
		t.Fatalf("expected directory-not-found, got %v", err)
	}

	_, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "notify.zz.command must be set") {
		t.Fatalf("expected config validate to reject notify.zz, got %v", err)
	}
}

func TestNotifyCancelWithEmptyUndoLaunchesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeEvent(t, "ci38457511")
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "undo_command") {
			lines[i] = `undo_command = ""`
		}
	}
	if err := os.WriteFile(env.configPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"notify", "-c", "ci38457511"}, env.configPath); err != nil {
		t.Fatalf("notify -c: %v", err)
	}
	if calls := env.calls(t); len(calls) != 0 {
		t.Fatalf("expected no commands, got %q", calls)
	}

	out, _, err := runCLI(t, []string{"history", "ci38457511"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "cancel")
}

func TestNotifyRequiresEventID(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"notify"}, env.configPath); err == nil {
		t.Fatal("expected usage error without EVENTID")
	}
}

func TestActionsListsConfiguredActions(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"actions"}, env.configPath)
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	requireContains(t, out, "aqms")
	requireContains(t, out, filepath.Join(env.baseDir, "aqms_done")+" <EVENT>")
	requireContains(t, out, filepath.Join(env.baseDir, "aqms_cancel")+" <EVENT>")
}

func TestCheckPassesWithStubbedBinaries(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Data directory:")
	requireContains(t, out, "notify.aqms.undo_command:")
}

func TestCheckFailsForMissingDataDir(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.dataDir); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, out, "[ERROR]")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Notify actions: 1")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	updated := strings.Replace(string(content), "enabled = true", "enabled = false", 1)
	if err := os.WriteFile(env.configPath, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err == nil {
		t.Fatal("expected error when history is disabled")
	}
}
