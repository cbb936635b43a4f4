package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Data directory", statusOK, "/data (read ok)", false)
	if !strings.Contains(line, "Data directory:") || !strings.HasSuffix(line, "[OK] /data (read ok)") {
		t.Fatalf("unexpected line %q", line)
	}

	colored := renderStatusLine("Lock directory", statusError, "missing", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}

func TestShouldColorizeNonTTY(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffer should not be colorized")
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") {
		t.Fatalf("unexpected table %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
