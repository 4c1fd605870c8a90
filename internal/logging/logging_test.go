package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")
	logger.Sync()

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("expected debug and info to be suppressed, got:\n%s", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "warn line") {
		t.Errorf("expected warning in output, got:\n%s", out)
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("debug line")
	logger.Sync()

	if !strings.Contains(buf.String(), "debug line") {
		t.Errorf("expected debug output with verbose, got:\n%s", buf.String())
	}
}
