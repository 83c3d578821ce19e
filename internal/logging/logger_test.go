package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestHelpersAreNoopsWithoutLogger(t *testing.T) {
	Logger = nil
	Info("ignored")
	Warn("ignored", "k", "v")
	if WithPrefix("x") == nil {
		t.Error("WithPrefix must never return nil")
	}
}

func TestSetOutputLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	t.Cleanup(func() { Logger = nil })

	Info("hidden message")
	Warn("visible message", "entries", 3)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "entries=3") {
		t.Errorf("expected warn line with keyvals, got %q", out)
	}
}

func TestSetOutputBadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "loud")
	t.Cleanup(func() { Logger = nil })

	Debug("debug line")
	Info("info line")
	if strings.Contains(buf.String(), "debug line") {
		t.Error("debug should be filtered at default info level")
	}
	if !strings.Contains(buf.String(), "info line") {
		t.Error("expected info line")
	}
}
