package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_GatedOnVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output when quiet, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %d", 2)
	if got := buf.String(); got != "debug: shown 2\n" {
		t.Errorf("unexpected debug output: %q", got)
	}
}

func TestInfo_GatedOnVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output when quiet, got %q", buf.String())
	}

	SetVerbose(true)
	Info("indexed %d chunks", 7)
	if got := buf.String(); got != "indexed 7 chunks\n" {
		t.Errorf("unexpected info output: %q", got)
	}
}

func TestSection_GatedOnVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Ingestion")
	if got := buf.String(); !strings.Contains(got, "--- Ingestion ---") {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestWarn_NeverSuppressed(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Warn("skipping %s", "broken.pdf")
	if got := buf.String(); got != "warning: skipping broken.pdf\n" {
		t.Errorf("expected warning in quiet mode, got %q", got)
	}
}
