package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/spellhook/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"INFO", logging.LevelInfo},
		{"warning", logging.LevelWarn},
		{"error", logging.LevelError},
		{"bogus", logging.LevelInfo},
	}

	for _, tt := range tests {
		if got := logging.ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})

	log.Info("hidden")
	log.Warn("shown %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 42") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestLoggerFieldsSortedAndShared(t *testing.T) {
	var buf bytes.Buffer
	root := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf, Prefix: "test"})
	child := root.WithComponent("dispatch").WithField("spell", 133)

	root.SetLevel(logging.LevelError)
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("child should inherit level change, got %q", buf.String())
	}

	root.SetLevel(logging.LevelDebug)
	child.Info("kept")

	out := buf.String()
	if !strings.Contains(out, "test: kept {component=dispatch, spell=133}") {
		t.Errorf("unexpected line %q", out)
	}
}

func TestNullLogger(t *testing.T) {
	log := logging.NewNull()
	log.Error("nothing") // must not panic
}
