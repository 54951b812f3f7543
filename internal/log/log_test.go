package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"none", LevelNone},
		{"loud", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := LevelFromString(tt.in); got != tt.want {
				t.Fatalf("LevelFromString(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("unexpected low-level output: %q", out)
	}
	if !strings.Contains(out, "WARN: shown 3") || !strings.Contains(out, "ERROR: shown 4") {
		t.Fatalf("missing output: %q", out)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, LevelDebug)
	child := base.WithField("round", 2).WithFields(map[string]interface{}{"mode": "EchoChase"})

	child.Info("Session: round started")
	if got := buf.String(); got != "INFO: Session: round started mode=EchoChase round=2\n" {
		t.Fatalf("output = %q", got)
	}
	if len(base.Fields()) != 0 {
		t.Fatalf("parent logger picked up child fields: %v", base.Fields())
	}
	if child.Fields()["round"] != 2 {
		t.Fatalf("child fields = %v", child.Fields())
	}
}

func TestDiscardWritesNothing(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Level() != LevelNone {
		t.Fatalf("level = %s, want NONE", l.Level())
	}
}
