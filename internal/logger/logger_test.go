package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		configured string
		verbose    bool
		want       string
	}{
		{"", false, InfoLevel},
		{"DEBUG", false, DebugLevel},
		{" warning ", false, WarnLevel},
		{"error", false, ErrorLevel},
		{"bogus", false, InfoLevel},
		{"error", true, DebugLevel},
	}
	for _, tc := range cases {
		if got := Level(tc.configured, tc.verbose); got != tc.want {
			t.Fatalf("Level(%q, %v) = %q, want %q", tc.configured, tc.verbose, got, tc.want)
		}
	}
}

func TestToZapLevel(t *testing.T) {
	t.Parallel()

	if toZapLevel(DebugLevel) != zapcore.DebugLevel || toZapLevel(ErrorLevel) != zapcore.ErrorLevel {
		t.Fatalf("unexpected level mapping")
	}
	if toZapLevel("unknown") != zapcore.InfoLevel {
		t.Fatalf("unknown level should fall back to info")
	}
}

func TestNew_WritesStructuredFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	l := New(core)
	l.Debugw("hidden")
	l.Infow("pipeline_completed", "risk_level", "High")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "pipeline_completed" || entries[0].ContextMap()["risk_level"] != "High" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestNop(t *testing.T) {
	t.Parallel()
	Nop().Infow("discarded", "k", "v")
}
