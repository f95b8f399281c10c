package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWriterLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown", Fields{"stage": "notch"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written below warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown stage=notch") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestWriterLogger_ErrorAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, DebugLevel).WithFields(Fields{"z": 1, "a": 2})

	logger.Error(errors.New("boom"), "failed")

	out := buf.String()
	if !strings.Contains(out, "[ERROR] failed: boom a=2 z=1") {
		t.Fatalf("unexpected line: %q", out)
	}
}

func TestWithContext_MergesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, DebugLevel)

	ctx := ContextWithFields(context.Background(), Fields{"run": 7})
	ctx = ContextWithFields(ctx, Fields{"signal": "sad"})
	logger.WithContext(ctx).Info("analyzed")

	out := buf.String()
	if !strings.Contains(out, "run=7") || !strings.Contains(out, "signal=sad") {
		t.Fatalf("context fields missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"ERROR":   ErrorLevel,
		"":        InfoLevel,
		"bogus":   InfoLevel,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Fatalf("ParseLevel(%q)=%v, want %v", name, got, want)
		}
	}
}

func TestSetGlobalLogger_NilDisables(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Fatalf("expected NoOpLogger, got %T", GetGlobalLogger())
	}
}
