package reporter

import (
	"errors"
	"strings"
	"testing"
)

type tracedError struct{ msg string }

func (e *tracedError) Error() string      { return e.msg }
func (e *tracedError) StackTrace() string { return "at checkout.go:42" }

func TestNormalizeLevelToken(t *testing.T) {
	tests := []struct {
		name      string
		args      []interface{}
		wantLevel string
		wantMsg   string
	}{
		{"no level prefix", []interface{}{"boom"}, "error", "boom"},
		{"warn prefix consumed", []interface{}{"warn", "disk almost full"}, "warn", "disk almost full"},
		{"case-insensitive", []interface{}{"INFO", "started"}, "info", "started"},
		{"log prefix", []interface{}{"Log", "checkpoint"}, "log", "checkpoint"},
		{"unrecognized token stays in message", []interface{}{"fatal", "boom"}, "error", "fatal boom"},
		{"level token alone", []interface{}{"warn"}, "warn", ""},
		{"no args at all", nil, "error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Normalize(tt.args...)
			if ev.Level != tt.wantLevel {
				t.Errorf("level = %q, want %q", ev.Level, tt.wantLevel)
			}
			if ev.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", ev.Message, tt.wantMsg)
			}
		})
	}
}

func TestNormalizeMessageParts(t *testing.T) {
	ev := Normalize("failed for", map[string]string{"user": "u1"}, nil, 42)

	want := `failed for {"user":"u1"} null 42`
	if ev.Message != want {
		t.Errorf("message = %q, want %q", ev.Message, want)
	}
}

func TestNormalizeErrorArgument(t *testing.T) {
	ev := Normalize("payment declined:", errors.New("card expired"))

	if ev.Message != "payment declined: card expired" {
		t.Errorf("message = %q", ev.Message)
	}
	if ev.StackTrace == "" {
		t.Error("expected a captured stack trace for a plain error")
	}
	// Errors never leak into metadata; only the non-error part remains.
	if len(ev.Metadata) != 1 {
		t.Errorf("metadata len = %d, want 1", len(ev.Metadata))
	}
}

func TestNormalizeStackTracerPreferred(t *testing.T) {
	ev := Normalize(&tracedError{msg: "boom"})

	if ev.StackTrace != "at checkout.go:42" {
		t.Errorf("stackTrace = %q, want the error's own trace", ev.StackTrace)
	}
}

func TestNormalizeFirstErrorWinsStack(t *testing.T) {
	ev := Normalize(&tracedError{msg: "first"}, errors.New("second"))

	if ev.StackTrace != "at checkout.go:42" {
		t.Errorf("stackTrace = %q, want the first error's trace", ev.StackTrace)
	}
	if ev.Message != "first second" {
		t.Errorf("message = %q", ev.Message)
	}
}

func TestNormalizeUnserializableArgument(t *testing.T) {
	cyclic := map[string]interface{}{}
	cyclic["self"] = cyclic

	tests := []struct {
		name string
		arg  interface{}
	}{
		{"cyclic map", cyclic},
		{"channel in struct", struct{ C chan int }{C: make(chan int)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Normalize(tt.arg)
			if ev.Message != unserializableSentinel {
				t.Errorf("message = %q, want sentinel", ev.Message)
			}
			if len(ev.Metadata) != 1 || ev.Metadata[0] != unserializableSentinel {
				t.Errorf("metadata = %v, want per-argument sentinel", ev.Metadata)
			}
		})
	}
}

func TestNormalizeTypedNilError(t *testing.T) {
	// A nil *T satisfies the error interface but has no receiver to call
	// Error() on; it must render like any other value, never panic.
	var nilErr *tracedError

	ev := Normalize("something failed:", nilErr)

	if ev.Message != "something failed: <nil>" {
		t.Errorf("message = %q, want %q", ev.Message, "something failed: <nil>")
	}
	if ev.StackTrace != "" {
		t.Errorf("stackTrace = %q, want none for a nil error value", ev.StackTrace)
	}
	if ev.Level != "error" {
		t.Errorf("level = %q, want error", ev.Level)
	}
}

func TestNormalizeMetadataExcludesErrors(t *testing.T) {
	ev := Normalize(errors.New("boom"))

	if len(ev.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty when only errors were passed", ev.Metadata)
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Normalize panicked: %v", r)
		}
	}()

	var nilErr *tracedError
	Normalize(nil, nilErr, make(chan int), func() {}, strings.Repeat("x", 1<<16))
}
