package reporter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
)

// unserializableSentinel replaces any argument whose JSON serialization
// fails, so one bad value never drops a whole event.
const unserializableSentinel = "[Unserializable Object]"

// StackTracer lets error values carry their own captured trace. Errors that
// do not implement it fall back to the stack at the capture call site.
type StackTracer interface {
	StackTrace() string
}

// Event is one normalized report ready for transport.
type Event struct {
	Level      string
	Message    string
	StackTrace string
	Metadata   []interface{}
}

var recognizedLevels = map[string]bool{
	"error": true,
	"warn":  true,
	"info":  true,
	"log":   true,
}

// Normalize converts one capture call's arguments into an Event. An optional
// leading level token (case-insensitive "error", "warn", "info" or "log") is
// consumed; without one the level defaults to "error". Normalization never
// panics: every serialization step has a fallback.
func Normalize(args ...interface{}) Event {
	level := "error"
	if len(args) > 0 {
		if s, ok := args[0].(string); ok && recognizedLevels[strings.ToLower(s)] {
			level = strings.ToLower(s)
			args = args[1:]
		}
	}

	var parts []string
	var stackTrace string
	var metadata []interface{}

	for _, arg := range args {
		if err, ok := arg.(error); ok && !isNilValue(arg) {
			parts = append(parts, err.Error())
			if stackTrace == "" {
				if st, ok := err.(StackTracer); ok {
					stackTrace = st.StackTrace()
				} else {
					stackTrace = string(debug.Stack())
				}
			}
			// Errors contribute their trace above; keep them out of
			// metadata so it is not duplicated.
			continue
		}

		parts = append(parts, renderText(arg))
		metadata = append(metadata, renderMetadata(arg))
	}

	return Event{
		Level:      level,
		Message:    strings.Join(parts, " "),
		StackTrace: stackTrace,
		Metadata:   metadata,
	}
}

// isNilValue reports whether a non-nil interface wraps a nil value, as a
// typed-nil error would. Calling Error() on one dereferences nil, so such
// arguments take the plain rendering path instead of the error branch.
func isNilValue(arg interface{}) bool {
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// renderText maps a non-error argument to its message fragment.
func renderText(arg interface{}) string {
	if arg == nil {
		return "null"
	}

	if isStructured(arg) {
		data, err := json.Marshal(arg)
		if err != nil {
			return unserializableSentinel
		}
		return string(data)
	}

	return fmt.Sprint(arg)
}

// renderMetadata returns the argument itself when it can be serialized, or
// the sentinel when it cannot, so metadata survives one bad value.
func renderMetadata(arg interface{}) interface{} {
	if arg == nil {
		return nil
	}
	if _, err := json.Marshal(arg); err != nil {
		return unserializableSentinel
	}
	return arg
}

// isStructured reports whether the argument should be rendered as compact
// JSON rather than with its default string form.
func isStructured(arg interface{}) bool {
	v := reflect.ValueOf(arg)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}
