// Package reporter is the client SDK: it normalizes log/error calls into
// events and ships them to the ingestion endpoint without ever disturbing
// the host application. Capture never panics and never blocks on the
// network; local logging keeps working even when reporting fails.
package reporter

import (
	"context"
	"log"
	"sync"
)

// LocalLogger receives the same call the capture hook saw, so local output
// is unaffected by remote reporting. A panic inside it is swallowed.
type LocalLogger interface {
	Log(level string, args ...interface{})
}

// Reporter wires the normalizer and transport behind a small stateful
// surface mirroring the SDK contract: SetKey, Patch, Capture.
type Reporter struct {
	transport *Transport
	local     LocalLogger

	mu      sync.Mutex
	patched bool

	warnf func(format string, v ...interface{})
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLocalLogger installs the pass-through local logger invoked on every
// capture.
func WithLocalLogger(l LocalLogger) Option {
	return func(r *Reporter) { r.local = l }
}

// WithWarnFunc overrides the low-severity channel used for the SDK's own
// complaints. Defaults to the standard library logger.
func WithWarnFunc(warnf func(format string, v ...interface{})) Option {
	return func(r *Reporter) { r.warnf = warnf }
}

// New creates a Reporter. The endpoint is required; the API key may be set
// later via SetKey.
func New(cfg Config, opts ...Option) *Reporter {
	r := &Reporter{
		warnf: func(format string, v ...interface{}) {
			log.Printf("[errwatch] "+format, v...)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.transport = NewTransport(cfg, r.warnf)
	return r
}

// SetKey configures the project API key.
func (r *Reporter) SetKey(apiKey string) {
	r.transport.SetKey(apiKey)
}

// Patch activates capturing. Calling it twice warns instead of
// double-installing.
func (r *Reporter) Patch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patched {
		r.warnf("reporter: Patch called twice, ignoring")
		return
	}
	r.patched = true
}

// Capture normalizes one log call and ships it. Before Patch it is a no-op
// with a warning. The local logger always runs, and its failure never
// stops the remote send.
func (r *Reporter) Capture(args ...interface{}) {
	r.mu.Lock()
	patched := r.patched
	r.mu.Unlock()

	if !patched {
		r.warnf("reporter: Capture called before Patch, event dropped")
		return
	}

	ev := Normalize(args...)
	r.logLocally(ev.Level, args...)
	r.transport.Send(ev)
}

// Close drains in-flight sends. Call it before process exit to avoid
// losing final events.
func (r *Reporter) Close(ctx context.Context) error {
	return r.transport.Close(ctx)
}

func (r *Reporter) logLocally(level string, args ...interface{}) {
	if r.local == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.warnf("reporter: local logger panicked: %v", rec)
		}
	}()
	r.local.Log(level, args...)
}
