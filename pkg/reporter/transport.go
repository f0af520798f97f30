package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

// Config holds the per-process reporting settings.
type Config struct {
	APIKey   string
	Endpoint string // full URL of the ingestion route
	Timeout  time.Duration
}

type payload struct {
	APIKey     string        `json:"apiKey"`
	Message    string        `json:"message"`
	StackTrace string        `json:"stackTrace,omitempty"`
	Metadata   []interface{} `json:"metadata,omitempty"`
	Level      string        `json:"level"`
}

// Transport delivers events to the ingestion endpoint. Sends are
// fire-and-forget: the caller returns immediately, each event gets at most
// one network attempt, and failures surface only through the warn channel.
type Transport struct {
	mu     sync.RWMutex
	cfg    Config
	client *http.Client
	wg     sync.WaitGroup
	warnf  func(format string, v ...interface{})
}

// NewTransport creates a transport with a bounded per-request timeout.
func NewTransport(cfg Config, warnf func(format string, v ...interface{})) *Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}
	return &Transport{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		warnf:  warnf,
	}
}

// SetKey installs the project API key for all subsequent sends.
func (t *Transport) SetKey(apiKey string) {
	t.mu.Lock()
	t.cfg.APIKey = apiKey
	t.mu.Unlock()
}

// Send ships one event asynchronously. Without a configured key the event
// is skipped with a local warning and never hits the network.
func (t *Transport) Send(ev Event) {
	t.mu.RLock()
	cfg := t.cfg
	t.mu.RUnlock()

	if cfg.APIKey == "" {
		t.warnf("reporter: no API key configured, event dropped")
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.post(cfg, ev); err != nil {
			t.warnf("reporter: send failed: %v", err)
		}
	}()
}

// post performs the single delivery attempt. It runs on its own detached
// context so a caller tearing down does not cancel an in-flight send.
func (t *Transport) post(cfg Config, ev Event) error {
	body, err := json.Marshal(payload{
		APIKey:     cfg.APIKey,
		Message:    ev.Message,
		StackTrace: ev.StackTrace,
		Metadata:   ev.Metadata,
		Level:      ev.Level,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ingestion endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Close waits for in-flight sends to finish or the context to expire.
func (t *Transport) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
