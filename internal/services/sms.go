package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/errwatch/errwatch/internal/config"
	"github.com/errwatch/errwatch/pkg/logger"
)

// SMSSender sends one text message to a recipient number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// SMSGateway is an HTTP client for a Twilio-style messaging API:
// POST {base}/Accounts/{sid}/Messages.json with form fields To/From/Body
// and basic auth. A non-2xx response is a hard failure for the attempt;
// there is no retry here.
type SMSGateway struct {
	cfg    *config.SMSConfig
	client *http.Client
}

// NewSMSGateway creates a gateway client with a bounded request timeout so
// a hanging gateway can never stall the dispatcher.
func NewSMSGateway(cfg *config.SMSConfig) *SMSGateway {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMSGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Send delivers one SMS from the configured sender number.
func (g *SMSGateway) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json",
		strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.AccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", g.cfg.FromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.cfg.AccountSID, g.cfg.AuthToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	logger.Info().Int("status", resp.StatusCode).Str("to", to).Msg("sms sent")
	return nil
}
