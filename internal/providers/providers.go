// Package providers holds the clients for external delivery services. They
// are opaque network collaborators: one HTTP call per send, errors surfaced
// straight back to the caller, no retries.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmailSender delivers a single email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single text message
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// TextGenerator produces AI-generated text from a prompt - used for lead
// qualification summaries
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Config carries the provider endpoints and API keys from the environment
type Config struct {
	EmailAPIURL string
	EmailAPIKey string
	SMSAPIURL   string
	SMSAPIKey   string
	AIAPIURL    string
	AIAPIKey    string
}

// Client talks to all three providers over plain HTTP+JSON
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a provider client with sane timeouts
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second, // provider calls happen inside request handlers
		},
	}
}

// post sends a JSON payload and decodes a JSON response into out (if non-nil)
func (c *Client) post(ctx context.Context, url, apiKey string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}

// SendEmail delivers one email through the configured email provider
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	if c.cfg.EmailAPIURL == "" {
		return fmt.Errorf("email provider not configured")
	}
	payload := map[string]string{"to": to, "subject": subject, "body": body}
	return c.post(ctx, c.cfg.EmailAPIURL, c.cfg.EmailAPIKey, payload, nil)
}

// SendSMS delivers one text message through the configured SMS provider
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	if c.cfg.SMSAPIURL == "" {
		return fmt.Errorf("sms provider not configured")
	}
	payload := map[string]string{"to": to, "body": body}
	return c.post(ctx, c.cfg.SMSAPIURL, c.cfg.SMSAPIKey, payload, nil)
}

// GenerateText asks the AI provider to complete the given prompt
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.cfg.AIAPIURL == "" {
		return "", fmt.Errorf("ai provider not configured")
	}

	payload := map[string]string{"prompt": prompt}
	var out struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, c.cfg.AIAPIURL, c.cfg.AIAPIKey, payload, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}
