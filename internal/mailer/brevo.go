// Package mailer delivers the daily reminder emails through the Brevo
// transactional API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is Brevo's production endpoint.
const DefaultBaseURL = "https://api.brevo.com"

// Sender delivers one plain-text email. Implemented by Client; jobs
// accept the interface so tests can fake delivery.
type Sender interface {
	Send(ctx context.Context, subject, textContent string) error
}

// Client wraps interactions with the Brevo API. The foundation mails
// itself: sender and recipient are the same configured address.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewClient constructs a new client. baseURL falls back to the
// production endpoint when empty.
func NewClient(baseURL, apiKey, from string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether credentials are present. Jobs skip
// delivery (with a log line) when they are not, instead of failing.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.from != ""
}

type address struct {
	Email string `json:"email"`
}

type smtpEmail struct {
	Sender      address   `json:"sender"`
	To          []address `json:"to"`
	Subject     string    `json:"subject"`
	TextContent string    `json:"textContent"`
}

// Send posts one transactional email.
func (c *Client) Send(ctx context.Context, subject, textContent string) error {
	if !c.Configured() {
		return fmt.Errorf("mailer: missing credentials")
	}

	payload, err := json.Marshal(smtpEmail{
		Sender:      address{Email: c.from},
		To:          []address{{Email: c.from}},
		Subject:     subject,
		TextContent: textContent,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
