// Package sms delivers short text messages through the Twilio Messages REST
// API. It implements the invoice.Sender interface so invoice summaries can
// be texted to the shop owner.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.twilio.com"
	messagesPath   = "/2010-04-01/Accounts/%s/Messages.json"
)

// Option is a functional option for configuring the Twilio Client.
type Option func(*Client)

// WithBaseURL overrides the Twilio API base URL. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMediaURL attaches a media URL (e.g. a hosted invoice PDF) to every
// outgoing message.
func WithMediaURL(mediaURL string) Option {
	return func(c *Client) {
		c.mediaURL = mediaURL
	}
}

// Client sends SMS messages through the Twilio Messages API.
type Client struct {
	accountSID string
	authToken  string
	from       string
	to         string
	mediaURL   string
	baseURL    string
	httpClient *http.Client
}

// New creates a Twilio Client. accountSID, authToken, from, and to must all
// be non-empty; use [Configured] to decide whether to construct one at all.
func New(accountSID, authToken, from, to string, opts ...Option) (*Client, error) {
	if accountSID == "" || authToken == "" || from == "" || to == "" {
		return nil, errors.New("sms: accountSID, authToken, from, and to must not be empty")
	}
	c := &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Configured reports whether the given credentials are complete enough to
// construct a working [Client]. Deployments without Twilio credentials run
// with SMS delivery disabled.
func Configured(accountSID, authToken, from, to string) bool {
	return accountSID != "" && authToken != "" && from != "" && to != ""
}

// messageResponse mirrors the subset of the Twilio message resource we read.
type messageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"` // error description
	Code    int    `json:"code,omitempty"`    // Twilio error code
}

// Send delivers body as an SMS to the configured recipient.
func (c *Client) Send(ctx context.Context, body string) error {
	if body == "" {
		return errors.New("sms: body must not be empty")
	}

	form := url.Values{}
	form.Set("To", c.to)
	form.Set("From", c.from)
	form.Set("Body", body)
	if c.mediaURL != "" {
		form.Set("MediaUrl", c.mediaURL)
	}

	endpoint := c.baseURL + fmt.Sprintf(messagesPath, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var msg messageResponse
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			return fmt.Errorf("sms: twilio error %d (code %d): %s",
				resp.StatusCode, msg.Code, msg.Message)
		}
		return fmt.Errorf("sms: unexpected status %d", resp.StatusCode)
	}

	return nil
}
