// Package sms sends text messages through the Twilio REST API.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domainwatch/internal/platform/config"
	"domainwatch/pkg/platform/sentinel"
)

const apiBase = "https://api.twilio.com/2010-04-01"

// Sender is the SMS channel adapter. Missing credentials yield
// sentinel.ErrNotConfigured from Send instead of an API call.
type Sender struct {
	cfg     config.TwilioConfig
	baseURL string
	http    *http.Client
}

type Option func(*Sender)

// WithBaseURL overrides the Twilio endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(s *Sender) { s.baseURL = baseURL }
}

func NewSender(cfg config.TwilioConfig, opts ...Option) *Sender {
	s := &Sender{
		cfg:     cfg,
		baseURL: apiBase,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sender) Configured() bool {
	return s.cfg.Configured()
}

// Send delivers one SMS and returns the provider message SID.
func (s *Sender) Send(ctx context.Context, to, body string) (string, error) {
	if !s.cfg.Configured() {
		return "", fmt.Errorf("sms credentials: %w", sentinel.ErrNotConfigured)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send sms to %s: %w", to, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read sms response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("send sms to %s: status %d: %s", to, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode sms response: %w", err)
	}
	return out.SID, nil
}
