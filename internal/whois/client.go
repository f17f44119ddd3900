// Package whois adapts the external WHOIS lookup service (Whoxy-compatible
// JSON API). It returns structured registration data or an error; callers
// decide what a non-success response means for their batch.
package whois

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Record is the subset of the lookup response the rest of the system
// consumes, plus the raw payload for opaque storage.
type Record struct {
	Status           int             `json:"status"`
	DomainRegistered string          `json:"domain_registered"`
	CreateDate       string          `json:"create_date"`
	ExpiryDate       string          `json:"expiry_date"`
	Registrar        RegistrarInfo   `json:"domain_registrar"`
	DomainStatus     []string        `json:"domain_status"`
	Raw              json.RawMessage `json:"-"`
}

type RegistrarInfo struct {
	RegistrarName string `json:"registrar_name"`
}

// Registered reports whether the lookup both succeeded and found a live
// registration. Everything else counts as a failed item in a refresh batch.
func (r Record) Registered() bool {
	return r.Status == 1 && r.DomainRegistered != "no"
}

// Client queries the registration lookup service for one domain.
type Client interface {
	Lookup(ctx context.Context, domain string) (Record, error)
}

// HTTPClient is the production Client backed by the Whoxy HTTP API.
type HTTPClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

const defaultBaseURL = "https://api.whoxy.com/"

// NewHTTPClient builds a lookup client. The HTTP timeout bounds each call so
// a hung upstream cannot stall a refresh item forever.
func NewHTTPClient(apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*HTTPClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *HTTPClient) { c.baseURL = baseURL }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func (c *HTTPClient) Lookup(ctx context.Context, domain string) (Record, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("whois", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Record{}, fmt.Errorf("build whois request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("whois lookup %s: %w", domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("whois lookup %s: unexpected status %d", domain, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Record{}, fmt.Errorf("read whois response for %s: %w", domain, err)
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return Record{}, fmt.Errorf("decode whois response for %s: %w", domain, err)
	}
	record.Raw = body
	return record, nil
}
