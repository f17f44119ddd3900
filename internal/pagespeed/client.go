// Package pagespeed wraps the Google PageSpeed Insights v5 API, reduced
// to the handful of metrics the dashboard shows.
package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"domainwatch/pkg/platform/sentinel"
)

const defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Metrics is the reduced lighthouse result served to the dashboard.
type Metrics struct {
	Score      float64 `json:"score"`
	FCP        string  `json:"fcp"`
	LCP        string  `json:"lcp"`
	CLS        string  `json:"cls"`
	SpeedIndex string  `json:"speedIndex"`
}

// Client calls the PageSpeed API for the mobile strategy.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type apiResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			DisplayValue string `json:"displayValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Analyze runs a mobile-strategy PageSpeed audit against https://<domain>.
func (c *Client) Analyze(ctx context.Context, domain string) (Metrics, error) {
	if !c.Configured() {
		return Metrics{}, fmt.Errorf("pagespeed: %w", sentinel.ErrNotConfigured)
	}

	query := url.Values{}
	query.Set("url", "https://"+domain)
	query.Set("strategy", "mobile")
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Metrics{}, fmt.Errorf("pagespeed request for %s: %w", domain, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Metrics{}, fmt.Errorf("pagespeed request for %s: %w", domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metrics{}, fmt.Errorf("pagespeed for %s: unexpected status %d: %w", domain, resp.StatusCode, sentinel.ErrUnavailable)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Metrics{}, fmt.Errorf("decoding pagespeed response for %s: %w", domain, err)
	}

	lhs := body.LighthouseResult
	return Metrics{
		Score:      lhs.Categories.Performance.Score * 100,
		FCP:        lhs.Audits["first-contentful-paint"].DisplayValue,
		LCP:        lhs.Audits["largest-contentful-paint"].DisplayValue,
		CLS:        lhs.Audits["cumulative-layout-shift"].DisplayValue,
		SpeedIndex: lhs.Audits["speed-index"].DisplayValue,
	}, nil
}
