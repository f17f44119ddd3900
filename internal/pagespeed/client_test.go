package pagespeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainwatch/pkg/platform/sentinel"
)

const sampleResponse = `{
	"lighthouseResult": {
		"categories": {"performance": {"score": 0.92}},
		"audits": {
			"first-contentful-paint": {"displayValue": "1.2 s"},
			"largest-contentful-paint": {"displayValue": "2.1 s"},
			"cumulative-layout-shift": {"displayValue": "0.01"},
			"speed-index": {"displayValue": "2.8 s"}
		}
	}
}`

func TestAnalyze(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"url":      r.URL.Query().Get("url"),
			"strategy": r.URL.Query().Get("strategy"),
			"key":      r.URL.Query().Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	metrics, err := client.Analyze(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", gotQuery["url"])
	assert.Equal(t, "mobile", gotQuery["strategy"])
	assert.Equal(t, "api-key", gotQuery["key"])

	assert.InDelta(t, 92.0, metrics.Score, 0.001)
	assert.Equal(t, "1.2 s", metrics.FCP)
	assert.Equal(t, "2.1 s", metrics.LCP)
	assert.Equal(t, "0.01", metrics.CLS)
	assert.Equal(t, "2.8 s", metrics.SpeedIndex)
}

func TestAnalyzeUnconfigured(t *testing.T) {
	client := New("")
	assert.False(t, client.Configured())

	_, err := client.Analyze(context.Background(), "example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
}

func TestAnalyzeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New("api-key", WithBaseURL(server.URL))
	_, err := client.Analyze(context.Background(), "example.com")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
