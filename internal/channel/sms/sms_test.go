package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainwatch/internal/platform/config"
	"domainwatch/pkg/platform/sentinel"
)

func testConfig() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550000000",
	}
}

func TestSend(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42"}`))
	}))
	defer server.Close()

	sender := NewSender(testConfig(), WithBaseURL(server.URL))
	sid, err := sender.Send(context.Background(), "+15551234567", "2 item(s) expiring soon")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
	assert.Equal(t, "/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "+15551234567", gotTo)
	assert.Equal(t, "+15550000000", gotFrom)
	assert.Equal(t, "2 item(s) expiring soon", gotBody)
}

func TestSendUnconfigured(t *testing.T) {
	sender := NewSender(config.TwilioConfig{})
	_, err := sender.Send(context.Background(), "+15551234567", "hello")
	assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
}

func TestSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authentication Error"}`))
	}))
	defer server.Close()

	sender := NewSender(testConfig(), WithBaseURL(server.URL))
	_, err := sender.Send(context.Background(), "+15551234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
