package certprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

func TestProbeAddr(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	addr := strings.TrimPrefix(srv.URL, "https://")

	t.Run("reads the self-signed test certificate", func(t *testing.T) {
		p := New(WithTimeout(3 * time.Second))
		snap, err := p.ProbeAddr(context.Background(), addr)
		require.NoError(t, err)
		require.NotEmpty(t, snap.SerialNumber)
		require.NotEmpty(t, snap.Fingerprint)
		require.True(t, snap.ValidTo.After(snap.ValidFrom))
	})

	t.Run("days remaining and validity against injected now", func(t *testing.T) {
		p := New(WithTimeout(3 * time.Second))
		probe, err := p.ProbeAddr(context.Background(), addr)
		require.NoError(t, err)

		// Re-probe with now pinned 10 days before expiry.
		pinned := probe.ValidTo.Add(-10*24*time.Hour - time.Hour)
		ctx := requestcontext.WithTime(context.Background(), pinned)
		snap, err := p.ProbeAddr(ctx, addr)
		require.NoError(t, err)
		require.Equal(t, 10, snap.DaysRemaining)
		require.True(t, snap.Valid)
	})

	t.Run("expired certificate is inspectable but invalid", func(t *testing.T) {
		p := New(WithTimeout(3 * time.Second))
		probe, err := p.ProbeAddr(context.Background(), addr)
		require.NoError(t, err)

		after := probe.ValidTo.Add(24 * time.Hour)
		ctx := requestcontext.WithTime(context.Background(), after)
		snap, err := p.ProbeAddr(ctx, addr)
		require.NoError(t, err)
		require.False(t, snap.Valid)
		require.Negative(t, snap.DaysRemaining)
	})

	t.Run("connection refused maps to ErrUnavailable", func(t *testing.T) {
		p := New(WithTimeout(500 * time.Millisecond))
		_, err := p.ProbeAddr(context.Background(), "127.0.0.1:1")
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

func TestFingerprintFormat(t *testing.T) {
	fp := fingerprint([]byte("certificate"))
	require.Regexp(t, `^([0-9A-F]{2}:){31}[0-9A-F]{2}$`, fp)
}
