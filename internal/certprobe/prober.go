// Package certprobe performs single TLS handshakes against a domain solely
// to read the peer certificate, never to fetch content.
package certprobe

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"domainwatch/internal/certprobe/metrics"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

// Snapshot captures the peer certificate of one probe. It is produced fresh
// every time and never persisted.
type Snapshot struct {
	Issuer        string    `json:"issuer"`
	Subject       string    `json:"subject"`
	ValidFrom     time.Time `json:"validFrom"`
	ValidTo       time.Time `json:"validTo"`
	DaysRemaining int       `json:"daysRemaining"`
	SerialNumber  string    `json:"serialNumber"`
	Fingerprint   string    `json:"fingerprint"`
	Valid         bool      `json:"valid"`
}

// DefaultTimeout bounds a probe when the caller does not override it.
const DefaultTimeout = 5 * time.Second

// Prober opens TLS connections on port 443 with chain verification
// deliberately disabled, so expired and self-signed certificates can still
// be inspected instead of failing the handshake.
type Prober struct {
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Prober)

func WithTimeout(d time.Duration) Option {
	return func(p *Prober) { p.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Prober) { p.metrics = m }
}

func New(opts ...Option) *Prober {
	p := &Prober{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe connects to domain:443 and extracts the peer certificate. Handshake
// failures, timeouts, and empty certificate chains all collapse into
// sentinel.ErrUnavailable; callers do not distinguish reasons.
func (p *Prober) Probe(ctx context.Context, domain string) (*Snapshot, error) {
	return p.ProbeAddr(ctx, net.JoinHostPort(domain, "443"))
}

// ProbeAddr is Probe against an explicit host:port, used directly by tests.
func (p *Prober) ProbeAddr(ctx context.Context, addr string) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer := &tls.Dialer{
		Config: &tls.Config{
			InsecureSkipVerify: true, // expired/self-signed certs must still be inspectable
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		p.recordFailure(addr, err)
		return nil, fmt.Errorf("tls probe %s: %w", addr, sentinel.ErrUnavailable)
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		p.recordFailure(addr, fmt.Errorf("no peer certificate"))
		return nil, fmt.Errorf("tls probe %s: no peer certificate: %w", addr, sentinel.ErrUnavailable)
	}

	return snapshotFrom(certs[0], requestcontext.Now(ctx)), nil
}

func (p *Prober) recordFailure(addr string, err error) {
	p.metrics.RecordFailure()
	p.logger.Debug("certificate probe failed", "addr", addr, "error", err)
}

func snapshotFrom(cert *x509.Certificate, now time.Time) *Snapshot {
	issuer := cert.Issuer.CommonName
	if len(cert.Issuer.Organization) > 0 {
		issuer = cert.Issuer.Organization[0]
	}
	return &Snapshot{
		Issuer:        issuer,
		Subject:       cert.Subject.CommonName,
		ValidFrom:     cert.NotBefore,
		ValidTo:       cert.NotAfter,
		DaysRemaining: int(cert.NotAfter.Sub(now).Hours() / 24),
		SerialNumber:  cert.SerialNumber.String(),
		Fingerprint:   fingerprint(cert.Raw),
		Valid:         !now.Before(cert.NotBefore) && !now.After(cert.NotAfter),
	}
}

// fingerprint formats the SHA-256 digest of the DER certificate as
// colon-separated uppercase hex pairs.
func fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	encoded := strings.ToUpper(hex.EncodeToString(sum[:]))
	pairs := make([]string, 0, len(encoded)/2)
	for i := 0; i < len(encoded); i += 2 {
		pairs = append(pairs, encoded[i:i+2])
	}
	return strings.Join(pairs, ":")
}
