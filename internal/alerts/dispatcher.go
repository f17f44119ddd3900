package alerts

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"domainwatch/internal/alerts/metrics"
	"domainwatch/internal/alerts/models"
)

// EmailSender is the email channel boundary, implemented by channel/email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (messageID string, err error)
}

// SMSSender is the SMS channel boundary, implemented by channel/sms.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (sid string, err error)
}

// Dispatcher fans one user's alerts out to the channels their preference
// enables. Channel sends are independent: a failure on one never blocks the
// other, and nothing is retried within a cycle.
type Dispatcher struct {
	email   EmailSender
	sms     SMSSender
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type DispatcherOption func(*Dispatcher)

func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithDispatcherMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(email EmailSender, sms SMSSender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{email: email, sms: sms, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends the per-channel notifications for one user. Domain and
// certificate alerts go out as two distinct emails; SMS is a single summary
// of the combined count. Returns the first channel error for the caller's
// log, after all channels have been attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, pref models.Preference, alerts models.Alerts) error {
	if alerts.Empty() {
		return nil
	}

	// Plain errgroup: one channel failing must not cancel the others.
	var g errgroup.Group

	if pref.EmailEnabled && pref.ContactEmail != "" {
		if len(alerts.ExpiringDomains) > 0 {
			items := alerts.ExpiringDomains
			g.Go(func() error {
				subject := fmt.Sprintf("Domain Expiry Alert - %d domain(s) expiring soon", len(items))
				return d.sendEmail(ctx, pref.ContactEmail, subject, domainExpiryEmail(items), "domain_expiry")
			})
		}
		if len(alerts.ExpiringCertificates) > 0 {
			items := alerts.ExpiringCertificates
			g.Go(func() error {
				subject := fmt.Sprintf("SSL Certificate Expiry Alert - %d certificate(s) expiring soon", len(items))
				return d.sendEmail(ctx, pref.ContactEmail, subject, certificateExpiryEmail(items), "certificate_expiry")
			})
		}
	}

	if pref.SMSEnabled && pref.ContactPhone != "" {
		total := alerts.Total()
		g.Go(func() error {
			body := fmt.Sprintf("Domain Dashboard Alert: %d item(s) expiring soon. Check your email for details.", total)
			sid, err := d.sms.Send(ctx, pref.ContactPhone, body)
			if err != nil {
				d.metrics.RecordSend("sms", false)
				d.logger.Warn("sms dispatch failed", "error", err)
				return fmt.Errorf("sms channel: %w", err)
			}
			d.metrics.RecordSend("sms", true)
			d.logger.Info("sms alert sent", "sid", sid, "items", total)
			return nil
		})
	}

	return g.Wait()
}

func (d *Dispatcher) sendEmail(ctx context.Context, to, subject, body, kind string) error {
	messageID, err := d.email.Send(ctx, to, subject, body)
	if err != nil {
		d.metrics.RecordSend("email", false)
		d.logger.Warn("email dispatch failed", "kind", kind, "error", err)
		return fmt.Errorf("email channel: %w", err)
	}
	d.metrics.RecordSend("email", true)
	d.logger.Info("email alert sent", "kind", kind, "message_id", messageID)
	return nil
}
