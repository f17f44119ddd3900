package alerts

import (
	"context"
	"fmt"
	"log/slog"

	"domainwatch/internal/alerts/metrics"
	authmodels "domainwatch/internal/auth/models"
	domainmodels "domainwatch/internal/userdomain/models"

	"github.com/google/uuid"
)

// UserSource yields the users eligible for notifications this cycle.
type UserSource interface {
	ListNotifiable(ctx context.Context) ([]*authmodels.User, error)
}

// DomainSource yields a user's owned domains.
type DomainSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domainmodels.Domain, error)
}

// Recorder appends dispatch outcomes to the audit trail.
type Recorder interface {
	RecordDispatch(ctx context.Context, userEmail string, items int, err error)
}

// Cycle drives the daily notification pass: aggregate each eligible user's
// expiring items, then dispatch. Users are processed one at a time; one
// user's failure never stops iteration over the rest.
type Cycle struct {
	users      UserSource
	domains    DomainSource
	aggregator *Aggregator
	dispatcher *Dispatcher
	recorder   Recorder
	allowlist  map[string]struct{}
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type CycleOption func(*Cycle)

func WithCycleLogger(logger *slog.Logger) CycleOption {
	return func(c *Cycle) { c.logger = logger }
}

func WithCycleMetrics(m *metrics.Metrics) CycleOption {
	return func(c *Cycle) { c.metrics = m }
}

func WithRecorder(r Recorder) CycleOption {
	return func(c *Cycle) { c.recorder = r }
}

func NewCycle(users UserSource, domains DomainSource, aggregator *Aggregator, dispatcher *Dispatcher, allowlist []string, opts ...CycleOption) *Cycle {
	set := make(map[string]struct{}, len(allowlist))
	for _, d := range allowlist {
		set[d] = struct{}{}
	}
	c := &Cycle{
		users:      users,
		domains:    domains,
		aggregator: aggregator,
		dispatcher: dispatcher,
		allowlist:  set,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one notification cycle.
func (c *Cycle) Run(ctx context.Context) error {
	users, err := c.users.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("list notifiable users: %w", err)
	}
	c.logger.Info("notification cycle started", "users", len(users))

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.notifyUser(ctx, user)
	}
	return nil
}

func (c *Cycle) notifyUser(ctx context.Context, user *authmodels.User) {
	domains, err := c.domains.ListByUser(ctx, user.ID)
	if err != nil {
		c.logger.Warn("skipping user, domain listing failed", "user", user.Email, "error", err)
		return
	}
	if len(domains) == 0 {
		return
	}

	alerts := c.aggregator.CollectAlerts(ctx, domains, c.allowlist)
	if alerts.Empty() {
		return
	}

	err = c.dispatcher.Dispatch(ctx, user.Preference(), alerts)
	if c.recorder != nil {
		c.recorder.RecordDispatch(ctx, user.Email, alerts.Total(), err)
	}
	if err != nil {
		c.logger.Warn("dispatch incomplete for user", "user", user.Email, "error", err)
		return
	}
	c.metrics.RecordUserNotified()
}
