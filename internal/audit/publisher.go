package audit

import (
	"context"
	"fmt"
	"log/slog"

	"domainwatch/pkg/requestcontext"
)

// Publisher hands events to the worker's inbox without blocking the
// emitting job: when the inbox is full the event is dropped and logged,
// never stalling a refresh or notification cycle.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{inbox: inbox, logger: logger}
}

func (p *Publisher) emit(event Event) {
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit inbox full, dropping event", "job", event.Job, "action", event.Action)
	}
}

// RecordDispatch implements the alerts.Recorder boundary.
func (p *Publisher) RecordDispatch(ctx context.Context, userEmail string, items int, err error) {
	event := Event{
		OccurredAt: requestcontext.Now(ctx),
		Job:        "notify",
		Subject:    userEmail,
		Action:     "dispatch-alerts",
		Outcome:    OutcomeOK,
		Detail:     fmt.Sprintf("%d item(s)", items),
	}
	if err != nil {
		event.Outcome = OutcomeError
		event.Detail = err.Error()
	}
	p.emit(event)
}

// RecordRefresh captures one bulk refresh run.
func (p *Publisher) RecordRefresh(ctx context.Context, successCount, failCount int, err error) {
	event := Event{
		OccurredAt: requestcontext.Now(ctx),
		Job:        "cache-refresh",
		Subject:    "pooled-domains",
		Action:     "refresh-all",
		Outcome:    OutcomeOK,
		Detail:     fmt.Sprintf("%d ok, %d failed", successCount, failCount),
	}
	if err != nil {
		event.Outcome = OutcomeError
		event.Detail = err.Error()
	}
	p.emit(event)
}
