package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the inbox and persists them.
// It runs until the context is cancelled, then drains whatever is
// still buffered before returning.
type Worker struct {
	inbox  <-chan Event
	store  Store
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, store Store, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{inbox: inbox, store: store, logger: logger}
}

func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case event := <-w.inbox:
			w.persist(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.persist(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) persist(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Error("persisting audit event", "job", event.Job, "action", event.Action, "error", err)
	}
}
