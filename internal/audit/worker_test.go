package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainwatch/pkg/requestcontext"
)

func TestWorkerPersistsAndDrains(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	worker := NewWorker(inbox, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	pub := NewPublisher(inbox, nil)
	pub.RecordDispatch(ctx, "ada@example.com", 3, nil)
	pub.RecordDispatch(ctx, "bob@example.com", 1, errors.New("smtp down"))
	pub.RecordRefresh(ctx, 48, 2, nil)

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 0)
		return err == nil && len(events) == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	events, err := store.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "notify", events[0].Job)
	assert.Equal(t, "ada@example.com", events[0].Subject)
	assert.Equal(t, OutcomeOK, events[0].Outcome)
	assert.Equal(t, "3 item(s)", events[0].Detail)

	assert.Equal(t, OutcomeError, events[1].Outcome)
	assert.Equal(t, "smtp down", events[1].Detail)

	assert.Equal(t, "cache-refresh", events[2].Job)
	assert.Equal(t, "48 ok, 2 failed", events[2].Detail)
}

func TestPublisherDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event, 1)
	pub := NewPublisher(inbox, nil)

	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	pub.RecordDispatch(ctx, "a@example.com", 1, nil)
	pub.RecordDispatch(ctx, "b@example.com", 1, nil) // dropped, inbox full

	require.Len(t, inbox, 1)
	event := <-inbox
	assert.Equal(t, "a@example.com", event.Subject)
	assert.Equal(t, now, event.OccurredAt)
}
