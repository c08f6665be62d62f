package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitFillsDefaults(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store, discardLogger())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	ctx = requestcontext.WithClientIP(ctx, "203.0.113.7")

	pub.Emit(ctx, Record{
		Action:       ActionDocumentUpload,
		ResourceType: "document",
		ResourceID:   uuid.NewString(),
		Outcome:      OutcomeSuccess,
	})

	recs := store.All()
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, now, rec.Timestamp)
	assert.Equal(t, "req-1", rec.RequestID)
	assert.Equal(t, HashIP("203.0.113.7"), rec.ActorIPHash)
	assert.NotEqual(t, "203.0.113.7", rec.ActorIPHash)
}

func TestEmitSwallowsStoreFailure(t *testing.T) {
	store := NewMemoryStore()
	store.AppendErr = errors.New("sink down")
	pub := NewPublisher(store, discardLogger())

	// Must not panic and must not propagate anything.
	pub.Emit(context.Background(), Record{Action: ActionAuthLogin, Outcome: OutcomeFailure})
	assert.Empty(t, store.All())
}

func TestEmitThroughInboxAndWorker(t *testing.T) {
	store := NewMemoryStore()
	inbox := make(chan Record, 8)
	pub := NewPublisher(store, discardLogger(), WithInbox(inbox))
	worker := NewWorker(store, inbox, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		pub.Emit(context.Background(), Record{Action: ActionDocumentDownload, Outcome: OutcomeSuccess})
	}

	assert.Eventually(t, func() bool {
		return len(store.All()) == 5
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestEmitDropsWhenInboxFull(t *testing.T) {
	store := NewMemoryStore()
	inbox := make(chan Record, 1)
	pub := NewPublisher(store, discardLogger(), WithInbox(inbox))

	// No worker: second emit must not block.
	pub.Emit(context.Background(), Record{Action: ActionAuthLogout, Outcome: OutcomeSuccess})
	doneCh := make(chan struct{})
	go func() {
		pub.Emit(context.Background(), Record{Action: ActionAuthLogout, Outcome: OutcomeSuccess})
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox")
	}
}

func TestMemoryStoreListByActor(t *testing.T) {
	store := NewMemoryStore()
	actor := uuid.New()
	other := uuid.New()
	base := time.Now()

	for i, id := range []uuid.UUID{actor, other, actor} {
		id := id // per-iteration copy; required while go.mod declares go 1.21
		rec := Record{
			ID:        NewID(),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			ActorID:   &id,
			Action:    ActionDocumentUpload,
			Outcome:   OutcomeSuccess,
		}
		require.NoError(t, store.Append(context.Background(), rec))
	}

	recs, err := store.ListByActor(context.Background(), actor, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Timestamp.After(recs[1].Timestamp))
}
