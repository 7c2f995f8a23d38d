package audit

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"identity-service/internal/domain"
	"identity-service/internal/repository/memory"
)

type captureRecorder struct {
	mu      sync.Mutex
	entries []domain.ProfileAudit
	signal  chan struct{}
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{signal: make(chan struct{}, 16)}
}

func (r *captureRecorder) Record(ctx context.Context, entry domain.ProfileAudit) error {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	r.signal <- struct{}{}
	return nil
}

func (r *captureRecorder) recorded() []domain.ProfileAudit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ProfileAudit(nil), r.entries...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestQueueRecordsProfileRead(t *testing.T) {
	t.Parallel()

	store := memory.NewUserStore()
	user, err := store.Create(context.Background(), &domain.User{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "1234567890",
		Password: "digest",
	})
	require.NoError(t, err)

	rec := newCaptureRecorder()
	q := NewQueue(8, store, rec, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	q.Enqueue(user.ID.Hex())

	select {
	case <-rec.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was never recorded")
	}

	entries := rec.recorded()
	require.Len(t, entries, 1)
	require.Equal(t, user.ID.Hex(), entries[0].UserID)
	require.False(t, entries[0].RequestedAt.IsZero())

	cancel()
	q.Wait()
}

func TestEnqueueNeverBlocksWhenFull(t *testing.T) {
	t.Parallel()

	store := memory.NewUserStore()
	q := NewQueue(2, store, nil, quietLogger())
	// consumer not started: the buffer stays full

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			q.Enqueue("507f1f77bcf86cd799439011")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestQueueSurvivesMissingUser(t *testing.T) {
	t.Parallel()

	store := memory.NewUserStore()
	rec := newCaptureRecorder()
	q := NewQueue(8, store, rec, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	// unknown user: the entry is dropped, the consumer keeps running
	q.Enqueue("507f1f77bcf86cd799439011")

	user, err := store.Create(context.Background(), &domain.User{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "1234567890",
		Password: "digest",
	})
	require.NoError(t, err)
	q.Enqueue(user.ID.Hex())

	select {
	case <-rec.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer stopped after a failed lookup")
	}

	entries := rec.recorded()
	require.Len(t, entries, 1)
	require.Equal(t, user.ID.Hex(), entries[0].UserID)
}

func TestLogRoundTrip(t *testing.T) {
	t.Parallel()

	log, err := OpenLog(t.TempDir() + "/audit.db")
	require.NoError(t, err)
	defer log.Close()

	ctx := context.Background()
	require.NoError(t, log.Init(ctx))

	require.NoError(t, log.Record(ctx, domain.ProfileAudit{
		UserID:      "507f1f77bcf86cd799439011",
		RequestedAt: time.Now().UTC(),
	}))

	var count int
	require.NoError(t, log.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile_reads`).Scan(&count))
	require.Equal(t, 1, count)
}
