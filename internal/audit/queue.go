// Package audit implements the best-effort profile-read side channel:
// a bounded in-memory queue drained by one background consumer that
// loads the read user and appends a row to a local audit log.
package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"identity-service/internal/domain"
	"identity-service/internal/repository"
)

// Recorder persists audit entries. Failures are logged and dropped;
// they never reach the request path.
type Recorder interface {
	Record(ctx context.Context, entry domain.ProfileAudit) error
}

// Queue buffers profile-read audit entries. Enqueue never blocks: when
// the buffer is full the entry is silently dropped.
type Queue struct {
	entries chan domain.ProfileAudit
	users   repository.UserStore
	rec     Recorder
	logger  *logrus.Logger
	done    chan struct{}
}

func NewQueue(size int, users repository.UserStore, rec Recorder, logger *logrus.Logger) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		entries: make(chan domain.ProfileAudit, size),
		users:   users,
		rec:     rec,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Enqueue schedules an audit entry for userID and returns immediately.
func (q *Queue) Enqueue(userID string) {
	entry := domain.ProfileAudit{UserID: userID, RequestedAt: time.Now().UTC()}
	select {
	case q.entries <- entry:
	default:
		// full buffer: drop rather than block a profile read
	}
}

// Start launches the consumer goroutine. It drains entries until ctx
// is canceled; Wait blocks until it has stopped.
func (q *Queue) Start(ctx context.Context) {
	go q.run(ctx)
}

func (q *Queue) Wait() {
	<-q.done
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-q.entries:
			q.process(ctx, entry)
		}
	}
}

func (q *Queue) process(ctx context.Context, entry domain.ProfileAudit) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := q.users.FindByID(opCtx, entry.UserID)
	if err != nil {
		q.logger.Warnf("audit: load user %s: %v", entry.UserID, err)
		return
	}

	if q.rec != nil {
		if err := q.rec.Record(opCtx, entry); err != nil {
			q.logger.Warnf("audit: record profile read for %s: %v", entry.UserID, err)
		}
	}

	q.logger.WithFields(logrus.Fields{
		"userId": user.ID.Hex(),
		"email":  user.Email,
	}).Info("profile read")
}
