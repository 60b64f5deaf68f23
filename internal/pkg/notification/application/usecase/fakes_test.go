package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	cacheport "healthmate/internal/infrastructure/cache/port"
	queueport "healthmate/internal/infrastructure/queue/port"
	"healthmate/internal/infrastructure/realtime"
	notification "healthmate/internal/pkg/notification/application/domain"
)

type fakeNotificationRepo struct {
	byID       map[string]*notification.Notification
	nextID     int
	countCalls int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*notification.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) (*notification.Notification, error) {
	r.nextID++
	saved := *n
	saved.ID = fmt.Sprintf("n%d", r.nextID)
	saved.CreatedAt = time.Now()
	r.byID[saved.ID] = &saved
	return &saved, nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id, userID string) (*notification.Notification, error) {
	n := r.byID[id]
	if n == nil || n.UserID != userID || n.Destroyed {
		return nil, nil
	}
	return n, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.byID {
		if n.UserID == userID && !n.Destroyed {
			out = append(out, *n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.countCalls++
	var total int64
	for _, n := range r.byID {
		if n.UserID == userID && !n.IsRead && !n.Destroyed {
			total++
		}
	}
	return total, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	n := r.byID[id]
	if n == nil || n.UserID != userID || n.Destroyed {
		return pgx.ErrNoRows
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.byID {
		if n.UserID == userID && !n.Destroyed {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id, userID string) error {
	n := r.byID[id]
	if n == nil || n.UserID != userID || n.Destroyed {
		return pgx.ErrNoRows
	}
	n.Destroyed = true
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			removed++
		}
	}
	return removed, nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

type enqueued struct {
	task queueport.Task
	opt  queueport.EnqueueOption
}

type fakeQueueClient struct {
	tasks []enqueued
}

func (q *fakeQueueClient) Enqueue(_ context.Context, t queueport.Task, opts ...queueport.EnqueueOption) (string, error) {
	var opt queueport.EnqueueOption
	if len(opts) > 0 {
		opt = opts[0]
	}
	q.tasks = append(q.tasks, enqueued{task: t, opt: opt})
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *fakeQueueClient) Close() error { return nil }

type fakeSession struct {
	id     string
	userID string
	frames [][]byte
}

func (s *fakeSession) SessionID() string { return s.id }
func (s *fakeSession) UserID() string    { return s.userID }

func (s *fakeSession) Send(payload []byte) error {
	s.frames = append(s.frames, payload)
	return nil
}

func (s *fakeSession) pushed(t *testing.T) []realtime.NotificationPayload {
	t.Helper()
	out := make([]realtime.NotificationPayload, 0, len(s.frames))
	for _, frame := range s.frames {
		var env struct {
			Event string                   `json:"event"`
			Data  realtime.NotificationNew `json:"data"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		require.Equal(t, realtime.EventNotificationNew, env.Event)
		out = append(out, env.Data.Notification)
	}
	return out
}

func newTestGateway() *realtime.Gateway {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return realtime.NewGateway(logger)
}

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", true)
}
