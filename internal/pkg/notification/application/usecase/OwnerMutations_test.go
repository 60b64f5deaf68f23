package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmate/internal/pkg/apperror"
	notification "healthmate/internal/pkg/notification/application/domain"
)

func seedNotification(t *testing.T, repo *fakeNotificationRepo, userID string) *notification.Notification {
	t.Helper()
	saved, err := repo.Create(context.Background(), &notification.Notification{
		UserID:      userID,
		Type:        notification.TypeChat,
		Title:       "New message from Doc",
		Description: "hello",
	})
	require.NoError(t, err)
	return saved
}

func TestMarkRead_FlipsOwnNotification(t *testing.T) {
	repo := newFakeNotificationRepo()
	n := seedNotification(t, repo, "owner")

	uc := NewMarkReadUseCase(repo, newFakeCache(), testLog())
	require.NoError(t, uc.Execute(context.Background(), n.ID, "owner"))

	stored, err := repo.FindByID(context.Background(), n.ID, "owner")
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

// A notification owned by someone else answers not-found, exactly like an id
// that never existed. The API must not confirm foreign notification ids.
func TestMarkRead_OtherUsersNotification(t *testing.T) {
	repo := newFakeNotificationRepo()
	n := seedNotification(t, repo, "owner")

	uc := NewMarkReadUseCase(repo, newFakeCache(), testLog())

	err := uc.Execute(context.Background(), n.ID, "intruder")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	err = uc.Execute(context.Background(), "no-such-id", "intruder")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDelete_SoftDeletesAndHidesFromOwner(t *testing.T) {
	repo := newFakeNotificationRepo()
	n := seedNotification(t, repo, "owner")

	uc := NewDeleteNotificationUseCase(repo, newFakeCache(), testLog())
	require.NoError(t, uc.Execute(context.Background(), n.ID, "owner"))

	stored, err := repo.FindByID(context.Background(), n.ID, "owner")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Deleting again answers not-found.
	err = uc.Execute(context.Background(), n.ID, "owner")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDelete_OtherUsersNotification(t *testing.T) {
	repo := newFakeNotificationRepo()
	n := seedNotification(t, repo, "owner")

	uc := NewDeleteNotificationUseCase(repo, newFakeCache(), testLog())

	err := uc.Execute(context.Background(), n.ID, "intruder")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestMarkAllRead_InvalidatesCachedCount(t *testing.T) {
	repo := newFakeNotificationRepo()
	seedNotification(t, repo, "owner")
	seedNotification(t, repo, "owner")

	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), "notifications:unread:owner", "2", 0))

	uc := NewMarkAllReadUseCase(repo, cache, testLog())
	require.NoError(t, uc.Execute(context.Background(), "owner"))

	total, err := repo.CountUnread(context.Background(), "owner")
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = cache.Get(context.Background(), "notifications:unread:owner")
	assert.Error(t, err)
}

func TestUnreadCount_PopulatesAndUsesCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	seedNotification(t, repo, "owner")
	seedNotification(t, repo, "owner")

	uc := NewUnreadCountUseCase(repo, newFakeCache(), testLog())

	total, err := uc.Execute(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 1, repo.countCalls)

	// Second read is served from the cache.
	total, err = uc.Execute(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 1, repo.countCalls)
}

func TestListNotifications_CapsTheLimit(t *testing.T) {
	repo := newFakeNotificationRepo()
	for i := 0; i < 60; i++ {
		seedNotification(t, repo, "owner")
	}

	uc := NewListNotificationsUseCase(repo)

	out, err := uc.Execute(context.Background(), "owner", 500)
	require.NoError(t, err)
	assert.Len(t, out, 50)
}
