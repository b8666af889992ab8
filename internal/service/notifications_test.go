package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotificationRepo struct {
	mu      sync.Mutex
	page    *domain.NotificationPage
	listErr error
	unread  int
	polls   atomic.Int32
	readErr map[domain.ID]error
}

func (r *stubNotificationRepo) List(ctx context.Context, page, limit int) (*domain.NotificationPage, error) {
	return r.page, r.listErr
}

func (r *stubNotificationRepo) UnreadCount(ctx context.Context) (int, error) {
	r.polls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unread, nil
}

func (r *stubNotificationRepo) MarkRead(ctx context.Context, id domain.ID) error {
	return r.readErr[id]
}

func (r *stubNotificationRepo) MarkAllRead(ctx context.Context) error { return nil }

func (r *stubNotificationRepo) Delete(ctx context.Context, id domain.ID) error { return nil }

type memNotificationCache struct {
	page *domain.NotificationPage
}

func (c *memNotificationCache) GetNotifications() (*domain.NotificationPage, bool) {
	return c.page, c.page != nil
}

func (c *memNotificationCache) SaveNotifications(p *domain.NotificationPage) error {
	c.page = p
	return nil
}

func TestListUpdatesUnreadAndCaches(t *testing.T) {
	repo := &stubNotificationRepo{page: &domain.NotificationPage{
		Notifications: []domain.Notification{{ID: "1"}, {ID: "2", IsRead: true}},
		UnreadCount:   1,
	}}
	cache := &memNotificationCache{}
	svc := NewNotificationService(repo, sessionAs(domain.RolePlayer), cache, nil, nil)

	var seen []int
	unsubscribe := svc.Subscribe(func(n int) { seen = append(seen, n) })
	defer unsubscribe()

	page, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, 1, svc.Unread())
	assert.Same(t, repo.page, cache.page)

	repo.listErr = domain.ErrServerOffline
	page, err = svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)

	require.NoError(t, svc.Delete(context.Background(), domain.Notification{ID: "1"}))
	require.NoError(t, svc.Delete(context.Background(), domain.Notification{ID: "2", IsRead: true}))
	assert.Equal(t, 0, svc.Unread())
	assert.Equal(t, []int{1, 0}, seen)
}

func TestUnreadNeverNegative(t *testing.T) {
	svc := NewNotificationService(&stubNotificationRepo{}, sessionAs(domain.RolePlayer), nil, nil, nil)
	require.NoError(t, svc.MarkRead(context.Background(), "1"))
	assert.Equal(t, 0, svc.Unread())
}

func TestMarkEachReadCollectsFailures(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	repo := &stubNotificationRepo{unread: 3, readErr: map[domain.ID]error{"1": errA, "3": errB}}
	svc := NewNotificationService(repo, sessionAs(domain.RolePlayer), nil, nil, nil)
	_, err := svc.RefreshUnread(context.Background())
	require.NoError(t, err)

	err = svc.MarkEachRead(context.Background(), []domain.ID{"1", "2", "3"})
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	assert.Equal(t, 2, svc.Unread())
}

func TestMarkAllReadResets(t *testing.T) {
	repo := &stubNotificationRepo{unread: 4}
	notices := &noticeRecorder{}
	svc := NewNotificationService(repo, sessionAs(domain.RoleScout), nil, notices, nil)
	_, err := svc.RefreshUnread(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllRead(context.Background()))
	assert.Equal(t, 0, svc.Unread())
	assert.Equal(t, []string{"All notifications marked as read"}, notices.messages())
}

func TestRefreshUnreadRequiresSession(t *testing.T) {
	repo := &stubNotificationRepo{unread: 2}
	svc := NewNotificationService(repo, &stubSession{}, nil, nil, nil)

	_, err := svc.RefreshUnread(context.Background())
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
	assert.Equal(t, int32(0), repo.polls.Load())
}

func TestPollingStopsOnStop(t *testing.T) {
	repo := &stubNotificationRepo{unread: 5}
	svc := NewNotificationService(repo, sessionAs(domain.RolePlayer), nil, nil, nil)

	stop := svc.StartPolling(context.Background(), 5*time.Millisecond)
	require.Eventually(t, func() bool { return repo.polls.Load() >= 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 5, svc.Unread())

	stop()
	after := repo.polls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, repo.polls.Load())
}

func TestPollingSkipsWhenLoggedOut(t *testing.T) {
	repo := &stubNotificationRepo{unread: 5}
	svc := NewNotificationService(repo, &stubSession{}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stop := svc.StartPolling(ctx, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	cancel()
	stop()
	assert.Equal(t, int32(0), repo.polls.Load())
}
