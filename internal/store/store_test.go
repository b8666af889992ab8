package store

import (
	"testing"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.Store = (*Cache)(nil)

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := NewCache(dir, "http://localhost:3000/api")
	require.NoError(t, err)

	_, ok := c.GetSession()
	assert.False(t, ok)

	user := &domain.User{ID: "7", Name: "Ama", Email: "ama@example.com", Role: domain.RolePlayer}
	require.NoError(t, c.SaveSession(domain.SessionRecord{Token: "tok", User: user}))
	require.NoError(t, c.Close())

	c, err = NewCache(dir, "http://localhost:3000/api/")
	require.NoError(t, err)
	defer c.Close()

	rec, ok := c.GetSession()
	require.True(t, ok)
	assert.Equal(t, "tok", rec.Token)
	require.NotNil(t, rec.User)
	assert.Equal(t, *user, *rec.User)

	c.ClearSession()
	_, ok = c.GetSession()
	assert.False(t, ok)
}

func TestCachesAreSeparatedPerServer(t *testing.T) {
	dir := t.TempDir()

	a, err := NewCache(dir, "http://a.example/api")
	require.NoError(t, err)
	require.NoError(t, a.SaveSession(domain.SessionRecord{Token: "a"}))
	require.NoError(t, a.Close())

	b, err := NewCache(dir, "http://b.example/api")
	require.NoError(t, err)
	defer b.Close()
	_, ok := b.GetSession()
	assert.False(t, ok)
}

func TestMemoryOnlyMode(t *testing.T) {
	c, err := NewCache("", "")
	require.NoError(t, err)

	feed := &domain.FeedPage{
		Players:    []domain.PlayerProfile{{ID: "1", Name: "Kofi"}},
		Pagination: domain.PageInfo{Total: 1, Page: 1, Limit: 10, TotalPages: 1},
	}
	require.NoError(t, c.SaveFeed(1, feed))

	got, ok := c.GetFeed(1)
	require.True(t, ok)
	assert.Equal(t, "Kofi", got.Players[0].Name)

	_, ok = c.GetFeed(2)
	assert.False(t, ok)
	require.NoError(t, c.Close())
}

func TestInvalidateFeedKeepsOtherBuckets(t *testing.T) {
	c, err := NewCache(t.TempDir(), "")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SaveFeed(1, &domain.FeedPage{}))
	require.NoError(t, c.SaveFeed(2, &domain.FeedPage{}))
	require.NoError(t, c.SaveShortlist([]domain.PlayerProfile{{ID: "3"}}))

	c.InvalidateFeed()

	_, ok := c.GetFeed(1)
	assert.False(t, ok)
	_, ok = c.GetFeed(2)
	assert.False(t, ok)
	players, ok := c.GetShortlist()
	require.True(t, ok)
	assert.Len(t, players, 1)
}

func TestInvitationsAndNotifications(t *testing.T) {
	c, err := NewCache(t.TempDir(), "")
	require.NoError(t, err)
	defer c.Close()

	sent := []domain.Invitation{{ID: "9", TryoutID: "2", PlayerID: "3", Status: domain.InvitationPending}}
	require.NoError(t, c.SaveInvitations("sent", sent))

	got, ok := c.GetInvitations("sent")
	require.True(t, ok)
	assert.Equal(t, sent, got)

	_, ok = c.GetInvitations("received")
	assert.False(t, ok)

	page := &domain.NotificationPage{
		Notifications: []domain.Notification{{ID: "1", Message: "hi"}},
		UnreadCount:   1,
	}
	require.NoError(t, c.SaveNotifications(page))
	inbox, ok := c.GetNotifications()
	require.True(t, ok)
	assert.Equal(t, 1, inbox.UnreadCount)
}

func TestInvalidateAll(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, "")
	require.NoError(t, err)

	require.NoError(t, c.SaveSession(domain.SessionRecord{Token: "tok"}))
	require.NoError(t, c.SaveShortlist([]domain.PlayerProfile{{ID: "1"}}))
	c.InvalidateAll()
	require.NoError(t, c.Close())

	c, err = NewCache(dir, "")
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.GetSession()
	assert.False(t, ok)
	_, ok = c.GetShortlist()
	assert.False(t, ok)
}
