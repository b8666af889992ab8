package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeAdoptsServerCount(t *testing.T) {
	repo := &stubFeedRepo{
		like: func(context.Context, domain.ID) (*int, error) { return intPtr(9), nil },
	}
	notices := &noticeRecorder{}
	svc := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, notices, nil)
	svc.Likes().Set("v1", domain.LikeState{Count: 4})

	st, err := svc.ToggleLike(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{Count: 9, LikedByCurrentUser: true}, st)
	assert.Equal(t, st, svc.LikeState("v1"))
	assert.False(t, svc.Likes().Pending("v1"))
	assert.Equal(t, 0, repo.called("GetLikes"))
}

func TestToggleLikeRefreshesWithoutCount(t *testing.T) {
	repo := &stubFeedRepo{
		unlike: func(context.Context, domain.ID) (*int, error) { return nil, nil },
		likes:  []domain.LikeInfo{{VideoID: "v1", LikeCount: 2}},
	}
	svc := NewFeedService(repo, sessionAs(domain.RoleScout), nil, nil, nil, nil)
	svc.Likes().Set("v1", domain.LikeState{Count: 5, LikedByCurrentUser: true})

	st, err := svc.ToggleLike(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{Count: 2}, st)
	assert.Equal(t, 1, repo.called("GetLikes"))
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubFeedRepo{
		like: func(context.Context, domain.ID) (*int, error) { return nil, boom },
	}
	svc := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, nil, nil)
	svc.Likes().Set("v1", domain.LikeState{Count: 3})

	st, err := svc.ToggleLike(context.Background(), "v1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.LikeState{Count: 3}, st)
	assert.Equal(t, domain.LikeState{Count: 3}, svc.LikeState("v1"))
}

func TestToggleLikeUnlikeNeverGoesNegative(t *testing.T) {
	release := make(chan struct{})
	repo := &stubFeedRepo{
		unlike: func(context.Context, domain.ID) (*int, error) {
			<-release
			return intPtr(0), nil
		},
	}
	svc := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, nil, nil)
	svc.Likes().Set("v1", domain.LikeState{Count: 0, LikedByCurrentUser: true})

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.ToggleLike(context.Background(), "v1")
	}()

	require.Eventually(t, func() bool { return svc.Likes().Pending("v1") }, time.Second, time.Millisecond)
	assert.Equal(t, 0, svc.LikeState("v1").Count)
	assert.False(t, svc.LikeState("v1").LikedByCurrentUser)
	close(release)
	<-done
}

func TestToggleLikeDropsSecondToggleWhilePending(t *testing.T) {
	release := make(chan struct{})
	repo := &stubFeedRepo{
		like: func(context.Context, domain.ID) (*int, error) {
			<-release
			return intPtr(1), nil
		},
	}
	notices := &noticeRecorder{}
	svc := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, notices, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ToggleLike(context.Background(), "v1")
		done <- err
	}()
	require.Eventually(t, func() bool { return svc.Likes().Pending("v1") }, time.Second, time.Millisecond)

	_, err := svc.ToggleLike(context.Background(), "v1")
	require.ErrorIs(t, err, domain.ErrMutationInFlight)
	assert.Contains(t, notices.messages(), "Like action already in progress")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, repo.called("Like"))
	assert.Equal(t, domain.LikeState{Count: 1, LikedByCurrentUser: true}, svc.LikeState("v1"))
}

func TestToggleLikeRefusesAdmin(t *testing.T) {
	repo := &stubFeedRepo{}
	notices := &noticeRecorder{}
	svc := NewFeedService(repo, sessionAs(domain.RoleAdmin), nil, nil, notices, nil)

	_, err := svc.ToggleLike(context.Background(), "v1")
	require.ErrorIs(t, err, domain.ErrRoleNotPermitted)
	assert.Equal(t, 0, repo.called("Like"))
	assert.Equal(t, []string{"Admin users cannot like posts. This is limited to players and scouts."}, notices.messages())
}

func TestLoadLikesFillsMissingWithZero(t *testing.T) {
	repo := &stubFeedRepo{likes: []domain.LikeInfo{{VideoID: "a", LikeCount: 3, LikedByUser: true}}}
	svc := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, nil, nil)

	require.NoError(t, svc.LoadLikes(context.Background(), []domain.ID{"a", "b"}))
	assert.Equal(t, domain.LikeState{Count: 3, LikedByCurrentUser: true}, svc.LikeState("a"))
	assert.True(t, svc.Likes().Get("b").Present)

	admin := NewFeedService(repo, sessionAs(domain.RoleAdmin), nil, nil, nil, nil)
	require.NoError(t, admin.LoadLikes(context.Background(), []domain.ID{"a"}))
	assert.Equal(t, 1, repo.called("GetLikes"))
}

func TestAddCommentRules(t *testing.T) {
	repo := &stubFeedRepo{}
	notices := &noticeRecorder{}

	scout := NewFeedService(repo, sessionAs(domain.RoleScout), nil, nil, notices, nil)
	_, err := scout.AddComment(context.Background(), "v1", "hi")
	require.ErrorIs(t, err, domain.ErrRoleNotPermitted)
	assert.Equal(t, "Only players can post comments.", notices.messages()[0])

	player := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, notices, nil)
	_, err = player.AddComment(context.Background(), "v1", "   ")
	require.ErrorIs(t, err, domain.ErrEmptyComment)
	assert.Equal(t, 0, repo.called("AddComment"))

	comments, err := player.AddComment(context.Background(), "v1", "  great run ")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "great run", comments[0].Content)
	assert.Equal(t, comments, player.Comments("v1"))
}

func TestDeleteCommentOwnership(t *testing.T) {
	repo := &stubFeedRepo{}
	notices := &noticeRecorder{}

	player := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, notices, nil)
	own := domain.Comment{ID: "c1", UserID: "1", VideoID: "v"}
	other := domain.Comment{ID: "c2", UserID: "2", VideoID: "v"}

	assert.True(t, player.CanDeleteComment(own))
	assert.False(t, player.CanDeleteComment(other))

	require.ErrorIs(t, player.DeleteComment(context.Background(), other), domain.ErrRoleNotPermitted)
	assert.Equal(t, 0, repo.called("DeleteComment"))
	require.NoError(t, player.DeleteComment(context.Background(), own))

	admin := NewFeedService(repo, sessionAs(domain.RoleAdmin), nil, nil, notices, nil)
	assert.True(t, admin.CanDeleteComment(other))
}

func TestLoadCommentsFansOut(t *testing.T) {
	repo := &stubFeedRepo{comments: map[domain.ID][]domain.Comment{
		"a": {{ID: "1"}},
		"b": {{ID: "2"}, {ID: "3"}},
	}}
	svc := NewFeedService(repo, sessionAs(domain.RolePlayer), nil, nil, nil, nil)

	got, err := svc.LoadComments(context.Background(), []domain.ID{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, got["a"], 1)
	assert.Len(t, got["b"], 2)
	assert.Empty(t, got["c"])
	assert.Equal(t, 3, repo.called("GetComments"))
	assert.Len(t, svc.Comments("b"), 2)
}

func TestOpenMediaTracksFailures(t *testing.T) {
	launcher := &stubLauncher{err: errors.New("no player")}
	svc := NewFeedService(&stubFeedRepo{}, sessionAs(domain.RolePlayer), nil, launcher, nil, nil)
	v := domain.Video{ID: "v1", URL: "http://x/v.mp4"}

	require.Error(t, svc.OpenMedia(v))
	assert.True(t, svc.MediaFailed("v1"))

	launcher.err = nil
	require.NoError(t, svc.OpenMedia(v))
	assert.False(t, svc.MediaFailed("v1"))
	assert.Len(t, launcher.opened, 2)
}

func TestVideoIDs(t *testing.T) {
	page := &domain.FeedPage{Players: []domain.PlayerProfile{
		{Videos: []domain.Video{{ID: "1"}, {ID: "2"}}},
		{Videos: []domain.Video{{ID: "3"}}},
	}}
	assert.Equal(t, []domain.ID{"1", "2", "3"}, VideoIDs(page))
	assert.Nil(t, VideoIDs(nil))
}
