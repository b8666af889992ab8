package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/optimistic"
	"golang.org/x/sync/errgroup"
)

const commentFetchLimit = 4

// FeedCache is the offline copy of feed pages
type FeedCache interface {
	GetFeed(page int) (*domain.FeedPage, bool)
	SaveFeed(page int, feed *domain.FeedPage) error
}

// FeedService drives the post feed: pages, likes, comments, and media viewing
type FeedService struct {
	repo     domain.FeedRepository
	session  Session
	cache    FeedCache
	launcher domain.MediaLauncher
	notices  notice.Publisher
	logger   *slog.Logger

	likes *optimistic.Store[domain.ID, domain.LikeState]

	mu          sync.RWMutex
	comments    map[domain.ID][]domain.Comment
	mediaFailed map[domain.ID]bool
}

// NewFeedService creates a feed service. cache and launcher may be nil.
func NewFeedService(repo domain.FeedRepository, sess Session, cache FeedCache, launcher domain.MediaLauncher, notices notice.Publisher, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{
		repo:        repo,
		session:     sess,
		cache:       cache,
		launcher:    launcher,
		notices:     noticesOrDiscard(notices),
		logger:      logger,
		likes:       optimistic.NewStore[domain.ID, domain.LikeState](logger),
		comments:    make(map[domain.ID][]domain.Comment),
		mediaFailed: make(map[domain.ID]bool),
	}
}

// Likes exposes the like store for subscription
func (s *FeedService) Likes() *optimistic.Store[domain.ID, domain.LikeState] {
	return s.likes
}

// LikeState returns the local like state of a post
func (s *FeedService) LikeState(videoID domain.ID) domain.LikeState {
	st, _ := s.likes.Value(videoID)
	return st
}

// LoadFeed fetches a page. When the backend is unreachable the cached copy
// is returned with stale set.
func (s *FeedService) LoadFeed(ctx context.Context, q domain.FeedQuery) (page *domain.FeedPage, stale bool, err error) {
	if q.Page < 1 {
		q.Page = 1
	}

	page, err = s.repo.GetFeed(ctx, q)
	if err == nil {
		if s.cache != nil && unfiltered(q) {
			if cerr := s.cache.SaveFeed(q.Page, page); cerr != nil {
				s.logger.Warn("failed to cache feed page", "page", q.Page, "error", cerr)
			}
		}
		return page, false, nil
	}

	if s.cache != nil && unfiltered(q) && errors.Is(err, domain.ErrServerOffline) {
		if cached, ok := s.cache.GetFeed(q.Page); ok {
			s.logger.Info("serving cached feed page", "page", q.Page)
			return cached, true, nil
		}
	}
	return nil, false, err
}

func unfiltered(q domain.FeedQuery) bool {
	return q.Club == "" && q.Position == "" && q.Search == "" && q.MinRating == 0
}

// VideoIDs lists every post on a page
func VideoIDs(page *domain.FeedPage) []domain.ID {
	if page == nil {
		return nil
	}
	var ids []domain.ID
	for _, p := range page.Players {
		for _, v := range p.Videos {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// LoadLikes replaces the like state of videoIDs with the server view.
// Posts the server does not mention start at zero. Admins never load likes.
func (s *FeedService) LoadLikes(ctx context.Context, videoIDs []domain.ID) error {
	states := make(map[domain.ID]domain.LikeState, len(videoIDs))
	for _, id := range videoIDs {
		states[id] = domain.LikeState{}
	}

	if s.session != nil && s.session.CurrentUser().Is(domain.RoleAdmin) {
		s.likes.Replace(states)
		return nil
	}

	infos, err := s.repo.GetLikes(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		states[info.VideoID] = domain.LikeState{Count: max(info.LikeCount, 0), LikedByCurrentUser: info.LikedByUser}
	}
	s.likes.Replace(states)
	return nil
}

// ToggleLike flips the current user's like on a post optimistically.
// Admins are refused locally; a second toggle while one is in flight is
// dropped with a notice.
func (s *FeedService) ToggleLike(ctx context.Context, videoID domain.ID) (domain.LikeState, error) {
	if err := guard(s.session, "like",
		"Admin users cannot like posts. This is limited to players and scouts.",
		domain.RolePlayer, domain.RoleScout); err != nil {
		return s.LikeState(videoID), refuse(s.notices, notice.LevelInfo, err)
	}

	var wasLiked bool
	entry, err := optimistic.Run(ctx, s.likes, optimistic.Mutation[domain.ID, domain.LikeState]{
		Key: videoID,
		Apply: func(cur optimistic.Entry[domain.LikeState]) optimistic.Entry[domain.LikeState] {
			st := cur.Value
			wasLiked = st.LikedByCurrentUser
			if wasLiked {
				st.Count = max(st.Count-1, 0)
			} else {
				st.Count++
			}
			st.LikedByCurrentUser = !wasLiked
			return optimistic.Some(st)
		},
		Commit: func(ctx context.Context) (optimistic.Entry[domain.LikeState], bool, error) {
			var (
				count *int
				err   error
			)
			if wasLiked {
				count, err = s.repo.Unlike(ctx, videoID)
			} else {
				count, err = s.repo.Like(ctx, videoID)
			}
			if err != nil || count == nil {
				return optimistic.Entry[domain.LikeState]{}, false, err
			}
			return optimistic.Some(domain.LikeState{Count: max(*count, 0), LikedByCurrentUser: !wasLiked}), true, nil
		},
		Refresh: func(ctx context.Context) (optimistic.Entry[domain.LikeState], error) {
			infos, err := s.repo.GetLikes(ctx)
			if err != nil {
				return optimistic.Entry[domain.LikeState]{}, err
			}
			for _, info := range infos {
				if info.VideoID == videoID {
					return optimistic.Some(domain.LikeState{Count: max(info.LikeCount, 0), LikedByCurrentUser: info.LikedByUser}), nil
				}
			}
			return optimistic.Some(domain.LikeState{}), nil
		},
	})

	switch {
	case errors.Is(err, domain.ErrMutationInFlight):
		publish(s.notices, notice.LevelInfo, "Like action already in progress")
	case err != nil && !gateway.IsCanceled(err):
		s.logger.Warn("like toggle failed", "videoID", videoID, "error", err)
	}
	return entry.Value, err
}

// Comments returns the loaded comments of a post
func (s *FeedService) Comments(videoID domain.ID) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Comment(nil), s.comments[videoID]...)
}

// LoadComments fetches comments for several posts concurrently
func (s *FeedService) LoadComments(ctx context.Context, videoIDs []domain.ID) (map[domain.ID][]domain.Comment, error) {
	var mu sync.Mutex
	result := make(map[domain.ID][]domain.Comment, len(videoIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commentFetchLimit)
	for _, id := range videoIDs {
		g.Go(func() error {
			comments, err := s.repo.GetComments(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			result[id] = comments
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	s.mu.Lock()
	for id, comments := range result {
		s.comments[id] = comments
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to load some comments", "error", err)
	}
	return result, err
}

// AddComment posts a comment and reloads the post's comments. Only players
// may comment.
func (s *FeedService) AddComment(ctx context.Context, videoID domain.ID, content string) ([]domain.Comment, error) {
	if err := guard(s.session, "comment", "Only players can post comments.", domain.RolePlayer); err != nil {
		return nil, refuse(s.notices, notice.LevelWarning, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, refuse(s.notices, notice.LevelWarning, domain.ErrEmptyComment)
	}

	if err := s.repo.AddComment(ctx, videoID, content); err != nil {
		return nil, err
	}
	publish(s.notices, notice.LevelSuccess, "Comment posted successfully")

	comments, err := s.repo.GetComments(ctx, videoID)
	if err != nil {
		s.logger.Warn("failed to reload comments", "videoID", videoID, "error", err)
		return nil, err
	}
	s.mu.Lock()
	s.comments[videoID] = comments
	s.mu.Unlock()
	return comments, nil
}

// CanDeleteComment reports whether the current user may delete c
func (s *FeedService) CanDeleteComment(c domain.Comment) bool {
	if s.session == nil || !s.session.IsLoggedIn() {
		return false
	}
	user := s.session.CurrentUser()
	return user.Is(domain.RoleAdmin) || (user != nil && user.ID != "" && user.ID == c.UserID)
}

// DeleteComment removes a comment the current user owns (or any, for admins)
func (s *FeedService) DeleteComment(ctx context.Context, c domain.Comment) error {
	if !s.CanDeleteComment(c) {
		err := &domain.RoleError{Action: "delete comment", Reason: "You do not have permission to delete this comment."}
		return refuse(s.notices, notice.LevelError, err)
	}

	err := s.repo.DeleteComment(ctx, c.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	s.mu.Lock()
	list := s.comments[c.VideoID]
	kept := list[:0:0]
	for _, existing := range list {
		if existing.ID != c.ID {
			kept = append(kept, existing)
		}
	}
	s.comments[c.VideoID] = kept
	s.mu.Unlock()

	if err == nil {
		publish(s.notices, notice.LevelSuccess, "Comment deleted successfully")
	}
	return nil
}

// DeleteVideo removes one of the current player's posts
func (s *FeedService) DeleteVideo(ctx context.Context, videoID domain.ID) error {
	if err := guard(s.session, "delete post", "Only players can delete their posts.", domain.RolePlayer); err != nil {
		return refuse(s.notices, notice.LevelWarning, err)
	}
	if err := s.repo.DeleteVideo(ctx, videoID); err != nil {
		return err
	}
	s.likes.Delete(videoID)
	s.mu.Lock()
	delete(s.comments, videoID)
	delete(s.mediaFailed, videoID)
	s.mu.Unlock()
	publish(s.notices, notice.LevelSuccess, "Post deleted successfully")
	return nil
}

// UpdateVideo edits a post description
func (s *FeedService) UpdateVideo(ctx context.Context, videoID domain.ID, description string) error {
	if err := guard(s.session, "edit post", "Only players can edit their posts.", domain.RolePlayer); err != nil {
		return refuse(s.notices, notice.LevelWarning, err)
	}
	if err := s.repo.UpdateVideo(ctx, videoID, strings.TrimSpace(description)); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "Post updated successfully")
	return nil
}

// OpenMedia hands a post to the external viewer. A launch failure marks
// the post so the feed can render it as unavailable.
func (s *FeedService) OpenMedia(v domain.Video) error {
	if s.launcher == nil || v.URL == "" {
		s.setMediaFailed(v.ID, true)
		return domain.ErrNotFound
	}
	if err := s.launcher.Open(v.URL); err != nil {
		s.logger.Error("failed to open media", "videoID", v.ID, "url", v.URL, "error", err)
		s.setMediaFailed(v.ID, true)
		publish(s.notices, notice.LevelError, "Unable to open this media.")
		return err
	}
	s.setMediaFailed(v.ID, false)
	return nil
}

// MediaFailed reports whether a post failed to open
func (s *FeedService) MediaFailed(videoID domain.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mediaFailed[videoID]
}

func (s *FeedService) setMediaFailed(videoID domain.ID, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if failed {
		s.mediaFailed[videoID] = true
	} else {
		delete(s.mediaFailed, videoID)
	}
}
