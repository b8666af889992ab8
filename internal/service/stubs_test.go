package service

import (
	"context"
	"sync"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
)

type stubSession struct {
	user *domain.User
}

func (s *stubSession) CurrentUser() *domain.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *stubSession) IsLoggedIn() bool { return s.user != nil }

func sessionAs(role domain.Role) *stubSession {
	return &stubSession{user: &domain.User{ID: "1", Name: "Test", Role: role}}
}

type noticeRecorder struct {
	mu  sync.Mutex
	all []notice.Notice
}

func (r *noticeRecorder) Publish(n notice.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

func (r *noticeRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.all))
	for i, n := range r.all {
		out[i] = n.Message
	}
	return out
}

// stubFeedRepo embeds the interface so tests only implement what they use
type stubFeedRepo struct {
	domain.FeedRepository

	mu       sync.Mutex
	calls    map[string]int
	likes    []domain.LikeInfo
	likesErr error

	like   func(ctx context.Context, id domain.ID) (*int, error)
	unlike func(ctx context.Context, id domain.ID) (*int, error)

	comments    map[domain.ID][]domain.Comment
	commentsErr error
	addErr      error
	deleteErr   error
}

func (r *stubFeedRepo) count(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[name]++
}

func (r *stubFeedRepo) called(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *stubFeedRepo) GetLikes(ctx context.Context) ([]domain.LikeInfo, error) {
	r.count("GetLikes")
	return r.likes, r.likesErr
}

func (r *stubFeedRepo) Like(ctx context.Context, id domain.ID) (*int, error) {
	r.count("Like")
	return r.like(ctx, id)
}

func (r *stubFeedRepo) Unlike(ctx context.Context, id domain.ID) (*int, error) {
	r.count("Unlike")
	return r.unlike(ctx, id)
}

func (r *stubFeedRepo) GetComments(ctx context.Context, id domain.ID) ([]domain.Comment, error) {
	r.count("GetComments")
	if r.commentsErr != nil {
		return nil, r.commentsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.comments[id], nil
}

func (r *stubFeedRepo) AddComment(ctx context.Context, id domain.ID, content string) error {
	r.count("AddComment")
	if r.addErr != nil {
		return r.addErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.comments == nil {
		r.comments = map[domain.ID][]domain.Comment{}
	}
	r.comments[id] = append(r.comments[id], domain.Comment{ID: "new", UserID: "1", VideoID: id, Content: content})
	return nil
}

func (r *stubFeedRepo) DeleteComment(ctx context.Context, id domain.ID) error {
	r.count("DeleteComment")
	return r.deleteErr
}

type stubLauncher struct {
	err    error
	opened []string
}

func (l *stubLauncher) Open(url string) error {
	l.opened = append(l.opened, url)
	return l.err
}

func intPtr(n int) *int { return &n }
