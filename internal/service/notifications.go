package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"go.uber.org/multierr"
)

// DefaultPollInterval is how often the unread count is refreshed
const DefaultPollInterval = 60 * time.Second

// NotificationCache is the offline copy of the inbox
type NotificationCache interface {
	GetNotifications() (*domain.NotificationPage, bool)
	SaveNotifications(page *domain.NotificationPage) error
}

// NotificationService manages the inbox and the unread badge
type NotificationService struct {
	repo    domain.NotificationRepository
	session Session
	cache   NotificationCache
	notices notice.Publisher
	logger  *slog.Logger

	mu     sync.Mutex
	unread int
	subs   map[int]func(int)
	nextID int
}

// NewNotificationService creates a notification service. cache may be nil.
func NewNotificationService(repo domain.NotificationRepository, sess Session, cache NotificationCache, notices notice.Publisher, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		repo:    repo,
		session: sess,
		cache:   cache,
		notices: noticesOrDiscard(notices),
		logger:  logger,
		subs:    make(map[int]func(int)),
	}
}

// Unread returns the last known unread count
func (s *NotificationService) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Subscribe registers fn for unread count changes
func (s *NotificationService) Subscribe(fn func(unread int)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *NotificationService) setUnread(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	changed := s.unread != n
	s.unread = n
	fns := make([]func(int), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range fns {
		fn(n)
	}
}

// List fetches a page of notifications and updates the unread count.
// Page 1 is cached for offline use.
func (s *NotificationService) List(ctx context.Context, page, limit int) (*domain.NotificationPage, error) {
	res, err := s.repo.List(ctx, page, limit)
	if err != nil {
		if page <= 1 && s.cache != nil && errors.Is(err, domain.ErrServerOffline) {
			if cached, ok := s.cache.GetNotifications(); ok {
				return cached, nil
			}
		}
		return nil, err
	}

	s.setUnread(res.UnreadCount)
	if page <= 1 && s.cache != nil {
		if cerr := s.cache.SaveNotifications(res); cerr != nil {
			s.logger.Warn("failed to cache notifications", "error", cerr)
		}
	}
	return res, nil
}

// RefreshUnread re-reads the unread count
func (s *NotificationService) RefreshUnread(ctx context.Context) (int, error) {
	if s.session == nil || !s.session.IsLoggedIn() {
		return 0, domain.ErrNotLoggedIn
	}
	n, err := s.repo.UnreadCount(ctx)
	if err != nil {
		return s.Unread(), err
	}
	s.setUnread(n)
	return n, nil
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(ctx context.Context, id domain.ID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return err
	}
	s.setUnread(s.Unread() - 1)
	return nil
}

// MarkAllRead marks the whole inbox read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.repo.MarkAllRead(ctx); err != nil {
		return err
	}
	s.setUnread(0)
	publish(s.notices, notice.LevelSuccess, "All notifications marked as read")
	return nil
}

// MarkEachRead marks the given notifications read one by one, collecting
// every failure.
func (s *NotificationService) MarkEachRead(ctx context.Context, ids []domain.ID) error {
	var errs error
	for _, id := range ids {
		errs = multierr.Append(errs, s.MarkRead(ctx, id))
	}
	return errs
}

// Delete removes a notification. Deleting an unread one lowers the count.
func (s *NotificationService) Delete(ctx context.Context, n domain.Notification) error {
	if err := s.repo.Delete(ctx, n.ID); err != nil {
		return err
	}
	if !n.IsRead {
		s.setUnread(s.Unread() - 1)
	}
	return nil
}

// StartPolling refreshes the unread count now and then every interval while
// a session is held. It stops when ctx is done or stop is called; stop
// waits for the poller to exit.
func (s *NotificationService) StartPolling(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (s *NotificationService) poll(ctx context.Context) {
	if s.session == nil || !s.session.IsLoggedIn() {
		return
	}
	if _, err := s.RefreshUnread(ctx); err != nil && ctx.Err() == nil {
		s.logger.Debug("unread poll failed", "error", err)
	}
}
