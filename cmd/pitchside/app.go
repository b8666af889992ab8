package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/pharaohs/pitchside/internal/adapter"
	"github.com/pharaohs/pitchside/internal/adapter/backend"
	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/compress"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/service"
	"github.com/pharaohs/pitchside/internal/session"
	"github.com/pharaohs/pitchside/internal/store"
	"github.com/pharaohs/pitchside/internal/tui"
	"go.uber.org/multierr"
)

// app holds the wired client: config, cache, session, and services
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	cache   *store.Cache
	session *session.Manager
	notices *notice.Center
	gw      *gateway.Client
	svc     tui.Services

	closers []io.Closer
}

// newApp loads the configuration and builds every service
func newApp() (*app, error) {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logCloser = adapter.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	cache, err := store.NewCache(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		logger.Warn("cache unavailable, running in memory", "dir", cfg.Cache.Dir, "error", err)
		cache, _ = store.NewCache("", "")
	}
	a.cache = cache
	a.closers = append(a.closers, cache)

	a.notices = notice.NewCenter(logger)
	a.session = session.NewManager(cache, logger)
	busy := gateway.NewBusy()

	a.gw = gateway.New(gateway.Options{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Server.Timeout,
		Tokens:  a.session,
		Busy:    busy,
		Notices: a.notices,
		Logger:  logger,
	})
	api := backend.NewClient(a.gw, cfg.Server.MediaURL, logger)
	api.SetUploadTimeout(cfg.Server.UploadTimeout)

	engine := compress.NewEngine(compress.Options{
		FFmpegPath:   cfg.Media.FFmpeg,
		FFprobePath:  cfg.Media.FFprobe,
		CaptureLimit: cfg.Media.CaptureLimit,
		Logger:       logger,
	})
	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)

	auth := service.NewAuthService(api, a.session, cache, a.notices, logger)
	a.gw.SetUnauthorizedHandler(auth.SessionExpired)

	a.svc = tui.Services{
		Auth:          auth,
		Session:       a.session,
		Feed:          service.NewFeedService(api, a.session, cache, launcher, a.notices, logger),
		Scouting:      service.NewScoutingService(api.Scout(), a.session, cache, a.notices, logger),
		Player:        service.NewPlayerService(api.Player(), a.session, a.session, cache, a.notices, logger),
		Notifications: service.NewNotificationService(api, a.session, cache, a.notices, logger),
		Admin:         service.NewAdminService(api.Admin(), api, a.session, a.notices, logger),
		Upload: service.NewUploadService(api.Player(), engine, a.session, a.notices, service.UploadOptions{
			VideoBypassBytes: cfg.Media.VideoBypassBytes,
			ImageProfile:     cfg.Media.Image,
			VideoProfile:     cfg.Media.Video,
			AvatarProfile:    cfg.Media.Avatar,
		}, logger),
		Busy:    busy,
		Notices: a.notices,
	}
	return a, nil
}

// printNotices writes published notices to stderr until the returned
// function is called. Subcommands use it in place of the status line.
// reported turns true once a warning or error has been shown.
func (a *app) printNotices(w io.Writer) (stop func(), reported *atomic.Bool) {
	reported = new(atomic.Bool)
	stop = a.notices.Subscribe(func(n notice.Notice) {
		fmt.Fprintf(w, "%s %s\n", noticePrefix(n.Level), n.Message)
		if n.Level >= notice.LevelWarning {
			reported.Store(true)
		}
	})
	return stop, reported
}

func noticePrefix(level notice.Level) string {
	switch level {
	case notice.LevelError:
		return "✗"
	case notice.LevelWarning:
		return "!"
	case notice.LevelSuccess:
		return "✓"
	default:
		return "·"
	}
}

// Close releases the cache and the log file
func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i].Close())
	}
	return err
}
