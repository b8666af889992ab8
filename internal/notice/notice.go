// Package notice carries short user-facing messages (toasts) from services
// to whichever front end is attached.
package notice

import (
	"log/slog"
	"sync"
	"time"
)

// Level is the severity of a notice
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a single user-facing message
type Notice struct {
	Level   Level
	Message string
	At      time.Time
}

// Publisher accepts notices
type Publisher interface {
	Publish(n Notice)
}

const historySize = 50

// Center fans notices out to subscribers and keeps a short history
type Center struct {
	mu      sync.RWMutex
	subs    map[int]func(Notice)
	nextSub int
	history []Notice

	logger *slog.Logger
	now    func() time.Time
}

// NewCenter creates a notice center
func NewCenter(logger *slog.Logger) *Center {
	if logger == nil {
		logger = slog.Default()
	}
	return &Center{
		subs:   make(map[int]func(Notice)),
		logger: logger,
		now:    time.Now,
	}
}

// Publish delivers n to every subscriber
func (c *Center) Publish(n Notice) {
	if n.Message == "" {
		return
	}
	if n.At.IsZero() {
		n.At = c.now()
	}

	c.mu.Lock()
	c.history = append(c.history, n)
	if len(c.history) > historySize {
		c.history = c.history[len(c.history)-historySize:]
	}
	fns := make([]func(Notice), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	c.logger.Debug("notice", "level", n.Level.String(), "message", n.Message)

	for _, fn := range fns {
		fn(n)
	}
}

func (c *Center) Info(msg string)    { c.Publish(Notice{Level: LevelInfo, Message: msg}) }
func (c *Center) Success(msg string) { c.Publish(Notice{Level: LevelSuccess, Message: msg}) }
func (c *Center) Warn(msg string)    { c.Publish(Notice{Level: LevelWarning, Message: msg}) }
func (c *Center) Error(msg string)   { c.Publish(Notice{Level: LevelError, Message: msg}) }

// Subscribe registers fn and returns its unsubscribe func
func (c *Center) Subscribe(fn func(Notice)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Recent returns up to the last n notices, oldest first
func (c *Center) Recent(n int) []Notice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || n > len(c.history) {
		n = len(c.history)
	}
	out := make([]Notice, n)
	copy(out, c.history[len(c.history)-n:])
	return out
}

// Discard is a Publisher that drops everything
type Discard struct{}

func (Discard) Publish(Notice) {}
