package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge carries callbacks from services into Bubble Tea. Subscriptions
// fire on arbitrary goroutines; Listen delivers them on the update loop.
//
// Events such as notices queue in a small buffer and are dropped when it is
// full. State messages (busy, unread, store changes) are never dropped: each
// kind keeps only its newest value until the model reads it, so the final
// state always arrives.
type Bridge struct {
	ch   chan tea.Msg
	wake chan struct{}

	mu     sync.Mutex
	latest map[string]tea.Msg
	order  []string
}

// coalescing is implemented by messages where only the newest value matters
type coalescing interface {
	coalesceKey() string
}

func (BusyMsg) coalesceKey() string         { return "busy" }
func (UnreadMsg) coalesceKey() string       { return "unread" }
func (StoreChangedMsg) coalesceKey() string { return "store" }

// NewBridge creates a bridge with a small buffer
func NewBridge() *Bridge {
	return &Bridge{
		ch:     make(chan tea.Msg, 64),
		wake:   make(chan struct{}, 1),
		latest: make(map[string]tea.Msg),
	}
}

// Send queues msg without blocking
func (b *Bridge) Send(msg tea.Msg) {
	c, ok := msg.(coalescing)
	if !ok {
		select {
		case b.ch <- msg:
		default:
		}
		return
	}

	key := c.coalesceKey()
	b.mu.Lock()
	if _, queued := b.latest[key]; !queued {
		b.order = append(b.order, key)
	}
	b.latest[key] = msg
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Listen waits for the next queued message
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return bridgedMsg{msgs: []tea.Msg{msg}}
		case <-b.wake:
			return bridgedMsg{msgs: b.takeLatest()}
		}
	}
}

func (b *Bridge) takeLatest() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := make([]tea.Msg, 0, len(b.order))
	for _, key := range b.order {
		msgs = append(msgs, b.latest[key])
		delete(b.latest, key)
	}
	b.order = b.order[:0]
	return msgs
}

// bridgedMsg wraps queued messages so the model re-arms Listen
type bridgedMsg struct {
	msgs []tea.Msg
}
