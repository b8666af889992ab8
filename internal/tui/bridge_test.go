package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads n deliveries from the bridge and flattens them
func drain(t *testing.T, b *Bridge, n int) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	for i := 0; i < n; i++ {
		bm, ok := b.Listen()().(bridgedMsg)
		require.True(t, ok)
		out = append(out, bm.msgs...)
	}
	return out
}

func TestBridgeKeepsFinalBusyWhenFull(t *testing.T) {
	b := NewBridge()
	for i := 0; i < 100; i++ {
		b.Send(NoticeMsg{Notice: notice.Notice{Message: "spam"}})
	}
	b.Send(BusyMsg{Visible: true})
	b.Send(UnreadMsg{Count: 3})
	b.Send(BusyMsg{Visible: false})
	b.Send(UnreadMsg{Count: 4})

	// 64 buffered notices plus one wake-up
	msgs := drain(t, b, 65)

	var busy []BusyMsg
	var unread []UnreadMsg
	notices := 0
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case BusyMsg:
			busy = append(busy, msg)
		case UnreadMsg:
			unread = append(unread, msg)
		case NoticeMsg:
			notices++
		}
	}
	assert.Equal(t, 64, notices)
	assert.Equal(t, []BusyMsg{{Visible: false}}, busy)
	assert.Equal(t, []UnreadMsg{{Count: 4}}, unread)
}

func TestBridgeDeliversStateAfterEarlierDrain(t *testing.T) {
	b := NewBridge()

	b.Send(BusyMsg{Visible: true})
	assert.Equal(t, []tea.Msg{BusyMsg{Visible: true}}, drain(t, b, 1))

	b.Send(StoreChangedMsg{})
	b.Send(BusyMsg{Visible: false})
	assert.Equal(t, []tea.Msg{StoreChangedMsg{}, BusyMsg{Visible: false}}, drain(t, b, 1))
}

func TestSpinnerStopsAfterFloodedBridge(t *testing.T) {
	m := newTestModel(t, domain.RolePlayer)

	end := m.svc.Busy.Begin()
	for i := 0; i < 100; i++ {
		m.svc.Notices.Warn("noisy")
	}
	end()

	for i := 0; i < 65; i++ {
		m = update(t, m, m.bridge.Listen()())
	}
	assert.False(t, m.Loading)
	assert.Equal(t, "noisy", m.StatusMsg)
}
