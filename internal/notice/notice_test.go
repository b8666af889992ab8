package notice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	c := NewCenter(nil)
	var got []Notice
	unsubscribe := c.Subscribe(func(n Notice) { got = append(got, n) })

	c.Error("Server error. Please try again later.")
	c.Success("Comment added")
	c.Publish(Notice{Level: LevelInfo})

	require.Len(t, got, 2)
	assert.Equal(t, LevelError, got[0].Level)
	assert.False(t, got[0].At.IsZero())
	assert.Equal(t, "Comment added", got[1].Message)

	unsubscribe()
	c.Info("ignored")
	assert.Len(t, got, 2)
}

func TestRecentKeepsBoundedHistory(t *testing.T) {
	c := NewCenter(nil)
	for i := 0; i < historySize+10; i++ {
		c.Info(fmt.Sprintf("n%d", i))
	}

	all := c.Recent(0)
	require.Len(t, all, historySize)
	assert.Equal(t, "n10", all[0].Message)

	last := c.Recent(2)
	require.Len(t, last, 2)
	assert.Equal(t, fmt.Sprintf("n%d", historySize+9), last[1].Message)
}
