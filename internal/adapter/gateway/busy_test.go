package gateway

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusyOnlyAnnouncesEdges(t *testing.T) {
	b := NewBusy()
	var seen []bool
	b.Subscribe(func(v bool) { seen = append(seen, v) })

	end1 := b.Begin()
	end2 := b.Begin()
	end3 := b.Begin()
	assert.Equal(t, []bool{true}, seen)

	end2()
	end1()
	assert.True(t, b.Active())
	assert.Equal(t, []bool{true}, seen)

	end3()
	assert.False(t, b.Active())
	assert.Equal(t, []bool{true, false}, seen)
}

func TestBusyEndIsIdempotent(t *testing.T) {
	b := NewBusy()
	end := b.Begin()
	other := b.Begin()

	end()
	end()
	end()
	assert.Equal(t, 1, b.Count())

	other()
	assert.Equal(t, 0, b.Count())
}

func TestBusyNeverGoesNegative(t *testing.T) {
	b := NewBusy()
	var seen []bool
	unsubscribe := b.Subscribe(func(v bool) { seen = append(seen, v) })

	b.end()
	assert.Equal(t, 0, b.Count())
	assert.Empty(t, seen)

	unsubscribe()
	b.Begin()()
	assert.Empty(t, seen)
}

func TestBusyLastDeliveryMatchesState(t *testing.T) {
	b := NewBusy()

	var (
		mu      sync.Mutex
		seen    []bool
		stalled bool
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	b.Subscribe(func(v bool) {
		mu.Lock()
		stall := !v && !stalled
		stalled = stalled || stall
		mu.Unlock()
		if stall {
			close(entered)
			<-release
		}
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	end := b.Begin()
	ended := make(chan struct{})
	go func() {
		end()
		close(ended)
	}()
	<-entered

	// a new request starts while the hide is still being delivered
	began := make(chan func(), 1)
	go func() { began <- b.Begin() }()
	require.Eventually(t, func() bool { return b.Count() == 1 }, time.Second, time.Millisecond)

	close(release)
	<-ended
	endSecond := <-began

	assert.True(t, b.Active())
	mu.Lock()
	assert.Equal(t, []bool{true, false, true}, seen)
	mu.Unlock()

	endSecond()
	mu.Lock()
	assert.Equal(t, []bool{true, false, true, false}, seen)
	mu.Unlock()
}

func TestBusyConcurrentRequestsSettle(t *testing.T) {
	b := NewBusy()
	var (
		mu   sync.Mutex
		last bool
	)
	b.Subscribe(func(v bool) {
		mu.Lock()
		last = v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Begin()()
		}()
	}
	wg.Wait()

	hold := b.Begin()
	mu.Lock()
	assert.True(t, last)
	mu.Unlock()

	hold()
	mu.Lock()
	assert.False(t, last)
	mu.Unlock()
}
