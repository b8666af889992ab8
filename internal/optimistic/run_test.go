package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Count int
	Liked bool
}

func toggle(e Entry[counter]) Entry[counter] {
	c := e.Value
	if c.Liked {
		c.Count = max(0, c.Count-1)
	} else {
		c.Count++
	}
	c.Liked = !c.Liked
	return Some(c)
}

func TestRunAdoptsAuthoritativeValue(t *testing.T) {
	s := NewStore[string, counter](nil)
	s.Set("v1", counter{Count: 4})

	got, err := Run(context.Background(), s, Mutation[string, counter]{
		Key:   "v1",
		Apply: toggle,
		Commit: func(ctx context.Context) (Entry[counter], bool, error) {
			return Some(counter{Count: 9, Liked: true}), true, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, counter{Count: 9, Liked: true}, got.Value)
	assert.Equal(t, got, s.Get("v1"))
	assert.False(t, s.Pending("v1"))
}

func TestRunRollsBackToExactSnapshot(t *testing.T) {
	s := NewStore[string, counter](nil)
	s.Set("v1", counter{Count: 2, Liked: false})
	boom := errors.New("boom")

	_, err := Run(context.Background(), s, Mutation[string, counter]{
		Key:   "v1",
		Apply: toggle,
		Commit: func(ctx context.Context) (Entry[counter], bool, error) {
			assert.Equal(t, counter{Count: 3, Liked: true}, s.Get("v1").Value, "optimistic value visible during commit")
			assert.True(t, s.Pending("v1"))
			return Entry[counter]{}, false, boom
		},
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Some(counter{Count: 2}), s.Get("v1"))
	assert.False(t, s.Pending("v1"))
}

func TestRunRollbackRestoresAbsence(t *testing.T) {
	s := NewStore[string, bool](nil)

	_, err := Run(context.Background(), s, Mutation[string, bool]{
		Key:   "p7",
		Apply: func(Entry[bool]) Entry[bool] { return Some(true) },
		Commit: func(ctx context.Context) (Entry[bool], bool, error) {
			return Entry[bool]{}, false, errors.New("409")
		},
	})
	require.Error(t, err)
	assert.False(t, s.Get("p7").Present)
	assert.Equal(t, 0, s.Len())
}

func TestRunRejectsConcurrentMutationOnSameKey(t *testing.T) {
	s := NewStore[string, counter](nil)
	s.Set("v1", counter{Count: 1})

	release := make(chan struct{})
	entered := make(chan struct{})
	commits := 0
	var mu sync.Mutex

	m := Mutation[string, counter]{
		Key:   "v1",
		Apply: toggle,
		Commit: func(ctx context.Context) (Entry[counter], bool, error) {
			mu.Lock()
			commits++
			mu.Unlock()
			close(entered)
			<-release
			return Entry[counter]{}, false, nil
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := Run(context.Background(), s, m)
		done <- err
	}()
	<-entered

	_, err := Run(context.Background(), s, m)
	require.ErrorIs(t, err, domain.ErrMutationInFlight)

	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, 1, commits)
	mu.Unlock()
	assert.Equal(t, counter{Count: 2, Liked: true}, s.Get("v1").Value)
}

func TestRunDoesNotBlockOtherKeys(t *testing.T) {
	s := NewStore[string, bool](nil)
	release := make(chan struct{})
	entered := make(chan struct{})

	go func() {
		_, _ = Run(context.Background(), s, Mutation[string, bool]{
			Key: "a",
			Commit: func(ctx context.Context) (Entry[bool], bool, error) {
				close(entered)
				<-release
				return Entry[bool]{}, false, nil
			},
		})
	}()
	<-entered
	defer close(release)

	_, err := Run(context.Background(), s, Mutation[string, bool]{
		Key:    "b",
		Apply:  func(Entry[bool]) Entry[bool] { return Some(true) },
		Commit: func(ctx context.Context) (Entry[bool], bool, error) { return Entry[bool]{}, false, nil },
	})
	require.NoError(t, err)
	assert.True(t, s.Get("b").Value)
}

func TestRunRefreshesWithoutAuthoritativeValue(t *testing.T) {
	s := NewStore[string, counter](nil)

	got, err := Run(context.Background(), s, Mutation[string, counter]{
		Key:    "v1",
		Apply:  toggle,
		Commit: func(ctx context.Context) (Entry[counter], bool, error) { return Entry[counter]{}, false, nil },
		Refresh: func(ctx context.Context) (Entry[counter], error) {
			return Some(counter{Count: 12, Liked: true}), nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, got.Value.Count)
}

func TestRunKeepsOptimisticValueWhenRefreshFails(t *testing.T) {
	s := NewStore[string, counter](nil)

	got, err := Run(context.Background(), s, Mutation[string, counter]{
		Key:    "v1",
		Apply:  toggle,
		Commit: func(ctx context.Context) (Entry[counter], bool, error) { return Entry[counter]{}, false, nil },
		Refresh: func(ctx context.Context) (Entry[counter], error) {
			return Entry[counter]{}, errors.New("offline")
		},
	})
	require.NoError(t, err)
	assert.Equal(t, counter{Count: 1, Liked: true}, got.Value)
	assert.False(t, s.Pending("v1"))
}

func TestRunRequiresCommit(t *testing.T) {
	s := NewStore[string, bool](nil)
	_, err := Run(context.Background(), s, Mutation[string, bool]{Key: "x"})
	require.Error(t, err)
	assert.False(t, s.Pending("x"))
}

func TestSubscribersSeePendingTransitions(t *testing.T) {
	s := NewStore[string, bool](nil)
	var seen []bool
	unsubscribe := s.Subscribe(func(c Change[string, bool]) {
		seen = append(seen, c.Pending)
	})

	_, err := Run(context.Background(), s, Mutation[string, bool]{
		Key:    "k",
		Apply:  func(Entry[bool]) Entry[bool] { return Some(true) },
		Commit: func(ctx context.Context) (Entry[bool], bool, error) { return Entry[bool]{}, false, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, seen)

	unsubscribe()
	unsubscribe()
	s.Set("k", false)
	assert.Len(t, seen, 2)
}

func TestReplaceSkipsPendingKeys(t *testing.T) {
	s := NewStore[string, int](nil)
	s.Set("a", 1)
	s.Set("gone", 5)

	release := make(chan struct{})
	entered := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Run(context.Background(), s, Mutation[string, int]{
			Key:   "a",
			Apply: func(Entry[int]) Entry[int] { return Some(2) },
			Commit: func(ctx context.Context) (Entry[int], bool, error) {
				close(entered)
				<-release
				return Entry[int]{}, false, nil
			},
		})
	}()
	<-entered

	s.Replace(map[string]int{"a": 100, "b": 3})
	assert.Equal(t, 2, s.Get("a").Value)
	assert.Equal(t, 3, s.Get("b").Value)
	assert.False(t, s.Get("gone").Present)

	close(release)
	<-done
	assert.Equal(t, map[string]int{"a": 2, "b": 3}, s.Entries())
}
