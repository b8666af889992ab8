package optimistic

import (
	"context"
	"fmt"

	"github.com/pharaohs/pitchside/internal/domain"
)

// Mutation describes one optimistic change to a single key.
type Mutation[K comparable, V any] struct {
	Key K

	// Apply computes the optimistic entry from the current one
	Apply func(current Entry[V]) Entry[V]

	// Commit issues the backend request exactly once. When authoritative
	// is true the returned entry replaces the optimistic one.
	Commit func(ctx context.Context) (result Entry[V], authoritative bool, err error)

	// Refresh re-reads the key from the backend after a commit that carried
	// no authoritative value. Optional.
	Refresh func(ctx context.Context) (Entry[V], error)
}

// Run applies m optimistically and reconciles it with the backend.
//
// A second Run on a key that is still pending returns ErrMutationInFlight
// without calling Commit. A failed Commit restores the exact pre-mutation
// entry, absence included. A failed Refresh keeps the optimistic entry.
func Run[K comparable, V any](ctx context.Context, s *Store[K, V], m Mutation[K, V]) (Entry[V], error) {
	if m.Commit == nil {
		return Entry[V]{}, fmt.Errorf("optimistic: mutation for %v has no commit", m.Key)
	}

	snapshot, optimisticEntry, ok := s.begin(m.Key, m.Apply)
	if !ok {
		return s.Get(m.Key), domain.ErrMutationInFlight
	}

	result, authoritative, err := m.Commit(ctx)
	if err != nil {
		s.settle(m.Key, snapshot)
		s.logger.Debug("optimistic mutation rolled back", "key", m.Key, "error", err)
		return snapshot, err
	}

	final := optimisticEntry
	switch {
	case authoritative:
		final = result
	case m.Refresh != nil:
		refreshed, rerr := m.Refresh(ctx)
		if rerr != nil {
			s.logger.Warn("refresh after mutation failed, keeping optimistic value", "key", m.Key, "error", rerr)
		} else {
			final = refreshed
		}
	}

	s.settle(m.Key, final)
	return final, nil
}
