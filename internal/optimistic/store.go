// Package optimistic holds locally-mutable state that is updated before the
// backend confirms a change and reconciled once it answers.
package optimistic

import (
	"log/slog"
	"sync"
)

// Entry is a keyed value that may be absent. Absence is state too: a
// rollback restores it exactly.
type Entry[V any] struct {
	Value   V
	Present bool
}

// Some returns a present entry
func Some[V any](v V) Entry[V] {
	return Entry[V]{Value: v, Present: true}
}

// None returns an absent entry
func None[V any]() Entry[V] {
	return Entry[V]{}
}

// Change is delivered to subscribers whenever a key's entry or pending flag moves
type Change[K comparable, V any] struct {
	Key     K
	Entry   Entry[V]
	Pending bool
}

// Store is a keyed state container with a per-key pending flag.
// All methods are safe for concurrent use.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	pending map[K]bool

	subMu   sync.RWMutex
	subs    map[int]func(Change[K, V])
	nextSub int

	logger *slog.Logger
}

// NewStore creates an empty store
func NewStore[K comparable, V any](logger *slog.Logger) *Store[K, V] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[K, V]{
		entries: make(map[K]V),
		pending: make(map[K]bool),
		subs:    make(map[int]func(Change[K, V])),
		logger:  logger,
	}
}

// Get returns the current entry for key
func (s *Store[K, V]) Get(key K) Entry[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entryLocked(key)
}

// Value returns the value for key and whether it is present
func (s *Store[K, V]) Value(key K) (V, bool) {
	e := s.Get(key)
	return e.Value, e.Present
}

// Pending reports whether a mutation on key is in flight
func (s *Store[K, V]) Pending(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[key]
}

// Len returns the number of present entries
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of all present entries
func (s *Store[K, V]) Entries() map[K]V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[K]V, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Set stores a present value for key
func (s *Store[K, V]) Set(key K, value V) {
	s.put(key, Some(value))
}

// Delete makes key absent
func (s *Store[K, V]) Delete(key K) {
	s.put(key, None[V]())
}

// Replace loads an authoritative snapshot. Keys with a mutation in flight
// keep their optimistic entry; the mutation reconciles them itself.
func (s *Store[K, V]) Replace(values map[K]V) {
	var changes []Change[K, V]

	s.mu.Lock()
	for k := range s.entries {
		if _, ok := values[k]; ok || s.pending[k] {
			continue
		}
		delete(s.entries, k)
		changes = append(changes, Change[K, V]{Key: k, Entry: None[V]()})
	}
	for k, v := range values {
		if s.pending[k] {
			continue
		}
		s.entries[k] = v
		changes = append(changes, Change[K, V]{Key: k, Entry: Some(v)})
	}
	s.mu.Unlock()

	for _, c := range changes {
		s.emit(c)
	}
}

// Clear drops every entry that has no mutation in flight
func (s *Store[K, V]) Clear() {
	s.Replace(nil)
}

// Subscribe registers fn for every change and returns its unsubscribe func
func (s *Store[K, V]) Subscribe(fn func(Change[K, V])) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store[K, V]) put(key K, e Entry[V]) {
	s.mu.Lock()
	s.setLocked(key, e)
	pending := s.pending[key]
	s.mu.Unlock()

	s.emit(Change[K, V]{Key: key, Entry: e, Pending: pending})
}

// begin atomically checks the pending flag, snapshots, applies and marks pending
func (s *Store[K, V]) begin(key K, apply func(Entry[V]) Entry[V]) (Entry[V], Entry[V], bool) {
	s.mu.Lock()
	if s.pending[key] {
		s.mu.Unlock()
		return Entry[V]{}, Entry[V]{}, false
	}
	snapshot := s.entryLocked(key)
	next := snapshot
	if apply != nil {
		next = apply(snapshot)
	}
	s.setLocked(key, next)
	s.pending[key] = true
	s.mu.Unlock()

	s.emit(Change[K, V]{Key: key, Entry: next, Pending: true})
	return snapshot, next, true
}

// settle writes the terminal entry and clears the pending flag
func (s *Store[K, V]) settle(key K, e Entry[V]) {
	s.mu.Lock()
	s.setLocked(key, e)
	delete(s.pending, key)
	s.mu.Unlock()

	s.emit(Change[K, V]{Key: key, Entry: e, Pending: false})
}

func (s *Store[K, V]) entryLocked(key K) Entry[V] {
	v, ok := s.entries[key]
	return Entry[V]{Value: v, Present: ok}
}

func (s *Store[K, V]) setLocked(key K, e Entry[V]) {
	if e.Present {
		s.entries[key] = e.Value
	} else {
		delete(s.entries, key)
	}
}

func (s *Store[K, V]) emit(c Change[K, V]) {
	s.subMu.RLock()
	fns := make([]func(Change[K, V]), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
