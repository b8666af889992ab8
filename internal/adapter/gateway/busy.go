package gateway

import "sync"

// Busy is a reference-counted activity indicator. Listeners hear true when
// the first request starts and false when the last one ends. Deliveries are
// serialized and carry the state at delivery time, so the last value a
// listener hears always matches Active. Listeners must not call Begin.
type Busy struct {
	mu      sync.Mutex
	count   int
	subs    map[int]func(bool)
	nextSub int

	deliver   sync.Mutex // held while listeners run
	announced bool       // last value delivered; guarded by deliver
}

// NewBusy creates an idle indicator
func NewBusy() *Busy {
	return &Busy{subs: make(map[int]func(bool))}
}

// Begin marks one request as started. The returned func ends it; calling it
// more than once has no further effect.
func (b *Busy) Begin() (end func()) {
	b.mu.Lock()
	b.count++
	show := b.count == 1
	b.mu.Unlock()

	if show {
		b.announce()
	}

	var once sync.Once
	return func() {
		once.Do(b.end)
	}
}

func (b *Busy) end() {
	b.mu.Lock()
	if b.count == 0 {
		b.mu.Unlock()
		return
	}
	b.count--
	hide := b.count == 0
	b.mu.Unlock()

	if hide {
		b.announce()
	}
}

// announce tells listeners the current state unless they already have it.
// A caller that lost the race to the delivery lock still reads the latest
// count, so a stale edge is never delivered after a newer one.
func (b *Busy) announce() {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	visible := b.count > 0
	fns := b.listenersLocked()
	b.mu.Unlock()

	if visible == b.announced {
		return
	}
	b.announced = visible
	for _, fn := range fns {
		fn(visible)
	}
}

// Active reports whether any request is in flight
func (b *Busy) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > 0
}

// Count returns the number of requests in flight
func (b *Busy) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Subscribe registers fn for visibility transitions and returns its unsubscribe func
func (b *Busy) Subscribe(fn func(visible bool)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Busy) listenersLocked() []func(bool) {
	fns := make([]func(bool), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	return fns
}
