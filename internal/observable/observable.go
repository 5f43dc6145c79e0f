// Package observable is a small publish/subscribe layer used to propagate
// state changes between the diff model, the alignment computation and the
// panes.
//
// Values notify their subscribers when written. Writes made inside Batch are
// applied immediately but their notifications are deferred until the batch
// ends, so subscribers never observe a half-applied update. Derived values
// recompute lazily on the next read after one of their inputs changed.
package observable

import (
	"slices"
	"sync"
)

// Observable is anything that can announce a change.
type Observable interface {
	// Subscribe registers fn to be called after every change and returns a
	// function that removes the subscription.
	Subscribe(fn func()) (unsubscribe func())
}

// notifier is the part of an observable a Transaction needs to flush.
type notifier interface {
	notify()
}

// Transaction collects the notifications of a Batch.
type Transaction struct {
	pending []notifier
	seen    map[notifier]struct{}
}

func (tx *Transaction) enqueue(n notifier) {
	if _, ok := tx.seen[n]; ok {
		return
	}
	tx.seen[n] = struct{}{}
	tx.pending = append(tx.pending, n)
}

// Batch runs fn and delivers the notifications of every write made through tx
// once fn returns. Each observable is notified at most once per batch.
func Batch(fn func(tx *Transaction)) {
	tx := &Transaction{seen: make(map[notifier]struct{})}
	fn(tx)
	for _, n := range tx.pending {
		n.notify()
	}
}

// subscribers is the shared subscription list.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (s *subscribers) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers) notify() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	// subscription order
	slices.Sort(ids)
	for _, id := range ids {
		s.mu.Lock()
		fn, ok := s.fns[id]
		s.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// Value holds a single value of type T.
type Value[T any] struct {
	subscribers
	mu sync.RWMutex
	v  T
}

// NewValue returns a Value initialised to v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.v
}

// Set stores v. With a nil transaction subscribers are notified immediately,
// otherwise when the surrounding Batch ends.
func (o *Value[T]) Set(v T, tx *Transaction) {
	o.mu.Lock()
	o.v = v
	o.mu.Unlock()
	if tx == nil {
		o.notify()
		return
	}
	tx.enqueue(o)
}

// Signal is an observable without a value; it only announces that something
// happened.
type Signal struct {
	subscribers
}

// NewSignal returns a Signal without subscribers.
func NewSignal() *Signal {
	return &Signal{}
}

// Trigger notifies subscribers, deferred to the end of tx when tx is non-nil.
func (s *Signal) Trigger(tx *Transaction) {
	if tx == nil {
		s.notify()
		return
	}
	tx.enqueue(s)
}

// Derived caches the result of compute and recomputes it on the next Get
// after any dependency changed.
type Derived[T any] struct {
	subscribers
	mu          sync.Mutex
	compute     func() T
	v           T
	dirty       bool
	generation  int
	unsubscribe []func()
}

// NewDerived returns a Derived that depends on deps.
func NewDerived[T any](compute func() T, deps ...Observable) *Derived[T] {
	d := &Derived[T]{compute: compute, dirty: true}
	for _, dep := range deps {
		d.unsubscribe = append(d.unsubscribe, dep.Subscribe(d.invalidate))
	}
	return d
}

func (d *Derived[T]) invalidate() {
	d.mu.Lock()
	d.dirty = true
	d.generation++
	d.mu.Unlock()
	d.notify()
}

// Get returns the cached value, recomputing it first if it is stale.
func (d *Derived[T]) Get() T {
	d.mu.Lock()
	if !d.dirty {
		v := d.v
		d.mu.Unlock()
		return v
	}
	generation := d.generation
	d.mu.Unlock()

	v := d.compute()

	// An invalidation during compute keeps the value dirty.
	d.mu.Lock()
	d.v = v
	d.dirty = d.generation != generation
	d.mu.Unlock()
	return v
}

// Dispose detaches d from its dependencies.
func (d *Derived[T]) Dispose() {
	for _, u := range d.unsubscribe {
		u()
	}
	d.unsubscribe = nil
}

// Autorun calls fn once now and again after every change of deps. The
// returned function stops it.
func Autorun(fn func(), deps ...Observable) (dispose func()) {
	var unsubscribe []func()
	for _, dep := range deps {
		unsubscribe = append(unsubscribe, dep.Subscribe(fn))
	}
	fn()
	return func() {
		for _, u := range unsubscribe {
			u()
		}
	}
}
