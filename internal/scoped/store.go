package scoped

import (
	"slices"
)

// Store is a concurrent key/value store whose entries are tagged with a
// lifecycle. Every operation is serialized by one Lock, which dependent
// subsystems share (through Tx) to compose their own atomic operations.
//
// Lookups under an inactive lifecycle are not errors: they report absence,
// since a caller racing a teardown is expected.
type Store struct {
	lock    *Lock
	active  map[*Lifecycle]struct{}
	entries map[uint64]*entry
	order   []uint64
}

type entry struct {
	name      string
	lifecycle *Lifecycle
	value     any
	dispose   func()
}

// New creates an empty store with no active lifecycles.
func New() *Store {
	return &Store{
		lock:    NewLock(),
		active:  make(map[*Lifecycle]struct{}),
		entries: make(map[uint64]*entry),
	}
}

// Lock returns the lock shared by the store and everything composed on it.
func (s *Store) Lock() *Lock { return s.lock }

// Tx is a handle to the store while its lock is held. Operations on a Tx
// reuse the held lock instead of acquiring it again.
type Tx struct {
	store *Store
	guard *Guard
	after []func()
}

// Store returns the store the transaction belongs to.
func (tx *Tx) Store() *Store { return tx.store }

// Guard returns the lock guard held by the transaction.
func (tx *Tx) Guard() *Guard { return tx.guard }

// AfterRelease queues fn to run once the transaction's lock is released.
// Work that may need the lock itself, such as waking another goroutine that
// reads the store, belongs here.
func (tx *Tx) AfterRelease(fn func()) {
	tx.after = append(tx.after, fn)
}

// Read runs fn with read access to the store.
func (s *Store) Read(fn func(tx *Tx)) {
	tx := &Tx{store: s}
	s.lock.Read(func(g *Guard) {
		tx.guard = g
		fn(tx)
	})
	tx.release()
}

// Write runs fn with exclusive access to the store.
func (s *Store) Write(fn func(tx *Tx)) {
	tx := &Tx{store: s}
	s.lock.Write(func(g *Guard) {
		tx.guard = g
		fn(tx)
	})
	tx.release()
}

func (tx *Tx) release() {
	after := tx.after
	tx.after = nil
	for _, fn := range after {
		fn()
	}
}

// Read runs fn with read access, reusing the transaction's hold.
func (tx *Tx) Read(fn func(tx *Tx)) {
	tx.guard.Read(func(*Guard) { fn(tx) })
}

// Write runs fn with exclusive access, promoting a read hold if needed.
func (tx *Tx) Write(fn func(tx *Tx)) {
	tx.guard.Write(func(*Guard) { fn(tx) })
}

// Accessor is implemented by *Store and *Tx. Functions taking an Accessor
// lock the store themselves when given a *Store and reuse the held lock when
// given a *Tx.
type Accessor interface {
	Read(fn func(tx *Tx))
	Write(fn func(tx *Tx))
}

var (
	_ Accessor = (*Store)(nil)
	_ Accessor = (*Tx)(nil)
)

// Start activates lifecycle so keys bound to it can be stored.
func (s *Store) Start(lifecycle *Lifecycle) {
	s.Write(func(tx *Tx) { tx.Start(lifecycle) })
}

// Start activates lifecycle inside an existing transaction.
func (tx *Tx) Start(lifecycle *Lifecycle) {
	tx.Write(func(tx *Tx) {
		tx.store.active[lifecycle] = struct{}{}
	})
}

// Stop deactivates lifecycle and every active lifecycle beneath it,
// disposing and removing all of their entries.
//
// Disposers run with the store write-locked. They must not block on work
// that itself needs the store.
func (s *Store) Stop(lifecycle *Lifecycle) {
	s.Write(func(tx *Tx) { tx.Stop(lifecycle) })
}

// Stop deactivates lifecycle inside an existing transaction.
func (tx *Tx) Stop(lifecycle *Lifecycle) {
	tx.Write(func(tx *Tx) {
		tx.store.stopLocked(func(l *Lifecycle) bool { return l.within(lifecycle) })
	})
}

// StopAll deactivates every lifecycle and disposes every entry.
func (s *Store) StopAll() {
	s.Write(func(tx *Tx) {
		tx.store.stopLocked(func(*Lifecycle) bool { return true })
	})
}

// IsActive reports whether lifecycle has been started and not stopped.
func (s *Store) IsActive(lifecycle *Lifecycle) bool {
	var active bool
	s.Read(func(tx *Tx) { active = tx.IsActive(lifecycle) })
	return active
}

// IsActive reports whether lifecycle is active inside a transaction.
func (tx *Tx) IsActive(lifecycle *Lifecycle) bool {
	_, ok := tx.store.active[lifecycle]
	return ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	var n int
	s.Read(func(tx *Tx) { n = len(tx.store.entries) })
	return n
}

// stopLocked disposes entries of every lifecycle matched by match, deepest
// lifecycles first, then marks them inactive. Caller holds the write lock.
func (s *Store) stopLocked(match func(*Lifecycle) bool) {
	stopping := make(map[*Lifecycle]int)
	for l := range s.active {
		if match(l) {
			stopping[l] = depth(l)
		}
	}
	for _, e := range s.entries {
		if match(e.lifecycle) {
			stopping[e.lifecycle] = depth(e.lifecycle)
		}
	}
	if len(stopping) == 0 {
		return
	}

	victims := make([]uint64, 0, len(s.order))
	for _, id := range s.order {
		if _, ok := stopping[s.entries[id].lifecycle]; ok {
			victims = append(victims, id)
		}
	}
	// Children first; within one lifecycle, insertion order.
	slices.SortStableFunc(victims, func(a, b uint64) int {
		return stopping[s.entries[b].lifecycle] - stopping[s.entries[a].lifecycle]
	})

	for _, id := range victims {
		e := s.entries[id]
		s.removeLocked(id)
		if e.dispose != nil {
			e.dispose()
		}
	}
	for l := range stopping {
		delete(s.active, l)
	}
}

func (s *Store) removeLocked(id uint64) {
	delete(s.entries, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func depth(l *Lifecycle) int {
	n := 0
	for cur := l.parent; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// Get returns the value stored under key, if any.
func Get[T any](a Accessor, key Key[T]) (T, bool) {
	var (
		value T
		ok    bool
	)
	a.Read(func(tx *Tx) {
		e, found := tx.store.entries[key.id]
		if !found {
			return
		}
		value, ok = e.value.(T)
	})
	return value, ok
}

// Contains reports whether a value is stored under key.
func Contains[T any](a Accessor, key Key[T]) bool {
	_, ok := Get(a, key)
	return ok
}

// TryPut stores the value returned by provide under key, replacing (and
// disposing) any previous value. It does nothing and returns false when the
// key's lifecycle is not active; provide is not called in that case.
func TryPut[T any](a Accessor, key Key[T], provide func() T, dispose func(T)) bool {
	var stored bool
	a.Write(func(tx *Tx) {
		if !tx.IsActive(key.lifecycle) {
			return
		}
		s := tx.store
		if old, ok := s.entries[key.id]; ok {
			s.removeLocked(key.id)
			if old.dispose != nil {
				old.dispose()
			}
		}
		insertLocked(s, key, provide(), dispose)
		stored = true
	})
	return stored
}

// PutIfAbsent stores the value returned by provide under key unless one is
// already present, then runs block (if non-nil) on the stored value inside
// the same write transaction. It returns false, without calling provide or
// block, when the key's lifecycle is not active.
func PutIfAbsent[T any](a Accessor, key Key[T], provide func() T, dispose func(T), block func(tx *Tx, value T)) bool {
	var present bool
	a.Write(func(tx *Tx) {
		if !tx.IsActive(key.lifecycle) {
			return
		}
		s := tx.store
		var value T
		if e, ok := s.entries[key.id]; ok {
			value = e.value.(T)
		} else {
			value = provide()
			insertLocked(s, key, value, dispose)
		}
		present = true
		if block != nil {
			block(tx, value)
		}
	})
	return present
}

// GetOrPut is PutIfAbsent returning the stored value.
func GetOrPut[T any](a Accessor, key Key[T], provide func() T, dispose func(T)) (T, bool) {
	var value T
	ok := PutIfAbsent(a, key, provide, dispose, func(_ *Tx, v T) { value = v })
	return value, ok
}

// Remove disposes and removes the value under key. It returns false when
// nothing was stored.
func Remove[T any](a Accessor, key Key[T]) bool {
	var removed bool
	a.Write(func(tx *Tx) {
		e, ok := tx.store.entries[key.id]
		if !ok {
			return
		}
		tx.store.removeLocked(key.id)
		if e.dispose != nil {
			e.dispose()
		}
		removed = true
	})
	return removed
}

func insertLocked[T any](s *Store, key Key[T], value T, dispose func(T)) {
	var release func()
	if dispose != nil {
		release = func() { dispose(value) }
	}
	s.entries[key.id] = &entry{name: key.name, lifecycle: key.lifecycle, value: value, dispose: release}
	s.order = append(s.order, key.id)
}
