package liveterm

import "slices"

// LiveMap is an insertion-ordered map whose mutations repaint the section
// that last read it.
type LiveMap[K comparable, V any] struct {
	liveCollection
	keys   []K
	values map[K]V
}

// NewLiveMap creates an empty map.
func NewLiveMap[K comparable, V any](s *Session) *LiveMap[K, V] {
	return &LiveMap[K, V]{liveCollection: newLiveCollection(s), values: make(map[K]V)}
}

// Len returns the number of entries.
func (m *LiveMap[K, V]) Len() int {
	var n int
	m.read(func() { n = len(m.keys) })
	return n
}

// Get returns the value for key.
func (m *LiveMap[K, V]) Get(key K) (V, bool) {
	var (
		v  V
		ok bool
	)
	m.read(func() { v, ok = m.values[key] })
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *LiveMap[K, V]) Keys() []K {
	var keys []K
	m.read(func() { keys = slices.Clone(m.keys) })
	return keys
}

// Range calls fn for each entry in insertion order while holding the read
// lock, stopping early if fn returns false. fn may read other live values
// but must not write them.
func (m *LiveMap[K, V]) Range(fn func(key K, value V) bool) {
	m.read(func() {
		for _, k := range m.keys {
			if !fn(k, m.values[k]) {
				return
			}
		}
	})
}

// Put stores value under key.
func (m *LiveMap[K, V]) Put(key K, value V) {
	m.WithWriteLock(func(e *MapEditor[K, V]) { e.Put(key, value) })
}

// Delete removes key. It reports false if key was absent.
func (m *LiveMap[K, V]) Delete(key K) bool {
	var removed bool
	m.WithWriteLock(func(e *MapEditor[K, V]) { removed = e.Delete(key) })
	return removed
}

// Clear removes every entry.
func (m *LiveMap[K, V]) Clear() {
	m.WithWriteLock(func(e *MapEditor[K, V]) { e.Clear() })
}

// WithWriteLock applies a batch of edits atomically. However many edits fn
// makes, the reading section repaints at most once.
//
// fn runs with the store write-locked. Other live values touched inside fn
// must go through e.Tx(), for example count.SetTx(e.Tx(), e.Len()); their
// plain methods would wait for the lock fn is holding.
func (m *LiveMap[K, V]) WithWriteLock(fn func(e *MapEditor[K, V])) {
	m.write(func(tx *Tx) bool {
		e := &MapEditor[K, V]{m: m, tx: tx}
		fn(e)
		return e.changed
	})
}

// MapEditor mutates a LiveMap inside WithWriteLock.
type MapEditor[K comparable, V any] struct {
	m       *LiveMap[K, V]
	tx      *Tx
	changed bool
}

// Tx returns the transaction the batch runs in.
func (e *MapEditor[K, V]) Tx() *Tx { return e.tx }

// Get returns the value for key.
func (e *MapEditor[K, V]) Get(key K) (V, bool) {
	v, ok := e.m.values[key]
	return v, ok
}

// Put stores value under key. A new key goes to the end of the order.
func (e *MapEditor[K, V]) Put(key K, value V) {
	if _, ok := e.m.values[key]; !ok {
		e.m.keys = append(e.m.keys, key)
	}
	e.m.values[key] = value
	e.changed = true
}

// Delete removes key. It reports false if key was absent.
func (e *MapEditor[K, V]) Delete(key K) bool {
	if _, ok := e.m.values[key]; !ok {
		return false
	}
	delete(e.m.values, key)
	e.m.keys = slices.DeleteFunc(e.m.keys, func(k K) bool { return k == key })
	e.changed = true
	return true
}

// Clear removes every entry.
func (e *MapEditor[K, V]) Clear() {
	if len(e.m.keys) == 0 {
		return
	}
	e.m.keys = nil
	clear(e.m.values)
	e.changed = true
}
