package liveterm

import "slices"

// LiveSet is an insertion-ordered set whose mutations repaint the section
// that last read it.
type LiveSet[T comparable] struct {
	liveCollection
	items []T
	index map[T]int
}

// NewLiveSet creates a set holding items. Duplicates are dropped.
func NewLiveSet[T comparable](s *Session, items ...T) *LiveSet[T] {
	set := &LiveSet[T]{liveCollection: newLiveCollection(s), index: make(map[T]int)}
	e := &SetEditor[T]{set: set}
	for _, item := range items {
		e.Add(item)
	}
	return set
}

// Len returns the number of items.
func (s *LiveSet[T]) Len() int {
	var n int
	s.read(func() { n = len(s.items) })
	return n
}

// Contains reports whether item is in the set.
func (s *LiveSet[T]) Contains(item T) bool {
	var ok bool
	s.read(func() { _, ok = s.index[item] })
	return ok
}

// Items returns the items in insertion order.
func (s *LiveSet[T]) Items() []T {
	var items []T
	s.read(func() { items = slices.Clone(s.items) })
	return items
}

// Add inserts item. It reports false if item was already present.
func (s *LiveSet[T]) Add(item T) bool {
	var added bool
	s.WithWriteLock(func(e *SetEditor[T]) { added = e.Add(item) })
	return added
}

// Remove deletes item. It reports false if item was absent.
func (s *LiveSet[T]) Remove(item T) bool {
	var removed bool
	s.WithWriteLock(func(e *SetEditor[T]) { removed = e.Remove(item) })
	return removed
}

// Clear removes every item.
func (s *LiveSet[T]) Clear() {
	s.WithWriteLock(func(e *SetEditor[T]) { e.Clear() })
}

// WithWriteLock applies a batch of edits atomically. However many edits fn
// makes, the reading section repaints at most once.
//
// fn runs with the store write-locked. Other live values touched inside fn
// must go through e.Tx(), for example count.SetTx(e.Tx(), e.Len()); their
// plain methods would wait for the lock fn is holding.
func (s *LiveSet[T]) WithWriteLock(fn func(e *SetEditor[T])) {
	s.write(func(tx *Tx) bool {
		e := &SetEditor[T]{set: s, tx: tx}
		fn(e)
		return e.changed
	})
}

// SetEditor mutates a LiveSet inside WithWriteLock.
type SetEditor[T comparable] struct {
	set     *LiveSet[T]
	tx      *Tx
	changed bool
}

// Tx returns the transaction the batch runs in.
func (e *SetEditor[T]) Tx() *Tx { return e.tx }

// Contains reports whether item is in the set.
func (e *SetEditor[T]) Contains(item T) bool {
	_, ok := e.set.index[item]
	return ok
}

// Add inserts item. It reports false if item was already present.
func (e *SetEditor[T]) Add(item T) bool {
	if e.Contains(item) {
		return false
	}
	e.set.index[item] = len(e.set.items)
	e.set.items = append(e.set.items, item)
	e.changed = true
	return true
}

// Remove deletes item. It reports false if item was absent.
func (e *SetEditor[T]) Remove(item T) bool {
	i, ok := e.set.index[item]
	if !ok {
		return false
	}
	e.set.items = slices.Delete(e.set.items, i, i+1)
	delete(e.set.index, item)
	for j := i; j < len(e.set.items); j++ {
		e.set.index[e.set.items[j]] = j
	}
	e.changed = true
	return true
}

// Clear removes every item.
func (e *SetEditor[T]) Clear() {
	if len(e.set.items) == 0 {
		return
	}
	e.set.items = nil
	clear(e.set.index)
	e.changed = true
}
