package liveterm

import "slices"

// LiveList is a list whose mutations repaint the section that last read it.
type LiveList[T any] struct {
	liveCollection
	items []T
}

// NewLiveList creates a list holding items.
func NewLiveList[T any](s *Session, items ...T) *LiveList[T] {
	return &LiveList[T]{liveCollection: newLiveCollection(s), items: slices.Clone(items)}
}

// Len returns the number of items.
func (l *LiveList[T]) Len() int {
	var n int
	l.read(func() { n = len(l.items) })
	return n
}

// At returns the item at index i. It panics if i is out of range.
func (l *LiveList[T]) At(i int) T {
	var v T
	l.read(func() { v = l.items[i] })
	return v
}

// Items returns a copy of the items.
func (l *LiveList[T]) Items() []T {
	var items []T
	l.read(func() { items = slices.Clone(l.items) })
	return items
}

// WithReadLock runs fn with the items while holding the read lock. fn must
// not retain or modify the slice. It may read other live values but must
// not write them.
func (l *LiveList[T]) WithReadLock(fn func(items []T)) {
	l.read(func() { fn(l.items) })
}

// Add appends items.
func (l *LiveList[T]) Add(items ...T) {
	l.WithWriteLock(func(e *ListEditor[T]) { e.Add(items...) })
}

// Insert places item at index i.
func (l *LiveList[T]) Insert(i int, item T) {
	l.WithWriteLock(func(e *ListEditor[T]) { e.Insert(i, item) })
}

// Set replaces the item at index i.
func (l *LiveList[T]) Set(i int, item T) {
	l.WithWriteLock(func(e *ListEditor[T]) { e.Set(i, item) })
}

// RemoveAt removes the item at index i.
func (l *LiveList[T]) RemoveAt(i int) {
	l.WithWriteLock(func(e *ListEditor[T]) { e.RemoveAt(i) })
}

// Clear removes every item.
func (l *LiveList[T]) Clear() {
	l.WithWriteLock(func(e *ListEditor[T]) { e.Clear() })
}

// WithWriteLock applies a batch of edits atomically. However many edits fn
// makes, the reading section repaints at most once.
//
// fn runs with the store write-locked. Other live values touched inside fn
// must go through e.Tx(), for example count.SetTx(e.Tx(), e.Len()); their
// plain methods would wait for the lock fn is holding.
func (l *LiveList[T]) WithWriteLock(fn func(e *ListEditor[T])) {
	l.write(func(tx *Tx) bool {
		e := &ListEditor[T]{list: l, tx: tx}
		fn(e)
		return e.changed
	})
}

// ListEditor mutates a LiveList inside WithWriteLock.
type ListEditor[T any] struct {
	list    *LiveList[T]
	tx      *Tx
	changed bool
}

// Tx returns the transaction the batch runs in.
func (e *ListEditor[T]) Tx() *Tx { return e.tx }

// Len returns the number of items.
func (e *ListEditor[T]) Len() int { return len(e.list.items) }

// At returns the item at index i.
func (e *ListEditor[T]) At(i int) T { return e.list.items[i] }

// Add appends items.
func (e *ListEditor[T]) Add(items ...T) {
	if len(items) == 0 {
		return
	}
	e.list.items = append(e.list.items, items...)
	e.changed = true
}

// Insert places item at index i.
func (e *ListEditor[T]) Insert(i int, item T) {
	e.list.items = slices.Insert(e.list.items, i, item)
	e.changed = true
}

// Set replaces the item at index i.
func (e *ListEditor[T]) Set(i int, item T) {
	e.list.items[i] = item
	e.changed = true
}

// RemoveAt removes the item at index i.
func (e *ListEditor[T]) RemoveAt(i int) {
	e.list.items = slices.Delete(e.list.items, i, i+1)
	e.changed = true
}

// RemoveFunc removes every item for which del returns true.
func (e *ListEditor[T]) RemoveFunc(del func(T) bool) {
	n := len(e.list.items)
	e.list.items = slices.DeleteFunc(e.list.items, del)
	if len(e.list.items) != n {
		e.changed = true
	}
}

// Clear removes every item.
func (e *ListEditor[T]) Clear() {
	if len(e.list.items) == 0 {
		return
	}
	e.list.items = nil
	e.changed = true
}
