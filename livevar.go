package liveterm

import (
	"sync/atomic"

	"github.com/grindlemire/liveterm/internal/scoped"
)

// LiveVar holds a value that repaints the section that last read it when it
// changes.
//
// A LiveVar remembers that section by handle, so it never keeps a finished
// section alive; writes after the section finished just update the value.
// The value is guarded by the session store's lock, which lets collections
// and callers combine reads and writes of several vars atomically.
//
// Example usage:
//
//	count := liveterm.NewLiveVar(session, 0)
//	session.Run(func(r *liveterm.RenderScope) {
//	    r.Textln(fmt.Sprintf("Count: %d", count.Get()))
//	}, func(rs *liveterm.RunScope) error {
//	    count.Set(1) // repaints the section
//	    return nil
//	})
type LiveVar[T any] struct {
	session *Session
	value   T
	// version counts changes of value. Guarded by the store lock.
	version uint64
	equal   func(a, b T) bool
	// section is the packed handle of the section that last read the var.
	section atomic.Uint64
}

// NewLiveVar creates a var compared by ==.
func NewLiveVar[T comparable](s *Session, value T) *LiveVar[T] {
	return NewLiveVarFunc(s, value, func(a, b T) bool { return a == b })
}

// NewLiveVarFunc creates a var compared by equal.
func NewLiveVarFunc[T any](s *Session, value T, equal func(a, b T) bool) *LiveVar[T] {
	if s == nil {
		panic("liveterm: nil session in NewLiveVar")
	}
	return &LiveVar[T]{session: s, value: value, equal: equal}
}

// Get returns the value and associates the var with the active section.
func (v *LiveVar[T]) Get() T {
	var value T
	v.session.data.Read(func(tx *Tx) { value = v.getLocked(tx) })
	v.touch()
	return value
}

// Set stores value. If it differs from the current value and the section
// that last read the var is still active, that section repaints.
func (v *LiveVar[T]) Set(value T) {
	v.session.data.Write(func(tx *Tx) { v.setLocked(tx, value) })
}

// Update replaces the value with fn applied to it, atomically.
//
// fn runs without the store lock held, so it may read other live values.
// If another write lands while fn runs, fn is called again with the newer
// value; it should not have side effects. Use UpdateTx to update inside a
// transaction.
func (v *LiveVar[T]) Update(fn func(T) T) {
	data := v.session.data
	for {
		var (
			current T
			version uint64
		)
		data.Read(func(tx *Tx) {
			current = v.getLocked(tx)
			version = v.version
		})
		next := fn(current)

		var committed bool
		data.Write(func(tx *Tx) {
			if v.version != version {
				return
			}
			committed = true
			v.setLocked(tx, next)
		})
		if committed {
			return
		}
	}
}

// GetTx is Get inside a transaction.
func (v *LiveVar[T]) GetTx(tx *Tx) T {
	v.touch()
	return v.getLocked(tx)
}

// SetTx is Set inside a transaction. It reports whether the value changed.
// The repaint is requested once the transaction releases the lock.
func (v *LiveVar[T]) SetTx(tx *Tx, value T) bool { return v.setLocked(tx, value) }

// UpdateTx is Update inside a transaction. fn runs with the lock held and
// must reach other live values through tx.
func (v *LiveVar[T]) UpdateTx(tx *Tx, fn func(T) T) bool {
	var changed bool
	tx.Write(func(tx *Tx) { changed = v.setLocked(tx, fn(v.value)) })
	return changed
}

// Notify requests a repaint of the section that last read the var.
func (v *LiveVar[T]) Notify() { v.notify() }

func (v *LiveVar[T]) getLocked(tx *Tx) T {
	var value T
	tx.Read(func(*scoped.Tx) { value = v.value })
	return value
}

func (v *LiveVar[T]) setLocked(tx *Tx, value T) bool {
	var changed bool
	tx.Write(func(tx *scoped.Tx) {
		if v.equal(v.value, value) {
			return
		}
		v.value = value
		v.version++
		changed = true
		tx.AfterRelease(v.notify)
	})
	return changed
}

// touch records the active section, if there is one.
func (v *LiveVar[T]) touch() {
	if h := v.session.activeHandle(); h.valid() {
		v.section.Store(h.pack())
	}
}

// notify repaints the associated section, forgetting it if it is no longer
// active.
func (v *LiveVar[T]) notify() {
	raw := v.section.Load()
	if raw == 0 {
		return
	}
	if !v.session.requestRepaint(unpackHandle(raw)) {
		v.section.CompareAndSwap(raw, 0)
	}
}
