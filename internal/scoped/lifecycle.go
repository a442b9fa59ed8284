package scoped

import (
	"sync/atomic"
)

// Lifecycle is a scope boundary for keyed data. Entries can only be stored
// while their lifecycle is active, and stopping a lifecycle disposes them.
// Stopping a lifecycle also stops every lifecycle that declares it as an
// ancestor.
type Lifecycle struct {
	name   string
	parent *Lifecycle
}

// NewLifecycle creates a lifecycle. parent may be nil for a root lifecycle.
func NewLifecycle(name string, parent *Lifecycle) *Lifecycle {
	return &Lifecycle{name: name, parent: parent}
}

// Name returns the lifecycle's debug name.
func (l *Lifecycle) Name() string { return l.name }

// Parent returns the enclosing lifecycle, or nil.
func (l *Lifecycle) Parent() *Lifecycle { return l.parent }

// within reports whether l is other or one of other's descendants.
func (l *Lifecycle) within(other *Lifecycle) bool {
	for cur := l; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (l *Lifecycle) String() string {
	if l.parent == nil {
		return l.name
	}
	return l.parent.String() + "/" + l.name
}

var nextKeyID atomic.Uint64

// Key identifies a typed value in a Store. A key is bound to exactly one
// lifecycle when it is created and can never move to another.
type Key[T any] struct {
	id        uint64
	name      string
	lifecycle *Lifecycle
}

// NewKey creates a key for values of type T scoped to lifecycle.
func NewKey[T any](name string, lifecycle *Lifecycle) Key[T] {
	if lifecycle == nil {
		panic("scoped: key " + name + " has no lifecycle")
	}
	return Key[T]{id: nextKeyID.Add(1), name: name, lifecycle: lifecycle}
}

// Lifecycle returns the lifecycle the key is bound to.
func (k Key[T]) Lifecycle() *Lifecycle { return k.lifecycle }

// Name returns the key's debug name.
func (k Key[T]) Name() string { return k.name }
