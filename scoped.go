// scoped.go re-exports the lifecycle-scoped store from internal/scoped.
// Any changes to internal/scoped types must be mirrored here.
package liveterm

import "github.com/grindlemire/liveterm/internal/scoped"

// Store is the lifecycle-scoped concurrent store shared by a session.
type Store = scoped.Store

// Tx is a handle to the store while its lock is held.
type Tx = scoped.Tx

// Lifecycle is a scope boundary for values in a Store.
type Lifecycle = scoped.Lifecycle

// DataKey identifies a typed value in a Store, bound to one lifecycle.
type DataKey[T any] = scoped.Key[T]

// NewKey creates a key for values of type T scoped to lifecycle.
func NewKey[T any](name string, lifecycle *Lifecycle) DataKey[T] {
	return scoped.NewKey[T](name, lifecycle)
}

// The lifecycles a session manages. Each stops every lifecycle nested in it.
var (
	// SessionLifecycle spans NewSession to Close.
	SessionLifecycle = scoped.NewLifecycle("session", nil)
	// SectionLifecycle spans a section from its run until it finishes or is
	// superseded.
	SectionLifecycle = scoped.NewLifecycle("section", SessionLifecycle)
	// RunLifecycle spans a section's run block. Timers, input state and
	// background jobs live here.
	RunLifecycle = scoped.NewLifecycle("run", SectionLifecycle)
)
