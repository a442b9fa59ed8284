package scoped

import "sync"

// Lock is a read/write lock whose holders are explicit Guard values rather
// than goroutines. A Guard may re-enter the lock in either mode, and a Guard
// that is the only reader may promote itself to writer.
//
// Readers may hold the lock concurrently. A writer excludes everyone except
// the Guard that holds it. A waiting writer does not hold back new readers:
// a reader nested inside another read on the same goroutine must get in, or
// it would wait on the writer that waits on its own caller.
type Lock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	readers map[*Guard]struct{}
	writer  *Guard
}

// NewLock creates an unlocked Lock.
func NewLock() *Lock {
	l := &Lock{readers: make(map[*Guard]struct{})}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Guard is one logical holder of a Lock. Guards are created by Lock.Read and
// Lock.Write and handed to the callback; nested calls on the same Guard are
// reentrant.
type Guard struct {
	lock   *Lock
	reads  int
	writes int
	// registered is true while this guard is counted in lock.readers.
	registered bool
}

// Read runs fn while holding the lock for reading.
func (l *Lock) Read(fn func(g *Guard)) {
	g := &Guard{lock: l}
	g.Read(fn)
}

// Write runs fn while holding the lock for writing.
func (l *Lock) Write(fn func(g *Guard)) {
	g := &Guard{lock: l}
	g.Write(fn)
}

// Read runs fn with at least read access. If g already holds the lock in any
// mode, fn runs immediately.
func (g *Guard) Read(fn func(g *Guard)) {
	g.acquireRead()
	defer g.releaseRead()
	fn(g)
}

// Write runs fn with write access. If g already writes, fn runs immediately.
// If g is currently a reader, it is promoted once every other reader has
// released; the promotion is undone when fn returns.
//
// Two readers promoting at the same time wait on each other forever, so
// promotion is only safe when the caller knows it is the sole reader.
func (g *Guard) Write(fn func(g *Guard)) {
	g.acquireWrite()
	defer g.releaseWrite()
	fn(g)
}

// Writing reports whether g currently holds write access.
func (g *Guard) Writing() bool {
	g.lock.mu.Lock()
	defer g.lock.mu.Unlock()
	return g.writes > 0
}

func (g *Guard) acquireRead() {
	l := g.lock
	l.mu.Lock()
	defer l.mu.Unlock()

	if g.reads > 0 || g.writes > 0 {
		g.reads++
		return
	}
	for l.writer != nil {
		l.cond.Wait()
	}
	l.readers[g] = struct{}{}
	g.registered = true
	g.reads = 1
}

func (g *Guard) releaseRead() {
	l := g.lock
	l.mu.Lock()
	defer l.mu.Unlock()

	g.reads--
	if g.reads == 0 && g.registered {
		delete(l.readers, g)
		g.registered = false
		l.cond.Broadcast()
	}
}

func (g *Guard) acquireWrite() {
	l := g.lock
	l.mu.Lock()
	defer l.mu.Unlock()

	if g.writes > 0 {
		g.writes++
		return
	}
	for !l.writableBy(g) {
		l.cond.Wait()
	}
	l.writer = g
	g.writes = 1
}

func (g *Guard) releaseWrite() {
	l := g.lock
	l.mu.Lock()
	defer l.mu.Unlock()

	g.writes--
	if g.writes == 0 {
		l.writer = nil
		l.cond.Broadcast()
	}
}

// writableBy reports whether g may take the write lock. Caller holds l.mu.
func (l *Lock) writableBy(g *Guard) bool {
	if l.writer != nil {
		return false
	}
	switch len(l.readers) {
	case 0:
		return true
	case 1:
		_, sole := l.readers[g]
		return sole
	default:
		return false
	}
}
