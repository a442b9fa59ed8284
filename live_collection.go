package liveterm

// liveCollection is the change notification shared by the live collections.
// Every structural change bumps a modification counter held in a LiveVar, so
// a section that read the collection repaints without comparing contents.
type liveCollection struct {
	session  *Session
	modCount *LiveVar[uint64]
}

func newLiveCollection(s *Session) liveCollection {
	return liveCollection{session: s, modCount: NewLiveVar[uint64](s, 0)}
}

// read runs fn under the store's read lock and associates the collection
// with the active section.
func (c *liveCollection) read(fn func()) {
	c.session.data.Read(func(tx *Tx) {
		c.modCount.GetTx(tx)
		fn()
	})
}

// write runs fn under the store's write lock. If fn reports a change, the
// counter is bumped once and the associated section repaints once, after
// the lock is released.
func (c *liveCollection) write(fn func(tx *Tx) bool) {
	c.session.data.Write(func(tx *Tx) {
		if fn(tx) {
			c.modCount.SetTx(tx, c.modCount.value+1)
		}
	})
}

// Version returns the modification count. It changes on every mutation.
func (c *liveCollection) Version() uint64 {
	return c.modCount.Get()
}
