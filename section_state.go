package liveterm

// SectionState is one node of the attribute stack used during a render pass.
//
// The applied style is what the terminal currently shows and is shared by
// every node of a stack. The deferred style is what has been requested and
// is copied into each pushed node, so popping discards anything the child
// requested.
type SectionState struct {
	parent   *SectionState
	applied  *Style
	deferred Style
}

// NewSectionState returns a root state with default styling.
func NewSectionState() *SectionState {
	return &SectionState{applied: &Style{}}
}

// Push returns a child state inheriting this state's attributes.
func (s *SectionState) Push() *SectionState {
	return &SectionState{parent: s, applied: s.applied, deferred: s.deferred}
}

// Pop returns the parent state. Popping the root panics: it means scopes
// were nested incorrectly.
func (s *SectionState) Pop() *SectionState {
	if s.parent == nil {
		panic("liveterm: pop of root section state")
	}
	return s.parent
}

// Applied returns the style the terminal currently shows.
func (s *SectionState) Applied() Style { return *s.applied }

// Deferred returns the requested style.
func (s *SectionState) Deferred() Style { return s.deferred }

// Depth returns the number of pushes above the root.
func (s *SectionState) Depth() int {
	n := 0
	for cur := s.parent; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// dirty reports whether text written now would need an SGR sequence first.
func (s *SectionState) dirty() bool {
	return *s.applied != s.deferred
}
