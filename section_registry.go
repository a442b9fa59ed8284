package liveterm

// sectionHandle is a non-owning reference to a registered section. A handle
// outlives its section safely: once the slot is released, lookups through
// the old handle find nothing.
type sectionHandle struct {
	index uint32
	gen   uint32
}

// valid reports whether h was ever issued. Generations start at 1.
func (h sectionHandle) valid() bool { return h.gen != 0 }

func (h sectionHandle) pack() uint64 {
	return uint64(h.index)<<32 | uint64(h.gen)
}

func unpackHandle(v uint64) sectionHandle {
	return sectionHandle{index: uint32(v >> 32), gen: uint32(v)}
}

type registrySlot struct {
	gen     uint32
	section *Section
}

// sectionRegistry is an arena of sections addressed by generation-checked
// handles. It is not safe for concurrent use; the session guards it.
type sectionRegistry struct {
	slots []registrySlot
	free  []uint32
}

func (r *sectionRegistry) add(s *Section) sectionHandle {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.slots))
		r.slots = append(r.slots, registrySlot{})
	}
	slot := &r.slots[index]
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	slot.section = s
	return sectionHandle{index: index, gen: slot.gen}
}

// get returns the section for h, or nil when h is stale or was never issued.
func (r *sectionRegistry) get(h sectionHandle) *Section {
	if !h.valid() || int(h.index) >= len(r.slots) {
		return nil
	}
	slot := r.slots[h.index]
	if slot.gen != h.gen {
		return nil
	}
	return slot.section
}

// remove releases h's slot. Outstanding copies of h go stale.
func (r *sectionRegistry) remove(h sectionHandle) {
	if r.get(h) == nil {
		return
	}
	slot := &r.slots[h.index]
	slot.section = nil
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	r.free = append(r.free, h.index)
}
