package reconciler

import (
	"fmt"

	"github.com/vango-dev/reactor/pkg/hooks"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// ID addresses a mounted node. It pairs an arena index with the generation
// of the record that was stored there, so an ID kept after its node has
// unmounted never resolves to whatever reuses the index.
type ID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether the ID was never issued.
func (id ID) IsZero() bool {
	return id.gen == 0
}

// String returns the ID as "index.generation".
func (id ID) String() string {
	return fmt.Sprintf("%d.%d", id.index, id.gen)
}

// ParseID parses the form produced by String.
func ParseID(s string) (ID, error) {
	var id ID
	if _, err := fmt.Sscanf(s, "%d.%d", &id.index, &id.gen); err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrUnknownInstance, s)
	}
	if id.gen == 0 {
		return ID{}, fmt.Errorf("%w: %q", ErrUnknownInstance, s)
	}
	return id, nil
}

// record is the persistent state of one tree position.
type record struct {
	id     ID
	parent ID // zero for roots
	kind   vdom.Kind
	node   *vdom.Node

	// Host: the realized target and the target it lives in.
	// Composite: parentTarget is shared with its rendered children.
	target       Target
	parentTarget Target

	children []ID
	store    *hooks.Store // composite only

	// declined is set on a host whose renderer returned no target.
	declined bool

	// rendered holds the commit epoch of the last render, so one commit
	// renders each composite at most once.
	rendered uint64
}

type arenaSlot struct {
	gen uint32
	rec *record
}

// arena stores records by index. Freed indices are reused with a bumped
// generation.
type arena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

func (a *arena) alloc() *record {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot{})
	}
	s := &a.slots[idx]
	s.gen++
	s.rec = &record{id: ID{index: idx, gen: s.gen}}
	a.live++
	return s.rec
}

func (a *arena) get(id ID) *record {
	if id.gen == 0 || int(id.index) >= len(a.slots) {
		return nil
	}
	s := a.slots[id.index]
	if s.gen != id.gen {
		return nil
	}
	return s.rec
}

func (a *arena) release(id ID) {
	if a.get(id) == nil {
		return
	}
	a.slots[id.index].rec = nil
	a.free = append(a.free, id.index)
	a.live--
}

func (a *arena) len() int {
	return a.live
}
