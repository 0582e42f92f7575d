package reconciler

// Op identifies a change to the mounted tree.
type Op uint8

const (
	OpMount Op = iota + 1
	OpUpdate
	OpUnmount
	OpDeclined
	OpMove
	OpCommit
)

// String returns a human-readable name for the op.
func (o Op) String() string {
	switch o {
	case OpMount:
		return "mount"
	case OpUpdate:
		return "update"
	case OpUnmount:
		return "unmount"
	case OpDeclined:
		return "declined"
	case OpMove:
		return "move"
	case OpCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// MarshalText lets events encode ops by name.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Event describes one change. Commit events carry no node.
type Event struct {
	Op     Op     `json:"op"`
	ID     string `json:"id,omitempty"`
	Parent string `json:"parent,omitempty"`
	Type   string `json:"type,omitempty"`
	Key    string `json:"key,omitempty"`
}

// Observer receives tree changes. Observe is called while the reconciler
// holds its tree lock, so it must not block or call back into the
// reconciler.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

func (r *Reconciler) emit(op Op, rec *record) {
	if r.observer == nil {
		return
	}
	e := Event{Op: op}
	if rec != nil {
		e.ID = rec.id.String()
		if !rec.parent.IsZero() {
			e.Parent = rec.parent.String()
		}
		e.Type = rec.node.TypeName()
		if rec.node != nil {
			e.Key = rec.node.Key
		}
	}
	r.observer.Observe(e)
}
