package value

import "sync"

// privateMap is the module_id -> Value table attached to every Value
// (spec.md §3.1). It is shared, not copied, across Value duplications,
// which is what lets a handle's owning module keep writing private state
// onto a value as it flows through pipelines that otherwise treat the
// value as immutable.
//
// A mutex guards it defensively: the evaluation model is logically
// single-threaded (spec.md §5), but separate engine runs may execute on
// different goroutines, and a stray concurrent private-data write should
// not be a data race even if it would be a logic bug.
type privateMap struct {
	mu   sync.Mutex
	data map[string]Value
}

func newPrivateMap() *privateMap {
	return &privateMap{}
}

func (p *privateMap) get(moduleID string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[moduleID]
	return v, ok
}

func (p *privateMap) set(moduleID string, v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		p.data = make(map[string]Value)
	}
	p.data[moduleID] = v
}

// GetPrivate returns the Value a module previously attached to v under
// its own module id, or the zero Value and false if none was set.
func (v Value) GetPrivate(moduleID string) (Value, bool) {
	return v.private.get(moduleID)
}

// SetPrivate attaches priv to v under moduleID. Because the private map
// is shared across copies of v (see privateMap doc), this mutation is
// visible through every alias of v, including ones already handed to a
// caller before SetPrivate was called — the sole sanctioned exception to
// Value immutability (spec.md §4.7).
func (v Value) SetPrivate(moduleID string, priv Value) {
	if v.private == nil {
		// A Value with no private map yet (e.g. a bare literal that
		// was never routed through a copy constructor) gets one
		// lazily; it won't be shared with any prior alias, but there
		// were none to share with.
		v.private = newPrivateMap()
	}
	v.private.set(moduleID, priv)
}
