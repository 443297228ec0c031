package value

// HandleKind is a tag-like definition owned by a module (spec.md §3.5).
// Like TagDefinition, it records its owning module by id rather than by
// pointer to avoid a value<->module import cycle.
type HandleKind struct {
	Path          []string
	ModuleID      string
	ExtendsParent *HandleKind // parent kind, for hierarchy-aware morph matching
	// DropBlock holds the kind's drop-block AST expression, typed as any
	// for the same reason Block.Body is: keeping this foundational
	// package free of a comp/value<->comp/ast import cycle. comp/handle
	// asserts it back to ast.Expr when running a drop.
	DropBlock any
}

func (k *HandleKind) compEntity() {}

// Name is the handle kind's leaf segment.
func (k *HandleKind) Name() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[len(k.Path)-1]
}

// IsDescendantOf reports whether k is kind or a descendant kind of
// ancestor by walking ExtendsParent links (spec.md §4.7: "child handle
// kinds are accepted for parent-kind fields").
func (k *HandleKind) IsDescendantOf(ancestor *HandleKind) (ok bool, depth int) {
	for cur := k; cur != nil; cur, depth = cur.ExtendsParent, depth+1 {
		if cur == ancestor {
			return true, depth
		}
	}
	return false, 0
}

// HandleInstance is an opaque per-grab runtime handle (spec.md §3.5,
// §4.7). Instances are never equal to one another; comparison is always
// by pointer identity. Releasing is idempotent and monotonic.
type HandleInstance struct {
	Kind     *HandleKind
	ModuleID string
	released bool
	private  Value
}

// NewHandleInstance constructs a fresh, unreleased handle of kind.
func NewHandleInstance(kind *HandleKind, moduleID string) *HandleInstance {
	return &HandleInstance{Kind: kind, ModuleID: moduleID, private: Nil()}
}

// Released reports whether Release has been called on this instance.
func (h *HandleInstance) Released() bool { return h.released }

// Release marks the instance released. It is idempotent: calling it
// again is a no-op and the caller (comp/handle's drop implementation) is
// responsible for only invoking the drop block on the first call.
//
// The caller must set released=true *before* running the drop block so
// that an accidental re-entrant drop of the same handle sees it as
// already released and fails fast instead of re-running the block
// (spec.md §9, "Handle drop blocks").
func (h *HandleInstance) Release() (already bool) {
	if h.released {
		return true
	}
	h.released = true
	return false
}

// Private returns the handle's private-data Value.
func (h *HandleInstance) Private() Value { return h.private }

// SetPrivate replaces the handle's private-data Value wholesale — handles
// are the sole channel for mutable world-state, and even that state is
// never mutated in place, only replaced (spec.md §5).
func (h *HandleInstance) SetPrivate(v Value) { h.private = v }
