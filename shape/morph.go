// Package shape implements the shape/morph engine of spec.md §4.4: the
// core of the core. It scores a value against a shape (or against every
// variant of a union shape) and, on success, produces the reshaped
// Value an overload call or explicit `~shape`/`~~shape`/`~?shape`
// operator receives.
//
// This is the Go analog of cuelang.org/go/internal/core/adt's
// unification and disjunction machinery (unify.go, disjunct.go,
// closed.go): morph's "try every variant, score it, keep the best" is
// structurally the same search CUE runs over `|`-disjunctions, just
// scored by a fixed four-component tuple instead of CUE's subsumption
// lattice.
package shape

import (
	"comp-lang.dev/comp/value"
)

// Mode selects one of the three strictness modes of spec.md §4.4's
// table.
type Mode int

const (
	// Normal: extra value fields are kept, missing named fields fail
	// (unless defaulted), defaults are applied.
	Normal Mode = iota
	// Strong: extra value fields fail the match, missing named fields
	// fail (unless defaulted), defaults are applied.
	Strong
	// Weak: extra value fields are dropped, missing named fields are
	// allowed, defaults are NOT applied.
	Weak
)

// Result is the four-tuple match score plus the reshaped Value of
// spec.md §4.4. The four components compare lexicographically; any
// successful match has Value non-nil, and conversely (spec.md §8).
type Result struct {
	NamedMatches      int
	TagDepth          int
	AssignmentWeight  int
	PositionalMatches int
	Value             *value.Value
}

// Success reports whether the match succeeded.
func (r Result) Success() bool { return r.Value != nil }

// Less reports whether r scores strictly lower than other, comparing
// the four components lexicographically in the order spec.md §4.4
// defines them.
func (r Result) Less(other Result) bool {
	if r.NamedMatches != other.NamedMatches {
		return r.NamedMatches < other.NamedMatches
	}
	if r.TagDepth != other.TagDepth {
		// Shallower hierarchy distance is a *better*, not worse, match
		// (spec.md §4.4 phase E: tag_depth is incremented by hierarchy
		// distance, and a closer/more specific match should win), so a
		// smaller TagDepth sorts as higher score: invert the comparison.
		return r.TagDepth > other.TagDepth
	}
	if r.AssignmentWeight != other.AssignmentWeight {
		return r.AssignmentWeight < other.AssignmentWeight
	}
	return r.PositionalMatches < other.PositionalMatches
}

type fieldSlot struct {
	field value.ShapeField
	idx   int // index into shape.Fields, stable identity for "unfilled" bookkeeping
	filled bool
	val   value.Value
}

// Morph runs the Normal-mode match of v against shape (spec.md §4.4).
func Morph(v value.Value, shape *value.ShapeDefinition) Result {
	return match(v, shape, Normal)
}

// StrongMorph runs the Strong-mode match.
func StrongMorph(v value.Value, shape *value.ShapeDefinition) Result {
	return match(v, shape, Strong)
}

// WeakMorph runs the Weak-mode match.
func WeakMorph(v value.Value, shape *value.ShapeDefinition) Result {
	return match(v, shape, Weak)
}

// Match runs shape's match in the given mode; callers holding a
// declaration-supplied Mode (e.g. an overload's declared strictness,
// spec.md §4.4 "Overload dispatch") use this instead of the three named
// wrappers.
func Match(v value.Value, shape *value.ShapeDefinition, mode Mode) Result {
	return match(v, shape, mode)
}

func fail() Result { return Result{} }

func match(v value.Value, shape *value.ShapeDefinition, mode Mode) Result {
	if shape.IsUnion {
		return matchUnion(v, shape.UnionMembers, mode)
	}
	return matchSingle(v, shape, mode)
}

// matchUnion attempts every variant and returns the highest-scoring
// success; ties break by first-declared variant (spec.md §4.4 "Union
// shapes").
func matchUnion(v value.Value, members []*value.ShapeDefinition, mode Mode) Result {
	var best Result
	found := false
	for _, m := range members {
		r := match(v, m, mode)
		if !r.Success() {
			continue
		}
		if !found || best.Less(r) {
			best = r
			found = true
		}
	}
	if !found {
		return fail()
	}
	return best
}

func matchSingle(v value.Value, shape *value.ShapeDefinition, mode Mode) Result {
	if ok, r := matchPrimitive(v, shape); ok {
		return r
	}

	working := v
	if !working.IsStruct() {
		working = working.AsStruct()
	}
	src := working.Struct()

	slots := make([]*fieldSlot, len(shape.Fields))
	for i, f := range shape.Fields {
		slots[i] = &fieldSlot{field: f, idx: i}
	}

	result := Result{}
	out := value.Struct(nil)
	consumedPositions := make(map[int]bool) // index into src.entries consumed

	// Phase A: named matching.
	for i := 0; i < src.Len(); i++ {
		k, fv := src.EntryAt(i)
		if !k.IsNamed() {
			continue
		}
		if !k.Value.IsText() {
			continue
		}
		name := k.Value.Text()
		for _, slot := range slots {
			if slot.filled || !slot.field.IsNamed() || slot.field.Name != name {
				continue
			}
			tr, ok := typeCheck(fv, slot.field.Type, mode)
			if !ok {
				return fail()
			}
			slot.filled = true
			slot.val = tr
			consumedPositions[i] = true
			result.NamedMatches++
			result.TagDepth += tagDepthOf(slot.field.Type, fv)
			break
		}
	}

	// Phase B: positional matching (incl. greedy tag-field assignment,
	// spec.md §4.4 "Greedy tag-field matching").
	for i := 0; i < src.Len(); i++ {
		if consumedPositions[i] {
			continue
		}
		k, fv := src.EntryAt(i)
		if k.IsNamed() {
			continue
		}

		var target *fieldSlot
		if fv.IsTag() {
			target = pickGreedyTagSlot(slots, fv)
			if target == ambiguousSlot {
				return fail()
			}
		}
		if target == nil {
			target = firstUnfilledSlot(slots)
		}
		if target == nil {
			consumedPositions[i] = false // left as extra
			continue
		}
		tr, ok := typeCheck(fv, target.field.Type, mode)
		if !ok {
			if fv.IsTag() {
				// fall through: this tag didn't fit the greedy pick,
				// try the next unfilled slot positionally instead of
				// failing outright, since greedy matching is a
				// best-effort assignment, not a hard constraint.
				target = firstUnfilledSlot(slots)
				if target == nil {
					consumedPositions[i] = false
					continue
				}
				tr, ok = typeCheck(fv, target.field.Type, mode)
				if !ok {
					return fail()
				}
			} else {
				return fail()
			}
		}
		target.filled = true
		target.val = tr
		consumedPositions[i] = true
		result.PositionalMatches++
		result.TagDepth += tagDepthOf(target.field.Type, fv)
	}

	// Phase C: defaults (skipped entirely in weak mode).
	if mode != Weak {
		for _, slot := range slots {
			if !slot.filled && slot.field.Default != nil {
				slot.filled = true
				slot.val = *slot.field.Default
				result.AssignmentWeight++
			}
		}
	}

	// Required-but-missing fields fail the match (weak mode allows
	// missing named fields, spec.md §4.4 table).
	for _, slot := range slots {
		if slot.filled {
			continue
		}
		if mode == Weak {
			continue
		}
		return fail()
	}

	// Build the output in shape-declaration order, not value order.
	for _, slot := range slots {
		if !slot.filled {
			continue
		}
		if slot.field.IsNamed() {
			out.SetNamed(value.NewText(slot.field.Name), slot.val)
		} else {
			out.Append(slot.val)
		}
	}

	// Phase D: extras.
	var extras []value.Value
	for i := 0; i < src.Len(); i++ {
		if consumedPositions[i] {
			continue
		}
		_, fv := src.EntryAt(i)
		extras = append(extras, fv)
	}
	if len(extras) > 0 {
		switch mode {
		case Strong:
			return fail()
		case Weak:
			// dropped
		default: // Normal
			for i := 0; i < src.Len(); i++ {
				if consumedPositions[i] {
					continue
				}
				k, fv := src.EntryAt(i)
				if k.IsNamed() {
					out.SetNamed(k.Value, fv)
				} else {
					out.Append(fv)
				}
			}
		}
	}

	outVal := value.NewStruct(out)
	result.Value = &outVal
	return result
}

var ambiguousSlot = &fieldSlot{}

// pickGreedyTagSlot implements spec.md §4.4's greedy tag-field matching:
// a bare tag at an Unnamed position is assigned to the first unfilled
// tag-typed field whose hierarchy matches, picking the shallowest
// hierarchy distance; if more than one unfilled field ties at that
// distance, the match is ambiguous. Returns nil if no tag-typed field
// matches at all (caller then falls back to strict positional pairing).
func pickGreedyTagSlot(slots []*fieldSlot, tagVal value.Value) *fieldSlot {
	tag := tagVal.Tag()
	var best *fieldSlot
	bestDepth := -1
	tie := false
	for _, slot := range slots {
		if slot.filled || slot.field.Type.Kind != value.ShapeTypeTag {
			continue
		}
		constraint := slot.field.Type.Tag
		if constraint == nil {
			continue
		}
		ok, depth := tag.IsDescendantOf(constraint)
		if !ok && tag != constraint {
			continue
		}
		if best == nil || depth < bestDepth {
			best = slot
			bestDepth = depth
			tie = false
		} else if depth == bestDepth {
			tie = true
		}
	}
	if best == nil {
		return nil
	}
	if tie {
		return ambiguousSlot
	}
	return best
}

func firstUnfilledSlot(slots []*fieldSlot) *fieldSlot {
	for _, slot := range slots {
		if !slot.filled {
			return slot
		}
	}
	return nil
}

func tagDepthOf(t value.ShapeFieldType, v value.Value) int {
	if t.Kind != value.ShapeTypeTag || !v.IsTag() {
		return 0
	}
	if v.Tag() == t.Tag {
		return 0
	}
	_, depth := v.Tag().IsDescendantOf(t.Tag)
	return depth
}

// matchPrimitive handles the placeholder primitive shapes of spec.md
// §4.8 (~num, ~str, ~bool, ~any, ~tag), whose matching is structural
// rather than field-based.
func matchPrimitive(v value.Value, shape *value.ShapeDefinition) (bool, Result) {
	switch shape {
	case value.ShapeAny:
		return true, Result{AssignmentWeight: 1, Value: &v}
	case value.ShapeNum:
		if v.IsNumber() {
			return true, Result{AssignmentWeight: 1, Value: &v}
		}
		return true, fail()
	case value.ShapeStr:
		if v.IsText() {
			return true, Result{AssignmentWeight: 1, Value: &v}
		}
		return true, fail()
	case value.ShapeBool:
		if v.IsTag() && (v.Tag() == value.TrueTag || v.Tag() == value.FalseTag) {
			return true, Result{AssignmentWeight: 1, Value: &v}
		}
		return true, fail()
	case value.ShapeTag:
		if v.IsTag() {
			return true, Result{AssignmentWeight: 1, Value: &v}
		}
		return true, fail()
	}
	return false, Result{}
}

// typeCheck implements spec.md §4.4 phase E for one field/value pairing.
// It returns the value to store (identity for most kinds; the recursive
// morph result for shape-typed fields) and whether the pairing is type
// compatible under mode.
func typeCheck(v value.Value, t value.ShapeFieldType, mode Mode) (value.Value, bool) {
	switch t.Kind {
	case value.ShapeTypeAny:
		return v, true
	case value.ShapeTypeNum:
		return v, v.IsNumber()
	case value.ShapeTypeStr:
		return v, v.IsText()
	case value.ShapeTypeBool:
		return v, v.IsTag() && (v.Tag() == value.TrueTag || v.Tag() == value.FalseTag)
	case value.ShapeTypeTag:
		if !v.IsTag() {
			return v, false
		}
		if t.Tag == nil || v.Tag() == t.Tag {
			return v, true
		}
		ok, _ := v.Tag().IsDescendantOf(t.Tag)
		return v, ok
	case value.ShapeTypeShape:
		r := match(v, t.Shape, mode)
		if !r.Success() {
			return value.Value{}, false
		}
		return *r.Value, true
	case value.ShapeTypeHandle:
		if !v.IsHandle() {
			return v, false
		}
		h := v.Handle()
		if h.Released() {
			return v, false
		}
		if h.Kind == t.Handle {
			return v, true
		}
		ok, _ := h.Kind.IsDescendantOf(t.Handle)
		return v, ok
	default:
		return v, false
	}
}
