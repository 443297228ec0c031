package value

import "strings"

// Key identifies one Structure entry: either a named Value (a Tag or
// Text, per spec.md §3.1) or an Unnamed positional marker. Exactly one
// of the two fields is meaningful at a time.
type Key struct {
	Unnamed *Unnamed
	Value   Value
}

func namedKey(v Value) Key   { return Key{Value: v} }
func unnamedKey(u *Unnamed) Key { return Key{Unnamed: u} }

// IsNamed reports whether k identifies a named field.
func (k Key) IsNamed() bool { return k.Unnamed == nil }

// mapKey is the comparable projection of a named Key used for the
// Structure's O(1) lookup index. Named keys are restricted to Tag and
// Text values (spec.md §3.1), both of which have a natural comparable
// representation.
type mapKey struct {
	kind Kind
	text string
	tag  *TagDefinition
}

func toMapKey(v Value) mapKey {
	switch v.kind {
	case KindTag:
		return mapKey{kind: KindTag, tag: v.Tag()}
	case KindText:
		return mapKey{kind: KindText, text: v.Text()}
	default:
		// Only reachable if a caller violates the named-key contract;
		// fall back to a value that can never collide usefully so the
		// bug surfaces as a missed lookup rather than silent corruption.
		return mapKey{kind: v.kind, text: v.String()}
	}
}

type entry struct {
	key Key
	val Value
}

// Structure is the ordered map of named and positional fields that
// backs every composite Comp value (spec.md §3.1, §4.2). Order is
// insertion order and is preserved through every operation; index
// provides O(1) lookup for named keys, while Unnamed keys are never
// looked up by key equality (they have none) and are only ever
// addressed positionally.
type Structure struct {
	entries []entry
	index   map[mapKey]int
}

// Struct builds a Structure from an ordered list of (optional-key,
// value) pairs. A pair whose Key carries an Unnamed marker is appended
// positionally; every other pair, including one with a zero Key, is set
// as a named field. Callers typically use Append for positional fields
// and SetNamed for named ones instead of calling this directly.
func Struct(pairs []struct {
	Key Key
	Val Value
}) *Structure {
	s := &Structure{index: make(map[mapKey]int)}
	for _, p := range pairs {
		if p.Key.IsNamed() {
			s.SetNamed(p.Key.Value, p.Val)
		} else {
			s.Append(p.Val)
		}
	}
	return s
}

// Len returns the number of entries (named and positional combined).
func (s *Structure) Len() int { return len(s.entries) }

// EntryAt returns the key/value pair at the given insertion-order index
// (the realization of spec.md §4.2's index-field `#n`: "selects the nth
// entry in insertion order, regardless of whether that entry is named or
// unnamed").
func (s *Structure) EntryAt(i int) (Key, Value) {
	e := s.entries[i]
	return e.key, e.val
}

// Append adds a new positional field with a fresh Unnamed key.
func (s *Structure) Append(v Value) {
	s.entries = append(s.entries, entry{key: unnamedKey(NewUnnamed()), val: v})
}

// SetNamed inserts or overwrites a named field. keyVal must be a Tag or
// Text Value. If the key already exists its value is overwritten in
// place (order is preserved, spec.md §4.2's "later fields... override
// earlier ones... only when a key collision occurs with a named key").
func (s *Structure) SetNamed(keyVal, v Value) {
	mk := toMapKey(keyVal)
	if i, ok := s.index[mk]; ok {
		s.entries[i].val = v
		return
	}
	s.index[mk] = len(s.entries)
	s.entries = append(s.entries, entry{key: namedKey(keyVal), val: v})
}

// GetNamed looks up a named field by key; ok is false if absent or if
// keyVal is not a Tag/Text Value.
func (s *Structure) GetNamed(keyVal Value) (Value, bool) {
	i, ok := s.index[toMapKey(keyVal)]
	if !ok {
		return Value{}, false
	}
	return s.entries[i].val, true
}

// DeleteNamed removes a named field if present, preserving the relative
// order of the remaining entries.
func (s *Structure) DeleteNamed(keyVal Value) {
	i, ok := s.index[toMapKey(keyVal)]
	if !ok {
		return
	}
	s.removeAt(i)
}

// DeletePositional removes the i'th positional (Unnamed-keyed) entry,
// counting only among positional entries.
func (s *Structure) DeletePositional(i int) {
	count := 0
	for idx, e := range s.entries {
		if e.key.Unnamed == nil {
			continue
		}
		if count == i {
			s.removeAt(idx)
			return
		}
		count++
	}
}

func (s *Structure) removeAt(i int) {
	removed := s.entries[i]
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	if removed.key.IsNamed() {
		delete(s.index, toMapKey(removed.key.Value))
	}
	for mk, idx := range s.index {
		if idx > i {
			s.index[mk] = idx - 1
		}
	}
}

// Positional returns the positional (Unnamed-keyed) values in order.
func (s *Structure) Positional() []Value {
	var out []Value
	for _, e := range s.entries {
		if e.key.Unnamed != nil {
			out = append(out, e.val)
		}
	}
	return out
}

// Named returns the named entries in insertion order.
func (s *Structure) Named() []struct {
	Key Value
	Val Value
} {
	var out []struct {
		Key Value
		Val Value
	}
	for _, e := range s.entries {
		if e.key.IsNamed() {
			out = append(out, struct {
				Key Value
				Val Value
			}{e.key.Value, e.val})
		}
	}
	return out
}

// Clone makes a shallow copy: a new entry slice and index, sharing the
// contained Values (which are themselves immutable), suitable as the
// starting point for the copy-on-write mutations field assignment and
// spread require (spec.md §4.2).
func (s *Structure) Clone() *Structure {
	c := &Structure{
		entries: append([]entry(nil), s.entries...),
		index:   make(map[mapKey]int, len(s.index)),
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// Spread inlines other's fields into s in place, following spec.md
// §4.2: named keys from other override same-named keys already present
// (or set later in the same literal — callers control ordering by when
// they call Spread relative to SetNamed); Unnamed keys from other always
// accumulate as new positional entries, never colliding.
func (s *Structure) Spread(other *Structure) {
	for _, e := range other.entries {
		if e.key.IsNamed() {
			s.SetNamed(e.key.Value, e.val)
		} else {
			s.Append(e.val)
		}
	}
}

// Equal implements spec.md §4.1's structure equality: ordered key/value
// pairs compared positionally. Two Unnamed keys are never equal as
// *keys*, but structurally-symmetric positional entries are compared by
// their value at that position; named entries are compared by key
// identity (Tag) or content (Text) and then by value.
func (s *Structure) Equal(other *Structure) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.entries {
		ak, av := s.entries[i].key, s.entries[i].val
		bk, bv := other.entries[i].key, other.entries[i].val
		if ak.IsNamed() != bk.IsNamed() {
			return false
		}
		if ak.IsNamed() {
			if !ak.Value.Equal(bk.Value) {
				return false
			}
		}
		if !av.Equal(bv) {
			return false
		}
	}
	return true
}

func (s *Structure) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		if e.key.IsNamed() {
			b.WriteString(e.key.Value.String())
			b.WriteString(": ")
		}
		b.WriteString(e.val.String())
	}
	b.WriteByte('}')
	return b.String()
}
