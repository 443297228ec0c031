// Package value implements the core runtime value model of spec.md §3–§4.1:
// immutable tagged values (numbers, text, tags, structures, handles,
// blocks), the structure engine's key/entry primitives, the tag forest,
// and handle identities. It is the foundational package every other
// comp/* package builds on, the way cuelang.org/go/internal/core/adt is
// the foundational package for the rest of CUE's evaluator.
package value

import (
	"fmt"
)

// Value wraps exactly one payload kind (spec.md §3.1). It is a plain Go
// struct passed by value; because privateMap is a pointer field, every
// Go-level copy of a Value automatically shares its private-data map,
// which is precisely the "copy constructor shares, not copies, private
// state" requirement — Go's normal value-copy semantics give it to us
// for free, no override needed.
type Value struct {
	kind    Kind
	payload any
	// sideTag is an optional identity annotation independent of kind,
	// used to mark a structure as a failure (spec.md §3.1: "a structure
	// tagged #fail... is-fail is a fast check") without requiring a
	// field-by-field scan of the structure's own tag-typed fields.
	sideTag *TagDefinition
	private *privateMap
}

func newValue(k Kind, payload any) Value {
	return Value{kind: k, payload: payload, private: newPrivateMap()}
}

func (v Value) compEntity() {}

// Kind reports which payload v currently wraps.
func (v Value) Kind() Kind { return v.kind }

// IsNumber, IsText, IsTag, IsStruct, IsHandle, IsBlock are the kind
// predicates named throughout spec.md.
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsText() bool   { return v.kind == KindText }
func (v Value) IsTag() bool    { return v.kind == KindTag }
func (v Value) IsStruct() bool { return v.kind == KindStruct }
func (v Value) IsHandle() bool { return v.kind == KindHandle }
func (v Value) IsBlock() bool  { return v.kind == KindBlock }

// NewText wraps a UTF-8 string.
func NewText(s string) Value { return newValue(KindText, s) }

// Text returns the underlying string; panics if v is not Text.
func (v Value) Text() string { return v.payload.(string) }

// NewTag wraps a tag reference. Tags compare by identity (spec.md §3.1):
// two Values carrying the same *TagDefinition are equal regardless of
// any TagValue the definition carries.
func NewTag(def *TagDefinition) Value { return newValue(KindTag, def) }

// Tag returns the underlying *TagDefinition; panics if v is not a Tag.
func (v Value) Tag() *TagDefinition { return v.payload.(*TagDefinition) }

// NewBool converts a Go bool to the canonical #true/#false tag Values
// (spec.md §4.1).
func NewBool(b bool) Value {
	if b {
		return NewTag(TrueTag)
	}
	return NewTag(FalseTag)
}

// NewStruct wraps an already-built *Structure.
func NewStruct(s *Structure) Value { return newValue(KindStruct, s) }

// Struct returns the underlying *Structure; panics if v is not a Struct.
func (v Value) Struct() *Structure { return v.payload.(*Structure) }

// NewHandle wraps a *HandleInstance.
func NewHandle(h *HandleInstance) Value { return newValue(KindHandle, h) }

// Handle returns the underlying *HandleInstance; panics if v is not a Handle.
func (v Value) Handle() *HandleInstance { return v.payload.(*HandleInstance) }

// NewBlock wraps a *Block.
func NewBlock(b *Block) Value { return newValue(KindBlock, b) }

// BlockValue returns the underlying *Block; panics if v is not a Block.
func (v Value) BlockValue() *Block { return v.payload.(*Block) }

// Nil is the canonical empty structure, what None/nil converts to
// (spec.md §4.1).
func Nil() Value { return NewStruct(Struct(nil)) }

// SideTag returns the value's optional identity annotation, or nil.
func (v Value) SideTag() *TagDefinition { return v.sideTag }

// WithSideTag returns a copy of v annotated with tag (spec.md §3.1's
// "structure tagged #fail"). The copy shares v's private map, per the
// same copy-constructor sharing rule as any other Value duplication.
func (v Value) WithSideTag(tag *TagDefinition) Value {
	v.sideTag = tag
	return v
}

// NewFail builds a failure Value: a structure carrying at least a
// message field, side-tagged with tag (which must be #fail or a
// descendant). This is the one constructor outside comp/eval that
// assembles a failure shape directly, since every package above
// comp/value needs to be able to report failures without a dependency
// on comp/eval.
func NewFail(tag *TagDefinition, message string, extra *Structure) Value {
	s := Struct(nil)
	s.SetNamed(NewText("message"), NewText(message))
	if extra != nil {
		for i := 0; i < extra.Len(); i++ {
			k, fv := extra.EntryAt(i)
			if k.Unnamed != nil {
				s.Append(fv)
			} else {
				s.SetNamed(k.Value, fv)
			}
		}
	}
	return NewStruct(s).WithSideTag(tag)
}

// IsFail reports whether v is a failure: a structure tagged #fail or any
// descendant tag (spec.md §3.1, §4.1). Is-fail is a fast check against
// the side tag, not a scan of the structure's fields.
func (v Value) IsFail() bool {
	if v.kind != KindStruct || v.sideTag == nil {
		return false
	}
	if v.sideTag == FailTag {
		return true
	}
	ok, _ := v.sideTag.IsDescendantOf(FailTag)
	return ok
}

// AsScalar unwraps a single-field structure to its sole value; any other
// value (including multi-field or zero-field structures) returns v
// unchanged — and, critically, returns the identical Value so that
// round-tripping AsStruct().AsScalar() on an already-scalar value is
// object-identity-preserving (spec.md §3.1, §8).
func (v Value) AsScalar() Value {
	if v.kind != KindStruct {
		return v
	}
	s := v.Struct()
	if s.Len() == 1 {
		_, only := s.EntryAt(0)
		return only
	}
	return v
}

// AsStruct wraps a scalar into a single-field structure keyed by a fresh
// Unnamed; structures are returned unchanged (identity, per spec.md §3.1).
func (v Value) AsStruct() Value {
	if v.kind == KindStruct {
		return v
	}
	s := Struct(nil)
	s.Append(v)
	return NewStruct(s)
}

// Equal implements spec.md §4.1 value equality: same kind and same
// payload. Structures compare field-by-field in insertion order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.sideTag != other.sideTag {
		return false
	}
	switch v.kind {
	case KindNumber:
		return NumCmp(v, other) == 0
	case KindText:
		return v.Text() == other.Text()
	case KindTag:
		return v.Tag() == other.Tag()
	case KindStruct:
		return v.Struct().Equal(other.Struct())
	case KindHandle:
		return v.Handle() == other.Handle()
	case KindBlock:
		return v.BlockValue() == other.BlockValue()
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.AsDecimal().String()
	case KindText:
		return fmt.Sprintf("%q", v.Text())
	case KindTag:
		return "#" + v.Tag().FullName()
	case KindStruct:
		if v.sideTag != nil {
			return "#" + v.sideTag.FullName() + v.Struct().String()
		}
		return v.Struct().String()
	case KindHandle:
		return fmt.Sprintf("@%s", v.Handle().Kind.Name())
	case KindBlock:
		return "{...}"
	default:
		return "<invalid value>"
	}
}

// GoString supports %#v, rendering the same text as String.
func (v Value) GoString() string { return v.String() }
