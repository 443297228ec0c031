package shape_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/shape"
	"comp-lang.dev/comp/value"
)

func numField(name string) value.ShapeField {
	return value.ShapeField{Name: name, Type: value.ShapeFieldType{Kind: value.ShapeTypeNum}}
}

func TestMorphNamedFieldsMatch(t *testing.T) {
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a"), numField("b")}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	s.SetNamed(value.NewText("b"), value.FromGoInt(2))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))
	qt.Assert(t, qt.Equals(r.NamedMatches, 2))
}

func TestMorphMissingRequiredFieldFails(t *testing.T) {
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a"), numField("b")}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsFalse(r.Success()))
}

func TestMorphAppliesDefaults(t *testing.T) {
	def := value.FromGoInt(9)
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{
		numField("a"),
		{Name: "b", Type: value.ShapeFieldType{Kind: value.ShapeTypeNum}, Default: &def},
	}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))

	want := value.Struct(nil)
	want.SetNamed(value.NewText("a"), value.FromGoInt(1))
	want.SetNamed(value.NewText("b"), def)
	if diff := cmp.Diff(value.NewStruct(want), *r.Value, value.CmpOption); diff != "" {
		t.Fatalf("morphed structure mismatch (-want +got):\n%s", diff)
	}
}

func TestWeakMorphSkipsMissingAndDefaults(t *testing.T) {
	def := value.FromGoInt(9)
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{
		{Name: "a", Type: value.ShapeFieldType{Kind: value.ShapeTypeNum}, Default: &def},
	}}
	v := value.NewStruct(value.Struct(nil))

	r := shape.WeakMorph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))
	_, ok := r.Value.Struct().GetNamed(value.NewText("a"))
	qt.Assert(t, qt.IsFalse(ok))
}

func TestStrongMorphRejectsExtraFields(t *testing.T) {
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a")}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	s.Append(value.FromGoInt(2))
	v := value.NewStruct(s)

	r := shape.StrongMorph(v, sh)
	qt.Assert(t, qt.IsFalse(r.Success()))
}

func TestNormalMorphKeepsExtraFields(t *testing.T) {
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a")}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	s.Append(value.FromGoInt(2))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))
	qt.Assert(t, qt.Equals(r.Value.Struct().Len(), 2))
}

func TestWeakMorphDropsExtraFields(t *testing.T) {
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a")}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	s.Append(value.FromGoInt(2))
	v := value.NewStruct(s)

	r := shape.WeakMorph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))
	qt.Assert(t, qt.Equals(r.Value.Struct().Len(), 1))
}

func TestStrongMorphImpliesMorph(t *testing.T) {
	sh := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a")}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	v := value.NewStruct(s)

	strong := shape.StrongMorph(v, sh)
	normal := shape.Morph(v, sh)
	qt.Assert(t, qt.IsTrue(strong.Success()))
	qt.Assert(t, qt.IsTrue(normal.Success()))
}

func TestUnionPicksHighestScoringVariant(t *testing.T) {
	a := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a")}}
	ab := &value.ShapeDefinition{Fields: []value.ShapeField{numField("a"), numField("b")}}
	union := &value.ShapeDefinition{IsUnion: true, UnionMembers: []*value.ShapeDefinition{a, ab}}

	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	s.SetNamed(value.NewText("b"), value.FromGoInt(2))
	v := value.NewStruct(s)

	r := shape.Morph(v, union)
	qt.Assert(t, qt.IsTrue(r.Success()))
	qt.Assert(t, qt.Equals(r.NamedMatches, 2))
}

func TestGreedyTagFieldMatching(t *testing.T) {
	statusTag := &value.TagDefinition{Path: []string{"status"}}
	okTag := &value.TagDefinition{Path: []string{"status", "ok"}}
	okTag.ExtendsParent = statusTag

	sh := &value.ShapeDefinition{Fields: []value.ShapeField{
		{Name: "status", Type: value.ShapeFieldType{Kind: value.ShapeTypeTag, Tag: statusTag}},
	}}
	s := value.Struct(nil)
	s.Append(value.NewTag(okTag))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))
	got, ok := r.Value.Struct().GetNamed(value.NewText("status"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(got.Equal(value.NewTag(okTag))))
}

func TestHandleFieldMatchesDescendantKind(t *testing.T) {
	base := &value.HandleKind{Path: []string{"conn"}}
	child := &value.HandleKind{Path: []string{"conn", "tcp"}, ExtendsParent: base}
	inst := value.NewHandleInstance(child, "mod")

	sh := &value.ShapeDefinition{Fields: []value.ShapeField{
		{Name: "c", Type: value.ShapeFieldType{Kind: value.ShapeTypeHandle, Handle: base}},
	}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("c"), value.NewHandle(inst))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsTrue(r.Success()))
}

func TestHandleFieldRejectsReleased(t *testing.T) {
	kind := &value.HandleKind{Path: []string{"conn"}}
	inst := value.NewHandleInstance(kind, "mod")
	inst.Release()

	sh := &value.ShapeDefinition{Fields: []value.ShapeField{
		{Name: "c", Type: value.ShapeFieldType{Kind: value.ShapeTypeHandle, Handle: kind}},
	}}
	s := value.Struct(nil)
	s.SetNamed(value.NewText("c"), value.NewHandle(inst))
	v := value.NewStruct(s)

	r := shape.Morph(v, sh)
	qt.Assert(t, qt.IsFalse(r.Success()))
}
