package value_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/value"
)

func TestAsScalarRoundTrip(t *testing.T) {
	n := value.FromGoInt(42)
	got := n.AsStruct().AsScalar()
	qt.Assert(t, qt.IsTrue(got.Equal(n)))
}

func TestAsScalarUnwrapsSingleField(t *testing.T) {
	s := value.Struct(nil)
	s.Append(value.FromGoInt(7))
	v := value.NewStruct(s)
	got := v.AsScalar()
	qt.Assert(t, qt.IsTrue(got.Equal(value.FromGoInt(7))))
}

func TestAsScalarKeepsMultiField(t *testing.T) {
	s := value.Struct(nil)
	s.SetNamed(value.NewText("a"), value.FromGoInt(1))
	s.SetNamed(value.NewText("b"), value.FromGoInt(2))
	v := value.NewStruct(s)
	got := v.AsScalar()
	qt.Assert(t, qt.IsTrue(got.Equal(v)))
}

func TestPrivateDataIsolatedPerModule(t *testing.T) {
	v := value.Nil()
	v.SetPrivate("mod-a", value.FromGoInt(1))

	got, ok := v.GetPrivate("mod-a")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(got.Equal(value.FromGoInt(1))))

	_, ok = v.GetPrivate("mod-b")
	qt.Assert(t, qt.IsFalse(ok))
}

func TestPrivateDataSharedAcrossCopies(t *testing.T) {
	v := value.Nil()
	cp := v
	v.SetPrivate("mod-a", value.FromGoInt(5))

	got, ok := cp.GetPrivate("mod-a")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(got.Equal(value.FromGoInt(5))))
}

func TestIsFailChecksSideTagHierarchy(t *testing.T) {
	f := value.NewFail(value.FailNotFoundTag, "missing", nil)
	qt.Assert(t, qt.IsTrue(f.IsFail()))

	ok := value.Nil()
	qt.Assert(t, qt.IsFalse(ok.IsFail()))
}

func TestTagIdentityEquality(t *testing.T) {
	a := value.NewTag(value.TrueTag)
	b := value.NewTag(value.TrueTag)
	c := value.NewTag(value.FalseTag)

	qt.Assert(t, qt.IsTrue(a.Equal(b)))
	qt.Assert(t, qt.IsFalse(a.Equal(c)))
}

func TestUnnamedNeverEqual(t *testing.T) {
	u1 := value.NewUnnamed()
	u2 := value.NewUnnamed()
	qt.Assert(t, qt.IsTrue(u1 != u2))
	qt.Assert(t, qt.IsTrue(u1 == u1))
}
