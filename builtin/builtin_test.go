package builtin_test

import (
	"bytes"
	"testing"

	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/builtin"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

func callerOf(t *testing.T, body ast.Expr) func(in, arg value.Value) value.Value {
	t.Helper()
	ne, ok := body.(*ast.NativeExpr)
	qt.Assert(t, qt.IsTrue(ok))
	return ne.Fn
}

func TestInstallIsIdempotentSingleton(t *testing.T) {
	m1 := builtin.Install()
	m2 := builtin.Install()
	qt.Assert(t, qt.IsTrue(m1 == m2))
	qt.Assert(t, qt.IsTrue(module.Builtin() == m1))
}

func TestBuiltinTagsAreWellKnownSingletons(t *testing.T) {
	m := builtin.Install()
	td, err := m.LookupTag([]string{"true"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(td == value.TrueTag))

	ft, err := m.LookupTag([]string{"div_zero", "fail"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ft == value.FailDivZeroTag))
}

func TestBuiltinPrimitiveShapesRegistered(t *testing.T) {
	m := builtin.Install()
	sd, err := m.LookupShape([]string{"num"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(sd == value.ShapeNum))
}

func TestPrintPassesValueThroughAndWritesIt(t *testing.T) {
	var buf bytes.Buffer
	old := builtin.Writer
	builtin.Writer = &buf
	defer func() { builtin.Writer = old }()

	m := builtin.Install()
	fds, err := m.LookupFunction([]string{"print"}, "")
	qt.Assert(t, qt.IsNil(err))
	ne := fds[0].Decl.Body
	call := callerOf(t, ne)

	in := value.FromGoInt(5)
	out := call(in, value.Nil())
	qt.Assert(t, qt.IsTrue(out.Equal(in)))
	qt.Assert(t, qt.IsTrue(buf.Len() > 0))
}

func TestDoubleMultipliesANumber(t *testing.T) {
	m := builtin.Install()
	fds, _ := m.LookupFunction([]string{"double"}, "")
	call := callerOf(t, fds[0].Decl.Body)

	out := call(value.FromGoInt(7), value.Nil())
	qt.Assert(t, qt.IsTrue(out.IsNumber()))
	qt.Assert(t, qt.Equals(value.NumCmp(out, value.FromGoInt(14)), 0))
}

func TestDoubleOnStructureKeepsFieldName(t *testing.T) {
	m := builtin.Install()
	fds, _ := m.LookupFunction([]string{"double"}, "")
	call := callerOf(t, fds[0].Decl.Body)

	s := value.Struct(nil)
	s.SetNamed(value.NewText("x"), value.FromGoInt(7))
	out := call(value.NewStruct(s), value.Nil())
	qt.Assert(t, qt.IsTrue(out.IsStruct()))
	x, ok := out.Struct().GetNamed(value.NewText("x"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(value.NumCmp(x, value.FromGoInt(14)), 0))
}

func TestDoubleRejectsNonNumeric(t *testing.T) {
	m := builtin.Install()
	fds, _ := m.LookupFunction([]string{"double"}, "")
	call := callerOf(t, fds[0].Decl.Body)

	out := call(value.NewText("nope"), value.Nil())
	qt.Assert(t, qt.IsTrue(out.IsFail()))
}

func TestWrapWrapsUnderKey(t *testing.T) {
	m := builtin.Install()
	fds, _ := m.LookupFunction([]string{"wrap"}, "")
	call := callerOf(t, fds[0].Decl.Body)

	arg := value.Struct(nil)
	arg.SetNamed(value.NewText("key"), value.NewText("value"))
	out := call(value.FromGoInt(5), value.NewStruct(arg))
	qt.Assert(t, qt.IsTrue(out.IsStruct()))
	v, ok := out.Struct().GetNamed(value.NewText("value"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(value.NumCmp(v, value.FromGoInt(5)), 0))
}

func TestAddAddsArgN(t *testing.T) {
	m := builtin.Install()
	fds, _ := m.LookupFunction([]string{"add"}, "")
	call := callerOf(t, fds[0].Decl.Body)

	arg := value.Struct(nil)
	arg.SetNamed(value.NewText("n"), value.FromGoInt(3))
	out := call(value.FromGoInt(4), value.NewStruct(arg))
	qt.Assert(t, qt.Equals(value.NumCmp(out, value.FromGoInt(7)), 0))
}
