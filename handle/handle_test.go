package handle_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/handle"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

func TestGrabReturnsFreshUnreleasedInstance(t *testing.T) {
	kind := &value.HandleKind{Path: []string{"conn"}}
	v := handle.Grab(kind, "mod-1")

	qt.Assert(t, qt.IsTrue(v.IsHandle()))
	inst := v.Handle()
	qt.Assert(t, qt.IsTrue(inst.Kind == kind))
	qt.Assert(t, qt.Equals(inst.ModuleID, "mod-1"))
	qt.Assert(t, qt.IsFalse(inst.Released()))
}

func TestDropWithNoDropBlockIsNoOp(t *testing.T) {
	kind := &value.HandleKind{Path: []string{"conn"}}
	v := handle.Grab(kind, "mod-1")

	called := false
	eval := func(block ast.Expr, handleVal value.Value, mod *module.Module) value.Value {
		called = true
		return handleVal
	}

	r := handle.Drop(v, nil, eval)
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	qt.Assert(t, qt.IsFalse(called))
	qt.Assert(t, qt.IsTrue(v.Handle().Released()))
}

func TestDropRunsBlockOnFirstReleaseOnly(t *testing.T) {
	kind := &value.HandleKind{Path: []string{"conn"}, DropBlock: ast.Expr(&ast.Placeholder{})}
	v := handle.Grab(kind, "mod-1")

	calls := 0
	eval := func(block ast.Expr, handleVal value.Value, mod *module.Module) value.Value {
		calls++
		return handleVal
	}

	r := handle.Drop(v, nil, eval)
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	qt.Assert(t, qt.Equals(calls, 1))

	r2 := handle.Drop(v, nil, eval)
	qt.Assert(t, qt.IsFalse(r2.IsFail()))
	qt.Assert(t, qt.Equals(calls, 1))
}

func TestDropPropagatesFailingBlockResult(t *testing.T) {
	kind := &value.HandleKind{Path: []string{"conn"}, DropBlock: ast.Expr(&ast.Placeholder{})}
	v := handle.Grab(kind, "mod-1")

	eval := func(block ast.Expr, handleVal value.Value, mod *module.Module) value.Value {
		return value.NewFail(value.FailRuntimeTag, "drop block failed", nil)
	}

	r := handle.Drop(v, nil, eval)
	qt.Assert(t, qt.IsTrue(r.IsFail()))
}

func TestHandleKindIsDescendantOf(t *testing.T) {
	base := &value.HandleKind{Path: []string{"conn"}}
	child := &value.HandleKind{Path: []string{"conn", "tcp"}, ExtendsParent: base}

	ok, depth := child.IsDescendantOf(base)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(depth, 1))

	ok, _ = base.IsDescendantOf(child)
	qt.Assert(t, qt.IsFalse(ok))
}
