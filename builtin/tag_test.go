package builtin_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/builtin"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

func tagFn(t *testing.T, name string) func(in, arg value.Value) value.Value {
	t.Helper()
	m := builtin.InstallTag()
	fds, err := m.LookupFunction([]string{name}, "")
	qt.Assert(t, qt.IsNil(err))
	return callerOf(t, fds[0].Decl.Body)
}

// buildHierarchy registers a 3-level tag tree (status / status.error /
// status.error.timeout) directly on a fresh module, the way
// module.Prepare's phase1 would, without going through an *ast.Module.
func buildHierarchy(t *testing.T) (status, statusError, timeout *value.TagDefinition) {
	t.Helper()
	m := module.New("hier")
	status = &value.TagDefinition{Path: []string{"status"}}
	statusError = &value.TagDefinition{Path: []string{"status", "error"}}
	timeout = &value.TagDefinition{Path: []string{"status", "error", "timeout"}}
	m.RegisterNativeTag(status)
	m.RegisterNativeTag(statusError)
	m.RegisterNativeTag(timeout)
	m.FinalizeNative()
	return status, statusError, timeout
}

func TestTagNaturalParentsWalksToRoot(t *testing.T) {
	status, statusError, timeout := buildHierarchy(t)
	_ = status
	fn := tagFn(t, "natural-parents")
	out := fn(value.NewTag(timeout), value.Nil())
	qt.Assert(t, qt.IsTrue(out.IsStruct()))
	qt.Assert(t, qt.Equals(out.Struct().Len(), 2))
	_, val0 := out.Struct().EntryAt(0)
	qt.Assert(t, qt.IsTrue(val0.Tag() == statusError))
}

func TestTagRootReturnsTopOfHierarchy(t *testing.T) {
	status, _, timeout := buildHierarchy(t)
	fn := tagFn(t, "root")
	out := fn(value.NewTag(timeout), value.Nil())
	qt.Assert(t, qt.IsTrue(out.Tag() == status))
}

func TestTagImmediateChildren(t *testing.T) {
	status, statusError, _ := buildHierarchy(t)
	fn := tagFn(t, "immediate-children")
	out := fn(value.NewTag(status), value.Nil())
	qt.Assert(t, qt.Equals(out.Struct().Len(), 1))
	_, v := out.Struct().EntryAt(0)
	qt.Assert(t, qt.IsTrue(v.Tag() == statusError))
}

func TestTagRootOnNonTagFails(t *testing.T) {
	fn := tagFn(t, "root")
	out := fn(value.FromGoInt(5), value.Nil())
	qt.Assert(t, qt.IsTrue(out.IsFail()))
}
