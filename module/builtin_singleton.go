package module

import "sync"

var (
	builtinOnce sync.Once
	builtinMod  *Module
)

// SetBuiltin installs m as the process-wide builtin module singleton
// (spec.md §4.8: "created lazily... All other modules receive
// namespaces["builtin"] = the_builtin_singleton automatically"). It is
// called by comp/builtin's Install, and only the first call takes
// effect. module itself never imports comp/builtin: the dependency runs
// the other way, avoiding an import cycle between the two packages.
func SetBuiltin(m *Module) {
	builtinOnce.Do(func() {
		m.IsBuiltin = true
		builtinMod = m
	})
}

// Builtin returns the installed builtin singleton, or a bare empty
// placeholder if comp/builtin has not been linked into the program (a
// situation that should not arise outside of isolated module-package
// unit tests).
func Builtin() *Module {
	if builtinMod == nil {
		m := New("builtin")
		m.IsBuiltin = true
		m.prepared = true
		return m
	}
	return builtinMod
}
