// Package handle implements the grab/drop lifecycle of spec.md §4.7.
// HandleKind/HandleInstance themselves live in comp/value (so
// comp/shape's morph engine can type-check handle-typed fields without
// importing this package); handle owns the operations spec.md's `!grab`
// and `!drop` statements perform.
//
// Drop-block evaluation is injected as a DropBlockEvaluator rather than
// this package importing comp/eval directly: comp/eval needs to call
// Drop (to implement the `!drop` pipeline operation) and Drop needs to
// run an AST expression (the drop block), so a direct two-way import
// would cycle the same way comp/module's BodyEvaluator does.
package handle

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

// DropBlockEvaluator runs a handle kind's drop block with handleVal bound
// as $in, in the context of mod (spec.md §4.7: "runs the handle kind's
// drop block... with the handle bound in in_").
type DropBlockEvaluator func(block ast.Expr, handleVal value.Value, mod *module.Module) value.Value

// Grab constructs a fresh, unreleased HandleInstance of kind, owned by
// moduleID (spec.md §4.7: "`!grab @kind` constructs a fresh
// HandleInstance... starts with released=false and an empty private-data
// Value").
func Grab(kind *value.HandleKind, moduleID string) value.Value {
	return value.NewHandle(value.NewHandleInstance(kind, moduleID))
}

// Drop implements `!drop expr` (spec.md §4.7): releasing an
// already-released instance is a no-op that does not re-invoke the drop
// block. The re-entrancy guard is HandleInstance.Release itself setting
// released=true before the block runs (value.HandleInstance.Release's
// doc comment), so a drop block that (accidentally or not) drops its own
// handle again always observes it as already released.
func Drop(v value.Value, mod *module.Module, eval DropBlockEvaluator) value.Value {
	inst := v.Handle()
	if inst.Release() {
		return v
	}
	if inst.Kind.DropBlock == nil {
		return v
	}
	block, ok := inst.Kind.DropBlock.(ast.Expr)
	if !ok {
		return v
	}
	result := eval(block, v, mod)
	if result.IsFail() {
		return result
	}
	return v
}
