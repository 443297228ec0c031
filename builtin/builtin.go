// Package builtin constructs the singleton builtin module of spec.md
// §4.8: the core tags, primitive shapes, and functions every other
// module sees automatically via its implicit "builtin" namespace.
//
// Grounded on src/comp/engine/_builtin.py's create_builtin_module: the
// same tag/shape/function set, built directly in Go rather than parsed
// from source, the way cuelang.org/go/internal/core/runtime installs
// its builtin package table without going through the compiler.
package builtin

import (
	"fmt"
	"io"
	"os"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

// Writer is where |print sends its output. Tests replace it with a
// buffer; production code leaves it at the default, os.Stdout.
var Writer io.Writer = os.Stdout

var installed *module.Module

// Install builds the builtin module on first call and registers it as
// comp/module's singleton via module.SetBuiltin, so every other
// prepared module picks it up as its implicit "builtin" namespace
// (spec.md §4.8). Later calls are no-ops and return the same instance.
func Install() *module.Module {
	if installed != nil {
		return installed
	}
	m := module.New("builtin")
	registerTags(m)
	registerShapes(m)
	registerFunctions(m)
	m.FinalizeNative()
	module.SetBuiltin(m)
	installed = m
	return m
}

func registerTags(m *module.Module) {
	m.RegisterNativeTag(value.TrueTag)
	m.RegisterNativeTag(value.FalseTag)
	m.RegisterNativeTag(value.NilTag)
	m.RegisterNativeTag(value.FailTag)
	m.RegisterNativeTag(value.FailRuntimeTag)
	m.RegisterNativeTag(value.FailTypeTag)
	m.RegisterNativeTag(value.FailDivZeroTag)
	m.RegisterNativeTag(value.FailNotFoundTag)
	m.RegisterNativeTag(value.FailAmbiguousTag)
}

func registerShapes(m *module.Module) {
	m.RegisterNativeShape(value.ShapeNum)
	m.RegisterNativeShape(value.ShapeStr)
	m.RegisterNativeShape(value.ShapeBool)
	m.RegisterNativeShape(value.ShapeAny)
	m.RegisterNativeShape(value.ShapeTag)
}

func registerFunctions(m *module.Module) {
	for _, nf := range []struct {
		name string
		fn   func(in, arg value.Value) value.Value
	}{
		{"print", printFn},
		{"identity", identityFn},
		{"double", doubleFn},
		{"add", addFn},
		{"wrap", wrapFn},
	} {
		m.RegisterNativeFunction(&module.FunctionDefinition{
			Path: []string{nf.name},
			Decl: &ast.FuncDef{
				PathSegment: []string{nf.name},
				Body:        &ast.NativeExpr{Name: nf.name, Fn: nf.fn},
			},
			Module: m,
		})
	}
}

// printFn writes in's textual representation to Writer and passes it
// through unchanged — |print is a side effect, not a transform (spec.md
// §4.8; src/comp/engine/_builtin.py lists |print among the functions
// that run for effect).
func printFn(in, _ value.Value) value.Value {
	fmt.Fprintln(Writer, in.String())
	return in
}

func identityFn(in, _ value.Value) value.Value { return in }

// doubleFn multiplies a Number in place; applied to a single-field
// structure it doubles that field's value and keeps the key (grounded on
// tests/test_builtins.py's test_builtin_double, which checks the result
// keeps its original field name after doubling).
func doubleFn(in, _ value.Value) value.Value {
	two := value.NewNumberFromInt64(2)
	return mapNumeric(in, func(n value.Value) (value.Value, error) {
		return value.NumMul(n, two)
	})
}

// addFn adds arg's "n" field to in (spec.md §4.8: "|add ^{n}").
func addFn(in, arg value.Value) value.Value {
	if !in.IsNumber() {
		return fail(value.FailTypeTag, "|add expects a number")
	}
	if !arg.IsStruct() {
		return fail(value.FailTypeTag, "|add requires ^{n}")
	}
	n, ok := arg.Struct().GetNamed(value.NewText("n"))
	if !ok || !n.IsNumber() {
		return fail(value.FailTypeTag, "|add requires a numeric n argument")
	}
	sum, err := value.NumAdd(in, n)
	if err != nil {
		return fail(value.FailRuntimeTag, err.Error())
	}
	return sum
}

// wrapFn wraps in as the sole named field of a fresh structure, keyed by
// arg's "key" field (spec.md §4.8: "|wrap ^{key}").
func wrapFn(in, arg value.Value) value.Value {
	if !arg.IsStruct() {
		return fail(value.FailTypeTag, "|wrap requires ^{key}")
	}
	key, ok := arg.Struct().GetNamed(value.NewText("key"))
	if !ok {
		return fail(value.FailTypeTag, "|wrap requires a key argument")
	}
	s := value.Struct(nil)
	s.SetNamed(key, in)
	return value.NewStruct(s)
}

// mapNumeric applies fn to in directly if in is a Number, or to every
// field of a structure if in is a Struct; any non-numeric field fails
// the whole call.
func mapNumeric(in value.Value, fn func(value.Value) (value.Value, error)) value.Value {
	if in.IsNumber() {
		r, err := fn(in)
		if err != nil {
			return fail(value.FailRuntimeTag, err.Error())
		}
		return r
	}
	if !in.IsStruct() {
		return fail(value.FailTypeTag, "expected a number or structure of numbers")
	}
	src := in.Struct()
	out := value.Struct(nil)
	for i := 0; i < src.Len(); i++ {
		k, fv := src.EntryAt(i)
		if !fv.IsNumber() {
			return fail(value.FailTypeTag, "expected a number or structure of numbers")
		}
		rv, err := fn(fv)
		if err != nil {
			return fail(value.FailRuntimeTag, err.Error())
		}
		if k.IsNamed() {
			out.SetNamed(k.Value, rv)
		} else {
			out.Append(rv)
		}
	}
	return value.NewStruct(out)
}

func fail(tag *value.TagDefinition, msg string) value.Value {
	return value.NewFail(tag, msg, nil)
}
