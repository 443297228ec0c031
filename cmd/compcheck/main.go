// Command compcheck is a small smoke test that exercises the comp
// runtime end to end: it builds a tiny module by hand (no parser is in
// scope, spec.md §1), prepares it, and runs a pipeline through the
// evaluator, printing the result. It is not a language CLI or REPL —
// those are explicit Non-goals — just a way to confirm the pieces fit
// together, the way cuelang.org/go/internal/core/runtime has small
// example-driven smoke tests alongside its unit tests.
package main

import (
	"fmt"
	"os"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/builtin"
	"comp-lang.dev/comp/eval"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

func main() {
	builtin.Install()

	m := module.New("compcheck")
	astMod := &ast.Module{}
	if errs := m.Prepare(astMod, eval.New().EvalConst); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "prepare failed:", errs)
		os.Exit(1)
	}

	// [{x: 7} |double |{y: 1}]
	seed := &ast.Structure{Ops: []ast.StructureOp{
		&ast.FieldOp{
			Key:   []ast.FieldAccessor{&ast.TokenField{Name: "x"}},
			Value: &ast.Number{Literal: "7"},
		},
	}}
	pipeline := &ast.Pipeline{
		Seed: seed,
		Operations: []ast.PipelineOp{
			&ast.PipeFunc{Name: "double"},
			&ast.PipeStruct{Struct: &ast.Structure{Ops: []ast.StructureOp{
				&ast.FieldOp{
					Key:   []ast.FieldAccessor{&ast.TokenField{Name: "y"}},
					Value: &ast.Number{Literal: "1"},
				},
			}}},
		},
	}

	eng := eval.New()
	result := eng.Run(m, pipeline, value.Nil())
	if result.IsFail() {
		fmt.Fprintln(os.Stderr, "evaluation failed:", result.String())
		os.Exit(1)
	}
	fmt.Println(value.Sprint(result))
}
