package eval

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/handle"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/shape"
	"comp-lang.dev/comp/value"
)

// evalPipeline implements spec.md §4.6's Pipeline evaluation: the seed
// (or $in if seedless) flows left to right through each operation, which
// is dispatched by its concrete AST type.
func (e *Engine) evalPipeline(f *Frame, n *ast.Pipeline) value.Value {
	var cur value.Value
	if n.Seed != nil {
		cur = e.eval(f.child(n.Seed, false, ScopeOverrides{}), n.Seed)
	} else {
		cur = f.Scopes.In
	}

	for _, op := range n.Operations {
		if _, isFallback := op.(*ast.PipeFallback); cur.IsFail() && !isFallback {
			// A failure skips every stage up to the next |? fallback.
			continue
		}
		switch o := op.(type) {
		case *ast.PipeFunc:
			cur = e.evalPipeFunc(f, cur, o)
		case *ast.PipeStruct:
			cur = e.evalPipeStruct(f, cur, o)
		case *ast.PipeBlock:
			cur = e.evalPipeBlock(f, cur, o)
		case *ast.PipeFallback:
			if cur.IsFail() {
				cur = e.eval(f.child(o.Expr, false, ScopeOverrides{}), o.Expr)
			}
			continue // PipeFallback's own right side never re-triggers on failure
		case *ast.DropStmt:
			hv := e.eval(f.child(o.Expr, false, ScopeOverrides{}), o.Expr)
			if hv.IsFail() {
				return hv
			}
			if !hv.IsHandle() {
				return runtimeFail(value.FailTypeTag, "!drop operand is not a handle")
			}
			if result := handle.Drop(hv, f.Scopes.Module, e.dropBlockEval); result.IsFail() {
				return result
			}
			continue
		default:
			cur = runtimeFail(value.FailRuntimeTag, "unsupported pipeline operation")
		}
	}
	return cur
}

func (e *Engine) evalPipeStruct(f *Frame, cur value.Value, o *ast.PipeStruct) value.Value {
	if !cur.IsStruct() {
		return runtimeFail(value.FailTypeTag, "pipeline value is not a structure")
	}
	rightVal := e.eval(f.child(o.Struct, false, withIn(cur)), o.Struct)
	if rightVal.IsFail() {
		return rightVal
	}
	merged := cur.Struct().Clone()
	merged.Spread(rightVal.Struct())
	return value.NewStruct(merged)
}

func (e *Engine) evalPipeBlock(f *Frame, cur value.Value, o *ast.PipeBlock) value.Value {
	bv := e.eval(f.child(o.Ref, false, ScopeOverrides{}), o.Ref)
	if bv.IsFail() {
		return bv
	}
	if !bv.IsBlock() {
		return runtimeFail(value.FailTypeTag, "pipe-block operand is not a block")
	}
	blk := bv.BlockValue()
	body, ok := blk.Body.(ast.Expr)
	if !ok {
		return runtimeFail(value.FailRuntimeTag, "block body is not an evaluable expression")
	}
	bf := &Frame{Node: body, Parent: f, Engine: f.Engine, Scopes: scopesFromSnapshot(blk.Scopes, f.Scopes.Module)}
	bf.Scopes.In = cur
	return e.eval(bf, body)
}

func scopesFromSnapshot(m map[string]value.Value, mod *module.Module) Scopes {
	s := Scopes{Module: mod}
	if v, ok := m["in"]; ok {
		s.In = v
	}
	if v, ok := m["arg"]; ok {
		s.Arg = v
	}
	if v, ok := m["ctx"]; ok {
		s.Ctx = v
	}
	if v, ok := m["mod"]; ok {
		s.Mod = v
	}
	if v, ok := m["var"]; ok {
		s.Var = v
	}
	if v, ok := m["out"]; ok {
		s.Out = &v
	}
	return s
}

// evalPipeFunc resolves, morph-scores, and invokes a function call
// (spec.md §4.6, §4.4 "Overload dispatch").
func (e *Engine) evalPipeFunc(f *Frame, cur value.Value, o *ast.PipeFunc) value.Value {
	mod := f.Scopes.Module
	if o.NamespaceExpr != nil {
		nsVal := e.eval(f.child(o.NamespaceExpr, false, ScopeOverrides{}), o.NamespaceExpr)
		if nsVal.IsFail() {
			return nsVal
		}
		owner, ok := moduleIDOf(nsVal)
		if !ok {
			return runtimeFail(value.FailTypeTag, "dynamic namespace expression did not evaluate to a tag or handle")
		}
		target, ok := module.ByID(owner)
		if !ok {
			return runtimeFail(value.FailRuntimeTag, "dynamic namespace module not found")
		}
		mod = target
	}

	overloads, err := mod.LookupFunction([]string{o.Name}, o.Namespace)
	if err != nil {
		return runtimeFail(value.FailNotFoundTag, err.Error())
	}

	args := value.Nil()
	if o.Args != nil {
		args = e.eval(f.child(o.Args, false, withIn(cur)), o.Args)
		if args.IsFail() {
			return args
		}
	}

	best, bestFD, ambiguous := pickOverload(overloads, cur)
	if bestFD == nil {
		return runtimeFail(value.FailNotFoundTag, "no matching overload for |"+o.Name)
	}
	if ambiguous {
		return runtimeFail(value.FailAmbiguousTag, "ambiguous overload dispatch for |"+o.Name)
	}

	morphedArgs := args
	if bestFD.Decl.ArgShape != nil {
		asd := module.ResolveShapeRef(*bestFD.Decl.ArgShape)
		if asd != nil {
			if r := shape.Match(args, asd, morphModeOf(bestFD.Decl.Mode)); r.Success() {
				morphedArgs = *r.Value
			}
		}
	}

	callFrame := f.child(bestFD.Decl.Body, false, ScopeOverrides{
		In:     &best,
		Arg:    &morphedArgs,
		Module: bestFD.Module,
		Out:    nil,
	})
	if bestFD.Decl.Body == nil {
		return runtimeFail(value.FailRuntimeTag, "function has no body: |"+o.Name)
	}
	return e.eval(callFrame, bestFD.Decl.Body)
}

func moduleIDOf(v value.Value) (string, bool) {
	switch {
	case v.IsTag():
		return v.Tag().ModuleID, true
	case v.IsHandle():
		return v.Handle().Kind.ModuleID, true
	default:
		return "", false
	}
}

// pickOverload runs morph for each overload's input shape against cur
// and returns the highest-scoring success, flagging a tie as ambiguous
// (spec.md §4.4: "Select the highest-scoring success; ties error as
// ambiguous overload").
func pickOverload(overloads []*module.FunctionDefinition, cur value.Value) (value.Value, *module.FunctionDefinition, bool) {
	var (
		bestVal    value.Value
		bestFD     *module.FunctionDefinition
		bestResult shape.Result
		tie        bool
	)
	for _, fd := range overloads {
		var sd *value.ShapeDefinition
		if fd.Decl.InputShape != nil {
			sd = module.ResolveShapeRef(*fd.Decl.InputShape)
		}
		var r shape.Result
		if sd == nil {
			r = shape.Result{Value: &cur}
		} else {
			r = shape.Match(cur, sd, morphModeOf(fd.Decl.Mode))
		}
		if !r.Success() {
			continue
		}
		if bestFD == nil {
			bestResult, bestFD, bestVal, tie = r, fd, *r.Value, false
			continue
		}
		if bestResult.Less(r) {
			bestResult, bestFD, bestVal, tie = r, fd, *r.Value, false
		} else if !r.Less(bestResult) {
			tie = true
		}
	}
	return bestVal, bestFD, tie
}
