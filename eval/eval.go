package eval

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/handle"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/shape"
	"comp-lang.dev/comp/value"
)

// eval dispatches one AST node under frame f, the Go-call-stack
// realization of spec.md §4.6's node.evaluate(frame) generator: each case
// below is the body that, in the generator model, would yield Compute
// requests for its children; here it simply calls e.eval recursively,
// the child Frame standing in for the child generator's frame.
func (e *Engine) eval(f *Frame, node ast.Node) value.Value {
	e.logTrace(f, "eval")
	switch n := node.(type) {
	case *ast.Number:
		v, err := value.NewNumberFromString(n.Literal)
		if err != nil {
			return runtimeFail(value.FailTypeTag, "malformed number literal: "+n.Literal)
		}
		return v
	case *ast.String:
		return value.NewText(n.Literal)
	case *ast.Identifier:
		return e.evalIdentifier(f, n)
	case *ast.ArithmeticOp:
		return e.evalArithmetic(f, n)
	case *ast.ComparisonOp:
		return e.evalComparison(f, n)
	case *ast.BooleanOp:
		return e.evalBoolean(f, n)
	case *ast.UnaryOp:
		return e.evalUnary(f, n)
	case *ast.FallbackOp:
		left := e.eval(f.child(n.Left, true, ScopeOverrides{}), n.Left)
		if left.IsFail() {
			return e.eval(f.child(n.Right, false, ScopeOverrides{}), n.Right)
		}
		return left
	case *ast.MorphOp:
		return e.evalMorphOp(f, n.Expr, n.Shape, n.Mode)
	case *ast.MaskOp:
		return e.evalMorphOp(f, n.Expr, n.Shape, n.Mode)
	case *ast.Structure:
		return e.evalStructure(f, n)
	case *ast.Pipeline:
		return e.evalPipeline(f, n)
	case *ast.Block:
		return value.NewBlock(&value.Block{Body: n.Body, Scopes: snapshotScopes(f.Scopes)})
	case *ast.TagValueRef:
		if n.Resolved == nil {
			return runtimeFail(value.FailRuntimeTag, "unresolved tag reference")
		}
		return value.NewTag(n.Resolved)
	case *ast.GrabExpr:
		if n.Kind.Resolved == nil {
			return runtimeFail(value.FailRuntimeTag, "unresolved handle kind reference")
		}
		return handle.Grab(n.Kind.Resolved, f.Scopes.Module.ID)
	case *ast.NativeExpr:
		return n.Fn(f.Scopes.In, f.Scopes.Arg)
	case *ast.Placeholder:
		return runtimeFail(value.FailRuntimeTag, "unsupported construct reached at evaluation time")
	default:
		return runtimeFail(value.FailRuntimeTag, "no evaluator for AST node")
	}
}

func runtimeFail(tag *value.TagDefinition, msg string) value.Value {
	return value.NewFail(tag, msg, nil)
}

func snapshotScopes(s Scopes) map[string]value.Value {
	out := map[string]value.Value{"in": s.In, "arg": s.Arg, "ctx": s.Ctx, "mod": s.Mod, "var": s.Var}
	if s.Out != nil {
		out["out"] = *s.Out
	}
	return out
}

// evalIdentifier resolves the scope-rooted base, then descends the field
// chain (spec.md §4.2, §4.6).
func (e *Engine) evalIdentifier(f *Frame, n *ast.Identifier) value.Value {
	base, ok := lookupScope(f.Scopes, n.Scope)
	if !ok {
		return runtimeFail(value.FailNotFoundTag, "undefined scope reference: "+n.Scope)
	}
	cur := base
	for _, fa := range n.Fields {
		cur = e.descend(f, cur, fa)
		if cur.IsFail() {
			return cur
		}
	}
	return cur
}

// lookupScope implements spec.md §4.6's scope table: named prefixes, plus
// the bare-access fallthrough ($out, then $in).
func lookupScope(s Scopes, scope string) (value.Value, bool) {
	switch scope {
	case "in":
		return s.In, true
	case "arg":
		return s.Arg, true
	case "ctx":
		return s.Ctx, true
	case "mod":
		return s.Mod, true
	case "var":
		return s.Var, true
	case "":
		if s.Out != nil {
			return *s.Out, true
		}
		return s.In, true
	default:
		return value.Value{}, false
	}
}

func (e *Engine) descend(f *Frame, base value.Value, fa ast.FieldAccessor) value.Value {
	if !base.IsStruct() {
		return runtimeFail(value.FailTypeTag, "field access on a non-structure value")
	}
	s := base.Struct()
	switch acc := fa.(type) {
	case *ast.TokenField:
		v, ok := s.GetNamed(value.NewText(acc.Name))
		if !ok {
			return runtimeFail(value.FailNotFoundTag, "field not found: "+acc.Name)
		}
		return v
	case *ast.StringField:
		v, ok := s.GetNamed(value.NewText(acc.Literal))
		if !ok {
			return runtimeFail(value.FailNotFoundTag, "field not found: "+acc.Literal)
		}
		return v
	case *ast.IndexField:
		idx := -1
		if acc.N != nil {
			idx = *acc.N
		} else {
			iv := e.eval(f.child(acc.Expr, false, ScopeOverrides{}), acc.Expr)
			if iv.IsFail() {
				return iv
			}
			if !iv.IsNumber() {
				return runtimeFail(value.FailTypeTag, "index expression did not evaluate to a number")
			}
			n, err := iv.AsDecimal().Int64()
			if err != nil || n < 0 {
				return runtimeFail(value.FailNotFoundTag, "negative or invalid index")
			}
			idx = int(n)
		}
		if idx < 0 || idx >= s.Len() {
			return runtimeFail(value.FailNotFoundTag, "index out of bounds")
		}
		_, v := s.EntryAt(idx)
		return v
	case *ast.ComputeField:
		kv := e.eval(f.child(acc.Expr, false, ScopeOverrides{}), acc.Expr)
		if kv.IsFail() {
			return kv
		}
		v, ok := s.GetNamed(kv)
		if !ok {
			return runtimeFail(value.FailNotFoundTag, "computed field not found")
		}
		return v
	case *ast.ScopeField:
		// `@` local/unnamed fallback: the sole positional field, if the
		// structure has exactly one.
		pos := s.Positional()
		if len(pos) != 1 {
			return runtimeFail(value.FailNotFoundTag, "@ fallback requires exactly one positional field")
		}
		return pos[0]
	default:
		return runtimeFail(value.FailRuntimeTag, "unsupported field accessor")
	}
}

func (e *Engine) evalMorphOp(f *Frame, expr ast.Expr, sref ast.ShapeRef, mode ast.MorphMode) value.Value {
	v := e.eval(f.child(expr, false, ScopeOverrides{}), expr)
	if v.IsFail() {
		return v
	}
	sd := module.ResolveShapeRef(sref)
	if sd == nil {
		return runtimeFail(value.FailRuntimeTag, "unresolved shape reference")
	}
	r := shape.Match(v, sd, morphModeOf(mode))
	if !r.Success() {
		return runtimeFail(value.FailTypeTag, "value does not match shape")
	}
	return *r.Value
}

func morphModeOf(m ast.MorphMode) shape.Mode {
	switch m {
	case ast.ModeStrong:
		return shape.Strong
	case ast.ModeWeak:
		return shape.Weak
	default:
		return shape.Normal
	}
}

// resolveShapeRef and shapeFieldTypeOf used to live here; both now live
// in comp/module as ResolveShapeRef/ResolveFieldType, shared with Phase
// 4's named-shape field wiring (module/shapefield.go, module/
// resolve_walker.go) so inline and named shape fields map to
// value.ShapeFieldType through the same code.
