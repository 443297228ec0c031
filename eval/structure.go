package eval

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/value"
)

// evalStructure implements spec.md §4.6's structure-literal evaluation:
// each field op runs in order against a single structure under
// construction, visible to later ops as `$out` / `@` (spec.md §4.6's
// bare-access fallthrough).
func (e *Engine) evalStructure(f *Frame, n *ast.Structure) value.Value {
	s := value.Struct(nil)
	out := value.NewStruct(s)
	childFrame := func(node ast.Node) *Frame {
		return f.child(node, false, ScopeOverrides{Out: &out})
	}

	for _, op := range n.Ops {
		switch o := op.(type) {
		case *ast.SpreadOp:
			v := e.eval(childFrame(o.Expr), o.Expr)
			if v.IsFail() {
				return v
			}
			if !v.IsStruct() {
				return runtimeFail(value.FailTypeTag, "spread operand is not a structure")
			}
			s.Spread(v.Struct())
		case *ast.FieldOp:
			v := e.eval(childFrame(o.Value), o.Value)
			if v.IsFail() {
				return v
			}
			if len(o.Key) == 0 {
				s.Append(v)
				continue
			}
			if fail := e.setField(childFrame(o.Value), s, o.Key, v); fail.IsFail() {
				return fail
			}
		}
	}
	return out
}

// setField resolves o.Key (one segment for a plain named field, more
// than one for a deep path like `one.two.three: v`) and sets v at that
// path, creating intermediate structures as needed and replacing any
// non-structure intermediate value encountered along the way (spec.md
// §4.2: "assigning into an existing non-structure at an intermediate
// segment replaces it with a structure").
func (e *Engine) setField(f *Frame, s *value.Structure, keys []ast.FieldAccessor, v value.Value) value.Value {
	cur := s
	for i := 0; i < len(keys)-1; i++ {
		kv, fail := e.accessorKey(f, keys[i])
		if fail.IsFail() {
			return fail
		}
		existing, ok := cur.GetNamed(kv)
		var next *value.Structure
		if ok && existing.IsStruct() {
			next = existing.Struct()
		} else {
			next = value.Struct(nil)
			cur.SetNamed(kv, value.NewStruct(next))
		}
		cur = next
	}
	lastKV, fail := e.accessorKey(f, keys[len(keys)-1])
	if fail.IsFail() {
		return fail
	}
	cur.SetNamed(lastKV, v)
	return value.Value{}
}

func (e *Engine) accessorKey(f *Frame, fa ast.FieldAccessor) (value.Value, value.Value) {
	switch acc := fa.(type) {
	case *ast.TokenField:
		return value.NewText(acc.Name), value.Value{}
	case *ast.StringField:
		return value.NewText(acc.Literal), value.Value{}
	case *ast.ComputeField:
		kv := e.eval(f.child(acc.Expr, false, ScopeOverrides{}), acc.Expr)
		if kv.IsFail() {
			return value.Value{}, kv
		}
		return kv, value.Value{}
	default:
		return value.Value{}, runtimeFail(value.FailRuntimeTag, "unsupported key accessor in field path")
	}
}
