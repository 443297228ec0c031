package module

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/errors"
)

// resolveWalker implements Phase 4 (spec.md §4.5): it walks every
// expression reachable from the module's declarations and replaces each
// TagValueRef / named ShapeRef / HandleRef's unresolved form with a
// direct pointer to its definition, looked up in the module's
// resolution table built in Phase 3.
//
// FuncRef is deliberately not pre-resolved to a single pointer here:
// spec.md §4.4 defines function dispatch as a scored runtime search over
// an overload set ("collect all overloads sharing the function path...
// select the highest-scoring success"), which cannot be collapsed to one
// definition pointer ahead of the call's argument shape being known.
// PipeFunc call sites resolve their overload set through
// Module.LookupFunction at call time instead (comp/eval); this is the
// Open Question resolution recorded in DESIGN.md.
type resolveWalker struct {
	m    *Module
	errs errors.List
}

func (w *resolveWalker) walkDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.TagDef:
		w.walkExpr(decl.ValueExpr)
		w.walkExpr(decl.Generator)
		for _, c := range decl.Children {
			w.walkTagChild(c)
		}
	case *ast.ShapeDef:
		sd := w.m.Shapes[fullPath(decl.PathSegment)]
		for i := range decl.Fields {
			w.walkShapeFieldDef(&decl.Fields[i])
			// decl.Union == nil: Phase 2 (evalShapeBody) appends exactly
			// one ShapeField per decl.Fields entry for a non-union
			// ShapeDef, so the index lines up here, right after the
			// field's Shape/Tag/Handle sub-reference above resolves to
			// a pointer.
			if sd != nil && decl.Union == nil && i < len(sd.Fields) {
				sd.Fields[i].Type = ResolveFieldType(decl.Fields[i])
			}
		}
		if decl.Union != nil {
			for i := range decl.Union.Members {
				w.walkShapeRef(&decl.Union.Members[i])
				if sd == nil {
					continue
				}
				if mem := ResolveShapeRef(decl.Union.Members[i]); mem != nil {
					sd.UnionMembers = append(sd.UnionMembers, mem)
				}
			}
		}
	case *ast.FuncDef:
		if decl.InputShape != nil {
			w.walkShapeRef(decl.InputShape)
		}
		if decl.ArgShape != nil {
			w.walkShapeRef(decl.ArgShape)
		}
		if decl.Body != nil {
			w.walkExpr(decl.Body)
		}
	case *ast.HandleDef:
		if decl.Extends != nil {
			w.walkHandleRef(decl.Extends)
			if decl.Extends.Resolved != nil {
				if own, ok := w.m.Handles[fullPath(decl.PathSegment)]; ok {
					own.ExtendsParent = decl.Extends.Resolved
				}
			}
		}
		w.walkExpr(decl.DropBlock)
	case *ast.ExprStmt:
		w.walkExpr(decl.Expr)
	case *ast.ImportDef:
		// external source kinds are not resolved by the core (spec.md §1).
	}
}

func (w *resolveWalker) walkTagChild(c *ast.TagChild) {
	w.walkExpr(c.ValueExpr)
	for _, gc := range c.Children {
		w.walkTagChild(gc)
	}
}

func (w *resolveWalker) walkShapeFieldDef(fd *ast.ShapeFieldDef) {
	if fd.HasShape {
		w.walkShapeRef(&fd.Shape)
	}
	if fd.Tag != nil {
		w.walkExpr(fd.Tag)
	}
	if fd.Handle != nil {
		w.walkHandleRef(fd.Handle)
	}
	w.walkExpr(fd.Default)
}

func (w *resolveWalker) walkShapeRef(s *ast.ShapeRef) {
	if s == nil {
		return
	}
	switch s.RefKind {
	case ast.ShapeRefNamed:
		sd, err := w.m.LookupShape(s.PathLeafFirst, s.Namespace)
		if err != nil {
			w.errs = errors.Append(w.errs, err.(errors.Error))
			return
		}
		s.Resolved = sd
	case ast.ShapeRefInline:
		for i := range s.Fields {
			w.walkShapeFieldDef(&s.Fields[i])
		}
	case ast.ShapeRefUnion:
		for i := range s.Members {
			w.walkShapeRef(&s.Members[i])
		}
	}
}

func (w *resolveWalker) walkHandleRef(h *ast.HandleRef) {
	if h == nil {
		return
	}
	hk, err := w.m.LookupHandleKind(h.PathLeafFirst, h.Namespace)
	if err != nil {
		w.errs = errors.Append(w.errs, err.(errors.Error))
		return
	}
	h.Resolved = hk
}

func (w *resolveWalker) walkFieldAccessor(f ast.FieldAccessor) {
	switch fa := f.(type) {
	case *ast.IndexField:
		w.walkExpr(fa.Expr)
	case *ast.ComputeField:
		w.walkExpr(fa.Expr)
	}
}

func (w *resolveWalker) walkExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Number, *ast.String, *ast.Placeholder:
		// leaves
	case *ast.Identifier:
		for _, fa := range n.Fields {
			w.walkFieldAccessor(fa)
		}
	case *ast.ArithmeticOp:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)
	case *ast.ComparisonOp:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)
	case *ast.BooleanOp:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)
	case *ast.UnaryOp:
		w.walkExpr(n.Operand)
	case *ast.FallbackOp:
		w.walkExpr(n.Left)
		w.walkExpr(n.Right)
	case *ast.MorphOp:
		w.walkExpr(n.Expr)
		w.walkShapeRef(&n.Shape)
	case *ast.MaskOp:
		w.walkExpr(n.Expr)
		w.walkShapeRef(&n.Shape)
	case *ast.Structure:
		for _, op := range n.Ops {
			w.walkStructureOp(op)
		}
	case *ast.Pipeline:
		w.walkExpr(n.Seed)
		for _, op := range n.Operations {
			w.walkPipelineOp(op)
		}
	case *ast.Block:
		w.walkExpr(n.Body)
	case *ast.TagValueRef:
		td, err := w.m.LookupTag(n.PathLeafFirst, n.Namespace)
		if err != nil {
			w.errs = errors.Append(w.errs, err.(errors.Error))
			return
		}
		n.Resolved = td
	case *ast.ShapeRef:
		w.walkShapeRef(n)
	case *ast.FuncRef:
		// see type doc comment: resolved dynamically at call time.
	case *ast.HandleRef:
		w.walkHandleRef(n)
	case *ast.GrabExpr:
		w.walkHandleRef(&n.Kind)
	}
}

func (w *resolveWalker) walkStructureOp(op ast.StructureOp) {
	switch o := op.(type) {
	case *ast.FieldOp:
		for _, fa := range o.Key {
			w.walkFieldAccessor(fa)
		}
		w.walkExpr(o.Value)
	case *ast.SpreadOp:
		w.walkExpr(o.Expr)
	}
}

func (w *resolveWalker) walkPipelineOp(op ast.PipelineOp) {
	switch o := op.(type) {
	case *ast.PipeFunc:
		w.walkExpr(o.Args)
		w.walkExpr(o.NamespaceExpr)
	case *ast.PipeStruct:
		w.walkExpr(o.Struct)
	case *ast.PipeBlock:
		w.walkExpr(o.Ref)
	case *ast.PipeFallback:
		w.walkExpr(o.Expr)
	case *ast.DropStmt:
		w.walkExpr(o.Expr)
	}
}
