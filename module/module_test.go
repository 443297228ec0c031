package module_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

func constEval(_ *module.Module, e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Number:
		v, _ := value.NewNumberFromString(n.Literal)
		return v, nil
	case *ast.String:
		return value.NewText(n.Literal), nil
	}
	return value.Nil(), nil
}

func TestPrepareRegistersTagsAndIsIdempotent(t *testing.T) {
	astMod := &ast.Module{Statements: []ast.Decl{
		&ast.TagDef{PathSegment: "status", Children: []*ast.TagChild{
			{PathSegment: "ok"},
			{PathSegment: "error", Children: []*ast.TagChild{{PathSegment: "timeout"}}},
		}},
	}}
	m := module.New("m")
	errs := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))
	qt.Assert(t, qt.IsTrue(m.IsPrepared()))

	def, err := m.LookupTag([]string{"timeout", "error"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(def.FullName(), "status.error.timeout"))

	// re-preparing is a no-op (spec.md §8 idempotence).
	errs2 := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs2) == 0))
}

func TestPartialPathLookupAmbiguity(t *testing.T) {
	astMod := &ast.Module{Statements: []ast.Decl{
		&ast.TagDef{PathSegment: "a", Children: []*ast.TagChild{{PathSegment: "x"}}},
		&ast.TagDef{PathSegment: "b", Children: []*ast.TagChild{{PathSegment: "x"}}},
	}}
	m := module.New("m")
	errs := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))

	_, err := m.LookupTag([]string{"x"}, "")
	qt.Assert(t, qt.Not(qt.IsNil(err)))

	def, err := m.LookupTag([]string{"x", "a"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(def.FullName(), "a.x"))
}

func TestUndefinedTagReferenceIsBuildTimeError(t *testing.T) {
	ref := &ast.TagValueRef{PathLeafFirst: []string{"nope"}}
	astMod := &ast.Module{Statements: []ast.Decl{
		&ast.TagDef{PathSegment: "status"},
		&ast.ExprStmt{Expr: ref},
	}}
	m := module.New("m")
	errs := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) > 0))
}

func TestFuncDefRegistersOverloads(t *testing.T) {
	astMod := &ast.Module{Statements: []ast.Decl{
		&ast.FuncDef{PathSegment: []string{"area"}, Body: &ast.Structure{}},
		&ast.FuncDef{PathSegment: []string{"area"}, Body: &ast.Structure{}},
	}}
	m := module.New("m")
	errs := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))

	fns, err := m.LookupFunction([]string{"area"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(fns), 2))
}

func TestNonBuiltinModuleGetsBuiltinNamespace(t *testing.T) {
	m := module.New("m")
	errs := m.Prepare(&ast.Module{}, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))
	_, ok := m.Namespaces["builtin"]
	qt.Assert(t, qt.IsTrue(ok))
}

func TestNamedShapeFieldTypesAreWired(t *testing.T) {
	astMod := &ast.Module{Statements: []ast.Decl{
		&ast.TagDef{PathSegment: "status", Children: []*ast.TagChild{{PathSegment: "ok"}}},
		&ast.HandleDef{PathSegment: []string{"conn"}},
		&ast.ShapeDef{PathSegment: []string{"thing"}},
		&ast.ShapeDef{PathSegment: []string{"config"}, Fields: []ast.ShapeFieldDef{
			{Name: "status", Tag: &ast.TagValueRef{PathLeafFirst: []string{"status"}}},
			{Name: "conn", Handle: &ast.HandleRef{PathLeafFirst: []string{"conn"}}},
			{Name: "sub", HasShape: true, Shape: ast.ShapeRef{RefKind: ast.ShapeRefNamed, PathLeafFirst: []string{"thing"}}},
			{Name: "any"},
		}},
	}}
	m := module.New("m")
	errs := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))

	sd, err := m.LookupShape([]string{"config"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(sd.Fields), 4))

	qt.Assert(t, qt.IsTrue(sd.Fields[0].Type.Kind == value.ShapeTypeTag))
	qt.Assert(t, qt.IsTrue(sd.Fields[0].Type.Tag != nil))
	qt.Assert(t, qt.Equals(sd.Fields[0].Type.Tag.FullName(), "status"))

	qt.Assert(t, qt.IsTrue(sd.Fields[1].Type.Kind == value.ShapeTypeHandle))
	qt.Assert(t, qt.IsTrue(sd.Fields[1].Type.Handle != nil))

	qt.Assert(t, qt.IsTrue(sd.Fields[2].Type.Kind == value.ShapeTypeShape))
	thing, err := m.LookupShape([]string{"thing"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(sd.Fields[2].Type.Shape == thing))

	qt.Assert(t, qt.IsTrue(sd.Fields[3].Type.Kind == value.ShapeTypeAny))
}

func TestFunctionSuffixCollisionReportsAmbiguousNotPanic(t *testing.T) {
	astMod := &ast.Module{Statements: []ast.Decl{
		&ast.FuncDef{PathSegment: []string{"geom", "area"}, Body: &ast.Structure{}},
		&ast.FuncDef{PathSegment: []string{"phys", "area"}, Body: &ast.Structure{}},
	}}
	m := module.New("m")
	errs := m.Prepare(astMod, constEval)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))

	_, err := m.LookupFunction([]string{"area"}, "")
	qt.Assert(t, qt.Not(qt.IsNil(err)))

	fns, err := m.LookupFunction([]string{"area", "geom"}, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(fns), 1))
}
