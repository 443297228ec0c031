package eval_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/eval"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

func prepModule(t *testing.T) *module.Module {
	t.Helper()
	m := module.New("eval-test")
	errs := m.Prepare(&ast.Module{}, eval.New().EvalConst)
	qt.Assert(t, qt.IsTrue(len(errs) == 0))
	return m
}

func TestEvalNumberLiteral(t *testing.T) {
	m := prepModule(t)
	r := eval.New().Run(m, &ast.Number{Literal: "42"}, value.Nil())
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	qt.Assert(t, qt.IsTrue(r.IsNumber()))
	qt.Assert(t, qt.Equals(r.AsDecimal().String(), "42"))
}

func TestEvalStringLiteral(t *testing.T) {
	m := prepModule(t)
	r := eval.New().Run(m, &ast.String{Literal: "hi"}, value.Nil())
	qt.Assert(t, qt.IsTrue(r.IsText()))
	qt.Assert(t, qt.Equals(r.Text(), "hi"))
}

func TestEvalArithmeticAddSubMulDiv(t *testing.T) {
	m := prepModule(t)
	e := eval.New()
	for _, tc := range []struct {
		op   string
		want string
	}{
		{"+", "3"},
		{"-", "-1"},
		{"*", "2"},
		{"/", "0.5"},
	} {
		n := &ast.ArithmeticOp{Op: tc.op, Left: &ast.Number{Literal: "1"}, Right: &ast.Number{Literal: "2"}}
		r := e.Run(m, n, value.Nil())
		qt.Assert(t, qt.IsFalse(r.IsFail()))
		qt.Assert(t, qt.Equals(r.AsDecimal().String(), tc.want))
	}
}

func TestEvalArithmeticDivByZeroFails(t *testing.T) {
	m := prepModule(t)
	n := &ast.ArithmeticOp{Op: "/", Left: &ast.Number{Literal: "1"}, Right: &ast.Number{Literal: "0"}}
	r := eval.New().Run(m, n, value.Nil())
	qt.Assert(t, qt.IsTrue(r.IsFail()))
}

func TestEvalArithmeticTypeMismatchFails(t *testing.T) {
	m := prepModule(t)
	n := &ast.ArithmeticOp{Op: "+", Left: &ast.Number{Literal: "1"}, Right: &ast.String{Literal: "x"}}
	r := eval.New().Run(m, n, value.Nil())
	qt.Assert(t, qt.IsTrue(r.IsFail()))
}

func TestEvalComparisonOperators(t *testing.T) {
	m := prepModule(t)
	e := eval.New()
	for _, tc := range []struct {
		op   string
		want bool
	}{
		{"==", false},
		{"!=", true},
		{"<", true},
		{"<=", true},
		{">", false},
		{">=", false},
	} {
		n := &ast.ComparisonOp{Op: tc.op, Left: &ast.Number{Literal: "1"}, Right: &ast.Number{Literal: "2"}}
		r := e.Run(m, n, value.Nil())
		qt.Assert(t, qt.IsFalse(r.IsFail()))
		got, ok := asBool(r)
		qt.Assert(t, qt.IsTrue(ok))
		qt.Assert(t, qt.Equals(got, tc.want))
	}
}

func TestEvalBooleanShortCircuits(t *testing.T) {
	m := prepModule(t)
	e := eval.New()

	and := &ast.BooleanOp{Op: "and", Left: tagBool(false), Right: &ast.Placeholder{}}
	r := e.Run(m, and, value.Nil())
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	got, _ := asBool(r)
	qt.Assert(t, qt.IsFalse(got))

	or := &ast.BooleanOp{Op: "or", Left: tagBool(true), Right: &ast.Placeholder{}}
	r = e.Run(m, or, value.Nil())
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	got, _ = asBool(r)
	qt.Assert(t, qt.IsTrue(got))
}

func TestEvalUnaryNegateAndNot(t *testing.T) {
	m := prepModule(t)
	e := eval.New()

	neg := &ast.UnaryOp{Op: "-", Operand: &ast.Number{Literal: "5"}}
	r := e.Run(m, neg, value.Nil())
	qt.Assert(t, qt.Equals(r.AsDecimal().String(), "-5"))

	not := &ast.UnaryOp{Op: "not", Operand: tagBool(false)}
	r = e.Run(m, not, value.Nil())
	got, _ := asBool(r)
	qt.Assert(t, qt.IsTrue(got))
}

func TestEvalFallbackOpUsesRightOnFailure(t *testing.T) {
	m := prepModule(t)
	n := &ast.FallbackOp{Left: &ast.Placeholder{}, Right: &ast.Number{Literal: "9"}}
	r := eval.New().Run(m, n, value.Nil())
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	qt.Assert(t, qt.Equals(r.AsDecimal().String(), "9"))
}

func TestEvalIdentifierFieldAccess(t *testing.T) {
	m := prepModule(t)
	s := value.Struct(nil)
	s.SetNamed(value.NewText("x"), value.FromGoInt(7))
	seed := value.NewStruct(s)

	id := &ast.Identifier{Scope: "in", Fields: []ast.FieldAccessor{&ast.TokenField{Name: "x"}}}
	r := eval.New().Run(m, id, seed)
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	qt.Assert(t, qt.Equals(r.AsDecimal().String(), "7"))
}

func TestEvalIdentifierUndefinedScopeFails(t *testing.T) {
	m := prepModule(t)
	id := &ast.Identifier{Scope: "bogus"}
	r := eval.New().Run(m, id, value.Nil())
	qt.Assert(t, qt.IsTrue(r.IsFail()))
}

func TestEvalMorphOpWiresTagTypedInlineField(t *testing.T) {
	m := prepModule(t)
	statusTag := &value.TagDefinition{Path: []string{"status"}}
	okTag := &value.TagDefinition{Path: []string{"status", "ok"}}
	okTag.ExtendsParent = statusTag

	s := value.Struct(nil)
	s.Append(value.NewTag(okTag))
	seed := value.NewStruct(s)

	sref := ast.ShapeRef{RefKind: ast.ShapeRefInline, Fields: []ast.ShapeFieldDef{
		{Name: "status", Tag: &ast.TagValueRef{Resolved: statusTag}},
	}}
	morph := &ast.MorphOp{Expr: &ast.Identifier{Scope: "in"}, Shape: sref}

	r := eval.New().Run(m, morph, seed)
	qt.Assert(t, qt.IsFalse(r.IsFail()))
	got, ok := r.Struct().GetNamed(value.NewText("status"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(got.Equal(value.NewTag(okTag))))
}

func tagBool(b bool) ast.Expr {
	if b {
		return &ast.TagValueRef{Resolved: value.TrueTag}
	}
	return &ast.TagValueRef{Resolved: value.FalseTag}
}

func asBool(v value.Value) (bool, bool) {
	if !v.IsTag() {
		return false, false
	}
	switch v.Tag() {
	case value.TrueTag:
		return true, true
	case value.FalseTag:
		return false, true
	default:
		return false, false
	}
}
