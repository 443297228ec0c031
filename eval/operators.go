package eval

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/value"
)

func (e *Engine) evalArithmetic(f *Frame, n *ast.ArithmeticOp) value.Value {
	l := e.eval(f.child(n.Left, false, ScopeOverrides{}), n.Left)
	if l.IsFail() {
		return l
	}
	r := e.eval(f.child(n.Right, false, ScopeOverrides{}), n.Right)
	if r.IsFail() {
		return r
	}
	if !l.IsNumber() || !r.IsNumber() {
		return runtimeFail(value.FailTypeTag, "arithmetic operand is not a number")
	}
	var (
		res value.Value
		err error
	)
	switch n.Op {
	case "+":
		res, err = value.NumAdd(l, r)
	case "-":
		res, err = value.NumSub(l, r)
	case "*":
		res, err = value.NumMul(l, r)
	case "/":
		res, err = value.NumQuo(l, r)
		if err == value.ErrDivByZero {
			return runtimeFail(value.FailDivZeroTag, "division by zero")
		}
	default:
		return runtimeFail(value.FailRuntimeTag, "unknown arithmetic operator: "+n.Op)
	}
	if err != nil {
		return runtimeFail(value.FailRuntimeTag, "arithmetic error: "+err.Error())
	}
	return res
}

func (e *Engine) evalComparison(f *Frame, n *ast.ComparisonOp) value.Value {
	l := e.eval(f.child(n.Left, false, ScopeOverrides{}), n.Left)
	if l.IsFail() {
		return l
	}
	r := e.eval(f.child(n.Right, false, ScopeOverrides{}), n.Right)
	if r.IsFail() {
		return r
	}
	switch n.Op {
	case "==":
		return value.NewBool(l.Equal(r))
	case "!=":
		return value.NewBool(!l.Equal(r))
	}
	if !l.IsNumber() || !r.IsNumber() {
		return runtimeFail(value.FailTypeTag, "ordering comparison operand is not a number")
	}
	c := value.NumCmp(l, r)
	var ok bool
	switch n.Op {
	case "<":
		ok = c < 0
	case "<=":
		ok = c <= 0
	case ">":
		ok = c > 0
	case ">=":
		ok = c >= 0
	default:
		return runtimeFail(value.FailRuntimeTag, "unknown comparison operator: "+n.Op)
	}
	return value.NewBool(ok)
}

func (e *Engine) evalBoolean(f *Frame, n *ast.BooleanOp) value.Value {
	l := e.eval(f.child(n.Left, false, ScopeOverrides{}), n.Left)
	if l.IsFail() {
		return l
	}
	lb, ok := asBool(l)
	if !ok {
		return runtimeFail(value.FailTypeTag, "boolean operand is not #true/#false")
	}
	if n.Op == "and" && !lb {
		return value.NewBool(false)
	}
	if n.Op == "or" && lb {
		return value.NewBool(true)
	}
	r := e.eval(f.child(n.Right, false, ScopeOverrides{}), n.Right)
	if r.IsFail() {
		return r
	}
	rb, ok := asBool(r)
	if !ok {
		return runtimeFail(value.FailTypeTag, "boolean operand is not #true/#false")
	}
	return value.NewBool(rb)
}

func (e *Engine) evalUnary(f *Frame, n *ast.UnaryOp) value.Value {
	v := e.eval(f.child(n.Operand, false, ScopeOverrides{}), n.Operand)
	if v.IsFail() {
		return v
	}
	switch n.Op {
	case "-":
		if !v.IsNumber() {
			return runtimeFail(value.FailTypeTag, "unary - operand is not a number")
		}
		zero := value.FromGoInt(0)
		res, err := value.NumSub(zero, v)
		if err != nil {
			return runtimeFail(value.FailRuntimeTag, "unary - failed: "+err.Error())
		}
		return res
	case "not":
		b, ok := asBool(v)
		if !ok {
			return runtimeFail(value.FailTypeTag, "not operand is not #true/#false")
		}
		return value.NewBool(!b)
	default:
		return runtimeFail(value.FailRuntimeTag, "unknown unary operator: "+n.Op)
	}
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
