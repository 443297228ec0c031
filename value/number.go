package value

import (
	"github.com/cockroachdb/apd/v3"
)

// numCtx is the shared arithmetic context for Number operations
// (spec.md §3.1: "arbitrary-precision decimal, not IEEE float"). apd
// does not offer a literal unbounded precision (no real implementation
// does, short of growing memory without limit), so every operation
// (add, sub, mul, quo) shares this one context with a generous fixed
// precision of 50 digits, matching
// internal/core/adt/binop.go's apdCtx pattern one tier up in precision
// since Comp has no declared numeric type width to match CUE's.
var numCtx = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(50)
	return c
}()

// NewNumberFromInt64 builds a Number Value from an int64.
func NewNumberFromInt64(i int64) Value {
	return newValue(KindNumber, apd.New(i, 0))
}

// NewNumberFromString parses a decimal literal (spec.md §3.1: integer,
// hex/octal/binary, and decimal literals all produce Numbers). The
// external parser is expected to have already classified the literal and
// normalized hex/octal/binary text to base-10 before calling this, since
// apd.Decimal parses base-10 text.
func NewNumberFromString(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Value{}, err
	}
	return newValue(KindNumber, d), nil
}

// AsDecimal returns the underlying *apd.Decimal. It panics if v is not a
// Number; callers should check v.IsNumber() first, or rely on a morph
// check having already guaranteed the kind.
func (v Value) AsDecimal() *apd.Decimal {
	return v.payload.(*apd.Decimal)
}

// NumAdd, NumSub, NumMul, NumQuo implement Comp's arithmetic operators
// over arbitrary-precision decimals. Quo reports a div-zero error rather
// than producing apd's Infinity, since spec.md §7 requires div-by-zero to
// surface as a runtime #fail.div_zero value, not propagate a sentinel
// float.
func NumAdd(a, b Value) (Value, error) {
	var d apd.Decimal
	_, err := numCtx.Add(&d, a.AsDecimal(), b.AsDecimal())
	return newValue(KindNumber, &d), err
}

func NumSub(a, b Value) (Value, error) {
	var d apd.Decimal
	_, err := numCtx.Sub(&d, a.AsDecimal(), b.AsDecimal())
	return newValue(KindNumber, &d), err
}

func NumMul(a, b Value) (Value, error) {
	var d apd.Decimal
	_, err := numCtx.Mul(&d, a.AsDecimal(), b.AsDecimal())
	return newValue(KindNumber, &d), err
}

// ErrDivByZero is returned by NumQuo when the divisor is zero.
var ErrDivByZero = errDivByZero{}

type errDivByZero struct{}

func (errDivByZero) Error() string { return "division by zero" }

func NumQuo(a, b Value) (Value, error) {
	if b.AsDecimal().IsZero() {
		return Value{}, ErrDivByZero
	}
	var d apd.Decimal
	_, err := numCtx.Quo(&d, a.AsDecimal(), b.AsDecimal())
	return newValue(KindNumber, &d), err
}

// NumCmp compares two Number values (-1, 0, 1).
func NumCmp(a, b Value) int {
	return a.AsDecimal().Cmp(b.AsDecimal())
}
