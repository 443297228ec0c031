package value

import "github.com/cockroachdb/apd/v3"

// FromGoInt, FromGoFloat64, FromGoString and FromGoBool are the
// convenience constructors comp/eval's literal evaluators and
// comp/builtin's function implementations use, mirroring the
// polymorphic Value(data) constructor of the reference implementation
// (spec.md §4.1's construction list) without overloading a single Go
// constructor on interface{} (idiomatic Go prefers named constructors
// per concrete source type over a reflective do-everything one).
func FromGoInt(i int64) Value { return NewNumberFromInt64(i) }

func FromGoFloat64(f float64) (Value, error) {
	var d apd.Decimal
	_, err := d.SetFloat64(f)
	if err != nil {
		return Value{}, err
	}
	return newValue(KindNumber, &d), nil
}

func FromGoString(s string) Value { return NewText(s) }

func FromGoBool(b bool) Value { return NewBool(b) }

// FromGoList wraps a slice of Values into a Structure with fresh Unnamed
// keys (spec.md §4.1: "list/tuple -> Structure with Unnamed keys").
func FromGoList(vals []Value) Value {
	s := Struct(nil)
	for _, v := range vals {
		s.Append(v)
	}
	return NewStruct(s)
}
