package value

import "github.com/kr/pretty"

// Sprint renders v for diagnostics, delegating structural recursion to
// github.com/kr/pretty the way CUE's debugging utilities lean on the
// same library for ad hoc dumps of deeply nested evaluator state. Used
// by cmd/compcheck to print its result.
func Sprint(v Value) string {
	return pretty.Sprint(v)
}
