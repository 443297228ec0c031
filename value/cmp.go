package value

import "github.com/google/go-cmp/cmp"

// CmpOption lets tests diff Values with github.com/google/go-cmp
// despite Value's unexported fields, by delegating the comparison to
// Equal — the same "Comparer over the domain equality method" pattern
// internal/core/adt's test helpers use for cmp.Diff over adt.Value.
var CmpOption = cmp.Comparer(func(a, b Value) bool { return a.Equal(b) })
