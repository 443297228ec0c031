package value

import "sync/atomic"

// Unnamed is the per-instance identity marker used as a Structure key for
// positional (unlabelled) fields (spec.md §3.2). Two Unnamed markers are
// never equal, even to themselves by value — only by pointer identity,
// which is exactly what Go's comparison of pointer types gives us for
// free, unlike Python's id()-based __hash__/__eq__ override.
//
// The struct carries a sequence number purely so it has non-zero size:
// Go does not guarantee distinct addresses for zero-size allocations
// (they may all alias runtime.zerobase), which would silently break the
// "never equal" identity guarantee this type exists for.
type Unnamed struct {
	seq uint64
}

var unnamedSeq atomic.Uint64

// NewUnnamed allocates a fresh positional-field marker.
func NewUnnamed() *Unnamed {
	return &Unnamed{seq: unnamedSeq.Add(1)}
}

func (u *Unnamed) String() string { return "_" }
