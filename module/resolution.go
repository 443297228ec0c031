package module

import (
	"strings"

	"comp-lang.dev/comp/errors"
	"comp-lang.dev/comp/token"
)

type defKind int

const (
	kindTag defKind = iota
	kindShape
	kindFunc
	kindHandle
)

func (k defKind) String() string {
	switch k {
	case kindTag:
		return "tag"
	case kindShape:
		return "shape"
	case kindFunc:
		return "function"
	case kindHandle:
		return "handle"
	default:
		return "?"
	}
}

// ambiguous is the sentinel stored in the resolution table when two
// definitions contribute the same partial path under the same namespace
// key (spec.md §4.3, §4.5 Phase 3).
var ambiguous = &struct{ ambiguousMarker bool }{true}

type resKey struct {
	kind      defKind
	path      string // leaf-first segments joined by "\x00"
	namespace string
}

// resolutionTable is the single dictionary keyed by (kind,
// partial_path_tuple, optional_namespace_name) → definition or
// AMBIGUOUS, built once during Phase 3 and consulted O(1) thereafter
// (spec.md §4.5 Phase 3, §9 "a two-stage table... beats any runtime
// search").
type resolutionTable map[resKey]any

func newResolutionTable() resolutionTable { return resolutionTable{} }

func leafFirstKey(path []string) string {
	rev := make([]string, len(path))
	for i, s := range path {
		rev[len(path)-1-i] = s
	}
	return strings.Join(rev, "\x00")
}

func suffixesLeafFirst(path []string) []string {
	out := make([]string, 0, len(path))
	full := leafFirstKey(path)
	segs := strings.Split(full, "\x00")
	for i := 1; i <= len(segs); i++ {
		out = append(out, strings.Join(segs[:i], "\x00"))
	}
	return out
}

func (t resolutionTable) put(k resKey, def any) {
	existing, ok := t[k]
	if !ok {
		t[k] = def
		return
	}
	if k.kind == kindFunc {
		if !funcDefsEqual(existing, def) {
			t[k] = ambiguous
		}
		return
	}
	if existing != def {
		t[k] = ambiguous
	}
}

// funcDefsEqual compares two resolution-table entries known to be for
// kindFunc, which are always []*FunctionDefinition — a slice, so put
// cannot compare them with == the way it does the comparable pointer
// types (*TagDefinition etc.) every other kind stores: two distinct
// slices compared with != panics ("comparing uncomparable type") rather
// than reporting ambiguity, which would turn a valid collision (e.g.
// "geom.area" and "phys.area" sharing the suffix "area") into a crash
// instead of the Ambiguous reference error lookup reports for the
// ambiguous sentinel.
func funcDefsEqual(existing, def any) bool {
	ef, ok := existing.([]*FunctionDefinition)
	if !ok {
		// existing is already the ambiguous sentinel.
		return false
	}
	df, ok := def.([]*FunctionDefinition)
	if !ok || len(ef) != len(df) {
		return false
	}
	for i := range ef {
		if ef[i] != df[i] {
			return false
		}
	}
	return true
}

// indexModule registers every suffix of every definition path in mod,
// under namespace (empty string for the local module itself).
func (t resolutionTable) indexModule(mod *Module, namespace string) {
	t.indexModuleFiltered(mod, namespace, nil)
}

// indexModuleFiltered is indexModule with an optional shadow set: keys
// already present in shadow are skipped rather than indexed, used to
// give a module's own local definitions silent priority over its
// namespaces' unqualified contributions (spec.md §4.3: "if the same
// partial path exists in two imported namespaces and is not shadowed
// locally, mark AMBIGUOUS" — shadowed locally means no ambiguity, even
// if the namespaces also disagree with each other).
func (t resolutionTable) indexModuleFiltered(mod *Module, namespace string, shadow map[resKey]bool) {
	for _, key := range mod.TagOrder {
		td := mod.Tags[key]
		for _, suf := range suffixesLeafFirst(td.Path) {
			k := resKey{kindTag, suf, namespace}
			if shadow[k] {
				continue
			}
			t.put(k, td)
		}
	}
	for _, key := range mod.ShapeOrder {
		sd := mod.Shapes[key]
		for _, suf := range suffixesLeafFirst(sd.Path) {
			k := resKey{kindShape, suf, namespace}
			if shadow[k] {
				continue
			}
			t.put(k, sd)
		}
	}
	for _, key := range mod.HandleOrder {
		hk := mod.Handles[key]
		for _, suf := range suffixesLeafFirst(hk.Path) {
			k := resKey{kindHandle, suf, namespace}
			if shadow[k] {
				continue
			}
			t.put(k, hk)
		}
	}
	for _, key := range mod.FuncOrder {
		fns := mod.Functions[key]
		path := fns[0].Path
		for _, suf := range suffixesLeafFirst(path) {
			k := resKey{kindFunc, suf, namespace}
			if shadow[k] {
				continue
			}
			t.put(k, fns)
		}
	}
}

// localKeySet returns the set of keys currently indexed under the empty
// (local) namespace, used as the shadow set for unqualified namespace
// indexing.
func (t resolutionTable) localKeySet() map[resKey]bool {
	out := make(map[resKey]bool, len(t))
	for k := range t {
		if k.namespace == "" {
			out[k] = true
		}
	}
	return out
}

func (t resolutionTable) lookup(kind defKind, partial []string, namespace string) (any, error) {
	key := resKey{kind, strings.Join(partial, "\x00"), namespace}
	v, ok := t[key]
	if !ok {
		return nil, errors.Undefined(token.NoPos, kind.String(), strings.Join(partial, "."))
	}
	if v == ambiguous {
		return nil, errors.Ambiguous(token.NoPos, kind.String(), strings.Join(partial, "."), nil)
	}
	return v, nil
}
