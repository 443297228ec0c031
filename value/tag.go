package value

import "strings"

// TagDefinition is a single node in a module's tag forest (spec.md §3.3).
// Path is root-first ("status","error","timeout"); ModuleID names the
// owning module without requiring an import of the module package
// (avoiding a value<->module dependency cycle) — comp/module looks
// TagDefinitions up by ModuleID when it needs the owning *Module.
type TagDefinition struct {
	Path          []string
	TagValue      *Value
	ModuleID      string
	ExtendsParent *TagDefinition // declared relation across modules, optional
}

func (t *TagDefinition) compEntity() {}

// Name is the tag's leaf segment.
func (t *TagDefinition) Name() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

// FullName is the dotted, definition-order path.
func (t *TagDefinition) FullName() string { return strings.Join(t.Path, ".") }

// NaturalParentPath is the path's prefix within the same module, or nil
// for root tags (spec.md §4.3's "natural parent").
func (t *TagDefinition) NaturalParentPath() []string {
	if len(t.Path) <= 1 {
		return nil
	}
	return t.Path[:len(t.Path)-1]
}

// MatchesPartial reports whether t's path ends with the reversed
// (leaf-first) reference path partial, per spec.md §3.3's partial-path
// resolution rule. partial is given leaf-first, e.g. ("timeout","error")
// for the reference #timeout.error; t.Path is root-first.
func (t *TagDefinition) MatchesPartial(partial []string) bool {
	if len(partial) > len(t.Path) {
		return false
	}
	suffix := t.Path[len(t.Path)-len(partial):]
	for i, seg := range partial {
		if suffix[len(suffix)-1-i] != seg {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether t is ancestor itself (depth 0) or
// reaches it by following ExtendsParent links (depth = links followed);
// used by shape/morph's tag-typed field matching (spec.md §4.4 phase E).
// Natural (path-prefix) parents are not walked, and prepare never sets
// ExtendsParent, so a child tag is not a descendant of its natural
// parent here.
func (t *TagDefinition) IsDescendantOf(ancestor *TagDefinition) (ok bool, depth int) {
	cur := t
	for cur != nil {
		if cur == ancestor {
			return true, depth
		}
		if cur.ExtendsParent != nil {
			cur = cur.ExtendsParent
			depth++
			continue
		}
		if len(cur.Path) <= 1 {
			return false, 0
		}
		// Within the same module, the natural parent is another
		// TagDefinition one path segment shorter; resolving that
		// definition is the module's job, so IsDescendantOf only
		// walks the ExtendsParent chain here.
		return false, 0
	}
	return false, 0
}

// Compare orders two tags lexicographically by leaf name, then by parent
// names walking up (spec.md §3.3).
func (t *TagDefinition) Compare(other *TagDefinition) int {
	a, b := t.Path, other.Path
	ia, ib := len(a)-1, len(b)-1
	for ia >= 0 && ib >= 0 {
		if a[ia] != b[ib] {
			if a[ia] < b[ib] {
				return -1
			}
			return 1
		}
		ia--
		ib--
	}
	switch {
	case ia < 0 && ib < 0:
		return 0
	case ia < 0:
		return -1
	default:
		return 1
	}
}

// Equal is tag identity equality (spec.md §3.3): two tags are equal iff
// they are the same TagDefinition.
func (t *TagDefinition) Equal(other *TagDefinition) bool { return t == other }

// Well-known builtin tags (spec.md §4.8). These are canonical pointers so
// that identity comparison works without requiring callers to import the
// comp/builtin package; comp/builtin registers these same pointers into
// its Module.Tags map rather than creating new definitions.
var (
	TrueTag          = &TagDefinition{Path: []string{"true"}}
	FalseTag         = &TagDefinition{Path: []string{"false"}}
	NilTag           = &TagDefinition{Path: []string{"nil"}}
	FailTag          = &TagDefinition{Path: []string{"fail"}}
	FailRuntimeTag   = &TagDefinition{Path: []string{"fail", "runtime"}}
	FailTypeTag      = &TagDefinition{Path: []string{"fail", "type"}}
	FailDivZeroTag   = &TagDefinition{Path: []string{"fail", "div_zero"}}
	FailNotFoundTag  = &TagDefinition{Path: []string{"fail", "not_found"}}
	FailAmbiguousTag = &TagDefinition{Path: []string{"fail", "ambiguous"}}
)

func init() {
	FailRuntimeTag.ExtendsParent = FailTag
	FailTypeTag.ExtendsParent = FailTag
	FailDivZeroTag.ExtendsParent = FailTag
	FailNotFoundTag.ExtendsParent = FailTag
	FailAmbiguousTag.ExtendsParent = FailTag
}
