package value

// ShapeTypeKind identifies what a ShapeField's type constraint checks
// against (spec.md §3.4: "another ShapeDefinition, a tag, a primitive,
// a handle kind, or None for any").
type ShapeTypeKind uint8

const (
	ShapeTypeAny ShapeTypeKind = iota
	ShapeTypeNum
	ShapeTypeStr
	ShapeTypeBool
	ShapeTypeTag
	ShapeTypeShape
	ShapeTypeHandle
)

// ShapeFieldType is the resolved type constraint of a ShapeField.
type ShapeFieldType struct {
	Kind   ShapeTypeKind
	Tag    *TagDefinition  // for Kind == ShapeTypeTag: the tag constraint itself, or nil for ~tag (any tag)
	Shape  *ShapeDefinition // set when Kind == ShapeTypeShape
	Handle *HandleKind      // set when Kind == ShapeTypeHandle
}

// ShapeField is one field of a resolved ShapeDefinition (spec.md §3.4).
// It has no spread flag: comp/module builds one ShapeField per AST
// ShapeFieldDef and does not expand spreads (ShapeFieldDef.IsSpread is
// not consulted), so a field marked as a spread becomes an ordinary field.
type ShapeField struct {
	Name     string // "" for positional
	Type     ShapeFieldType
	Default  *Value // nil means required
	IsArray  bool
	ArrayMin *int
	ArrayMax *int
}

// IsNamed reports whether this is a named field.
func (f ShapeField) IsNamed() bool { return f.Name != "" }

// IsPositional reports whether this is a positional field.
func (f ShapeField) IsPositional() bool { return f.Name == "" }

// IsRequired reports whether the field has no default value.
func (f ShapeField) IsRequired() bool { return f.Default == nil }

// ShapeDefinition is a resolved shape (spec.md §3.4). Like TagDefinition
// and HandleKind it records its owning module by id, not by pointer, to
// keep this foundational package free of a dependency on comp/module.
type ShapeDefinition struct {
	Path         []string
	ModuleID     string
	Fields       []ShapeField
	IsUnion      bool
	UnionMembers []*ShapeDefinition
}

func (s *ShapeDefinition) compEntity() {}

// Name is the shape's leaf segment.
func (s *ShapeDefinition) Name() string {
	if len(s.Path) == 0 {
		return ""
	}
	return s.Path[len(s.Path)-1]
}

// FullName is the dotted, definition-order path.
func (s *ShapeDefinition) FullName() string {
	out := ""
	for i, p := range s.Path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// MatchesPartial mirrors TagDefinition.MatchesPartial for shape
// partial-path resolution (spec.md §3.4: "partial-path rules mirror
// tags").
func (s *ShapeDefinition) MatchesPartial(partial []string) bool {
	if len(partial) > len(s.Path) {
		return false
	}
	suffix := s.Path[len(s.Path)-len(partial):]
	for i, seg := range partial {
		if suffix[len(suffix)-1-i] != seg {
			return false
		}
	}
	return true
}

// NamedFields returns the shape's named fields, in declaration order.
func (s *ShapeDefinition) NamedFields() []ShapeField {
	var out []ShapeField
	for _, f := range s.Fields {
		if f.IsNamed() {
			out = append(out, f)
		}
	}
	return out
}

// PositionalFields returns the shape's positional fields, in declaration
// order.
func (s *ShapeDefinition) PositionalFields() []ShapeField {
	var out []ShapeField
	for _, f := range s.Fields {
		if f.IsPositional() {
			out = append(out, f)
		}
	}
	return out
}

// Primitive shape singletons (spec.md §4.8): placeholder ShapeDefinitions
// whose matching is handled structurally by the morph engine's primitive
// rules (comp/shape), not by a Fields list.
var (
	ShapeNum  = &ShapeDefinition{Path: []string{"num"}}
	ShapeStr  = &ShapeDefinition{Path: []string{"str"}}
	ShapeBool = &ShapeDefinition{Path: []string{"bool"}}
	ShapeAny  = &ShapeDefinition{Path: []string{"any"}}
	ShapeTag  = &ShapeDefinition{Path: []string{"tag"}}
)
