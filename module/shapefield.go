package module

import (
	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/value"
)

// ResolveShapeRef returns the concrete ShapeDefinition a ShapeRef
// designates, building an anonymous one on the fly for inline/union
// forms (spec.md §3.4: "inline literal shape (anonymous)"). sref's
// sub-references must already be resolved (comp/module's Phase 4), so
// this is safe to call both from Phase 4 itself (named shapes) and from
// comp/eval at evaluation time (inline MorphOp/MaskOp targets).
func ResolveShapeRef(sref ast.ShapeRef) *value.ShapeDefinition {
	switch sref.RefKind {
	case ast.ShapeRefNamed:
		return sref.Resolved
	case ast.ShapeRefInline:
		sd := &value.ShapeDefinition{}
		for _, fd := range sref.Fields {
			field := value.ShapeField{
				Name:     fd.Name,
				IsArray:  fd.IsArray,
				ArrayMin: fd.ArrayMin,
				ArrayMax: fd.ArrayMax,
				Type:     ResolveFieldType(fd),
			}
			sd.Fields = append(sd.Fields, field)
		}
		return sd
	case ast.ShapeRefUnion:
		sd := &value.ShapeDefinition{IsUnion: true}
		for _, m := range sref.Members {
			if mem := ResolveShapeRef(m); mem != nil {
				sd.UnionMembers = append(sd.UnionMembers, mem)
			}
		}
		return sd
	default:
		return nil
	}
}

// ResolveFieldType maps one already-resolved ShapeFieldDef to the
// ShapeFieldType the morph engine matches against (spec.md §3.4's field
// type reference: "another ShapeDefinition, a tag, a primitive, a
// handle kind, or None for any"). Used for both named shape fields
// (Phase 4, once the field's sub-reference is resolved) and inline
// shape fields (comp/eval, building the anonymous ShapeDefinition at
// evaluation time).
func ResolveFieldType(fd ast.ShapeFieldDef) value.ShapeFieldType {
	switch {
	case fd.HasShape:
		return shapeFieldTypeOfRef(fd.Shape)
	case fd.Tag != nil:
		return value.ShapeFieldType{Kind: value.ShapeTypeTag, Tag: fd.Tag.Resolved}
	case fd.Handle != nil:
		return value.ShapeFieldType{Kind: value.ShapeTypeHandle, Handle: fd.Handle.Resolved}
	default:
		return value.ShapeFieldType{Kind: value.ShapeTypeAny}
	}
}

// shapeFieldTypeOfRef maps a resolved shape sub-reference to a
// ShapeFieldType, collapsing the five well-known primitive singletons
// (value.ShapeNum etc.) to their dedicated ShapeTypeKind rather than the
// generic ShapeTypeShape, so morph's primitive fast paths apply.
func shapeFieldTypeOfRef(sref ast.ShapeRef) value.ShapeFieldType {
	sd := ResolveShapeRef(sref)
	if sd == nil {
		return value.ShapeFieldType{Kind: value.ShapeTypeAny}
	}
	switch sd {
	case value.ShapeNum:
		return value.ShapeFieldType{Kind: value.ShapeTypeNum}
	case value.ShapeStr:
		return value.ShapeFieldType{Kind: value.ShapeTypeStr}
	case value.ShapeBool:
		return value.ShapeFieldType{Kind: value.ShapeTypeBool}
	case value.ShapeTag:
		return value.ShapeFieldType{Kind: value.ShapeTypeTag}
	case value.ShapeAny:
		return value.ShapeFieldType{Kind: value.ShapeTypeAny}
	default:
		return value.ShapeFieldType{Kind: value.ShapeTypeShape, Shape: sd}
	}
}
