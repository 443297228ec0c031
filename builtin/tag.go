package builtin

import (
	"strings"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

var installedTag *module.Module

// InstallTag builds the "tag" standard-library module: tag-hierarchy
// navigation functions grounded on src/comp/corelib/tag.py
// (immediate-children, children, natural-parents, parents, root). Like
// InstallStr, this is an opt-in namespace rather than an implicit one.
func InstallTag() *module.Module {
	if installedTag != nil {
		return installedTag
	}
	m := module.New("tag")
	for _, nf := range []struct {
		name string
		fn   func(in, arg value.Value) value.Value
	}{
		{"immediate-children", tagImmediateChildren},
		{"children", tagChildren},
		{"natural-parents", tagNaturalParents},
		{"parents", tagParents},
		{"root", tagRoot},
	} {
		m.RegisterNativeFunction(&module.FunctionDefinition{
			Path: []string{nf.name},
			Decl: &ast.FuncDef{
				PathSegment: []string{nf.name},
				Body:        &ast.NativeExpr{Name: nf.name, Fn: nf.fn},
			},
			Module: m,
		})
	}
	m.FinalizeNative()
	installedTag = m
	return m
}

func extractTag(in value.Value) (*value.TagDefinition, value.Value) {
	s := in.AsScalar()
	if !s.IsTag() {
		return nil, fail(value.FailTypeTag, "expected a tag")
	}
	return s.Tag(), value.Value{}
}

// ownerTags returns the TagDefinition registry of td's owning module, or
// nil if the module can't be found (e.g. a tag built outside any
// module.New, as in isolated tests).
func ownerTags(td *value.TagDefinition) map[string]*value.TagDefinition {
	m, ok := module.ByID(td.ModuleID)
	if !ok {
		return nil
	}
	return m.Tags
}

func joinPath(p []string) string { return strings.Join(p, ".") }

func tagList(defs []*value.TagDefinition) value.Value {
	s := value.Struct(nil)
	for _, d := range defs {
		s.Append(value.NewTag(d))
	}
	return value.NewStruct(s)
}

// tagImmediateChildren finds every tag one path segment longer than td
// whose prefix is exactly td's path, within td's own module.
func tagImmediateChildren(in, _ value.Value) value.Value {
	td, failv := extractTag(in)
	if td == nil {
		return failv
	}
	tags := ownerTags(td)
	var out []*value.TagDefinition
	for _, other := range tags {
		if len(other.Path) != len(td.Path)+1 {
			continue
		}
		if joinPath(other.Path[:len(td.Path)]) == joinPath(td.Path) {
			out = append(out, other)
		}
	}
	return tagList(out)
}

// tagChildren finds every descendant of td (any path strictly longer
// with td's path as a prefix) within td's own module.
func tagChildren(in, _ value.Value) value.Value {
	td, failv := extractTag(in)
	if td == nil {
		return failv
	}
	tags := ownerTags(td)
	prefix := joinPath(td.Path)
	var out []*value.TagDefinition
	for _, other := range tags {
		if len(other.Path) <= len(td.Path) {
			continue
		}
		if joinPath(other.Path[:len(td.Path)]) == prefix {
			out = append(out, other)
		}
	}
	return tagList(out)
}

// tagNaturalParents walks td's path prefixes within its own module,
// leaf-first, resolving each prefix to its TagDefinition.
func tagNaturalParents(in, _ value.Value) value.Value {
	td, failv := extractTag(in)
	if td == nil {
		return failv
	}
	tags := ownerTags(td)
	var out []*value.TagDefinition
	for p := td.NaturalParentPath(); len(p) > 0; p = p[:len(p)-1] {
		if parent, ok := tags[joinPath(p)]; ok {
			out = append(out, parent)
		}
	}
	return tagList(out)
}

// tagParents is natural-parents followed by the cross-module
// ExtendsParent chain (spec.md §4.3's two kinds of ancestry).
func tagParents(in, _ value.Value) value.Value {
	td, failv := extractTag(in)
	if td == nil {
		return failv
	}
	tags := ownerTags(td)
	var out []*value.TagDefinition
	for p := td.NaturalParentPath(); len(p) > 0; p = p[:len(p)-1] {
		if parent, ok := tags[joinPath(p)]; ok {
			out = append(out, parent)
		}
	}
	for cur := td.ExtendsParent; cur != nil; cur = cur.ExtendsParent {
		out = append(out, cur)
	}
	return tagList(out)
}

// tagRoot returns the top of td's natural hierarchy (the shortest-path
// ancestor within td's own module), not crossing ExtendsParent links.
func tagRoot(in, _ value.Value) value.Value {
	td, failv := extractTag(in)
	if td == nil {
		return failv
	}
	if len(td.Path) <= 1 {
		return value.NewTag(td)
	}
	tags := ownerTags(td)
	root, ok := tags[td.Path[0]]
	if !ok {
		return value.NewTag(td)
	}
	return value.NewTag(root)
}
