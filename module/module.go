// Package module implements the module system of spec.md §3.6, §4.3,
// §4.5: definitions (tags, shapes, functions, handle kinds), namespaces,
// and the four-phase preparation pipeline that turns an *ast.Module into
// a fully resolved Module ready for evaluation.
//
// Grounded on cuelang.org/go/internal/core/runtime's Runtime (the
// container of built packages) and cuelang.org/go/internal/core/compile
// (the AST-walking, reference-resolving compiler): like compile.Config's
// separation of "build the scope table" from "resolve references against
// it", prepare here is split into the four phases spec.md §4.5 names.
package module

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/errors"
	"comp-lang.dev/comp/value"
)

// BodyEvaluator evaluates an AST expression to a constant Value during
// Phase 2 preparation (tag values, shape field defaults, shape union
// membership, handle drop blocks are all "evaluated in a minimal frame
// where only the module under preparation is visible via the mod_*
// scopes", spec.md §4.5 Phase 2).
//
// module depends on this as a function value rather than importing
// comp/eval directly: comp/eval needs to look up functions and
// namespaces on a *Module to drive calls, and module needs to evaluate
// bodies during prepare, so a direct two-way import would cycle. The
// caller (normally comp/eval.Engine.EvalConst) is wired in at
// composition time, the way cuelang.org/go/internal/core/runtime takes
// an injected Interpreter instead of importing the evaluator.
type BodyEvaluator func(m *Module, expr ast.Expr) (value.Value, error)

// FunctionDefinition is one overload of a function path (spec.md §3.6:
// "functions: full_path → [FunctionDefinition...] (list for overloads)").
type FunctionDefinition struct {
	Path   []string
	Decl   *ast.FuncDef
	Module *Module
}

var moduleSeq atomic.Uint64

var (
	registryMu sync.RWMutex
	registry   = map[string]*Module{}
)

// ByID looks up a previously constructed Module by its generated id, the
// mechanism comp/eval uses to turn a tag's or handle kind's ModuleID
// back into a Module for dynamic namespace dispatch (spec.md §4.6:
// "dynamic via |fn/(expr) where expr evaluates to a tag/handle whose
// owning module provides the function").
func ByID(id string) (*Module, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[id]
	return m, ok
}

// Module owns the four definition registries plus its namespace table
// (spec.md §3.6). Definition-order is preserved via the *Order slices
// alongside each map, mirroring the spec's "dictionaries (definition-order
// preserved)".
type Module struct {
	ID        string
	Name      string
	IsBuiltin bool

	Tags      map[string]*value.TagDefinition
	TagOrder  []string
	Shapes    map[string]*value.ShapeDefinition
	ShapeOrder []string
	Functions map[string][]*FunctionDefinition
	FuncOrder []string
	Handles   map[string]*value.HandleKind
	HandleOrder []string

	Namespaces     map[string]*Module
	NamespaceOrder []string

	ast      *ast.Module
	resolved resolutionTable
	prepared bool
}

// New creates an empty, unprepared module. name is a human-readable
// prefix folded into the generated module id; it may be empty.
func New(name string) *Module {
	id := uuid.NewString()
	if name != "" {
		id = fmt.Sprintf("%s-%s", name, id)
	}
	_ = moduleSeq.Add(1) // keep a monotonic counter alive for diagnostics/debug dumps
	m := &Module{
		ID:        id,
		Name:      name,
		Tags:      map[string]*value.TagDefinition{},
		Shapes:    map[string]*value.ShapeDefinition{},
		Functions: map[string][]*FunctionDefinition{},
		Handles:   map[string]*value.HandleKind{},
		Namespaces: map[string]*Module{},
	}
	registryMu.Lock()
	registry[id] = m
	registryMu.Unlock()
	return m
}

// RegisterNativeTag installs td (an already-constructed TagDefinition,
// typically one of value's well-known singletons) at its own Path, for
// modules built directly in Go rather than prepared from an *ast.Module
// — comp/builtin is the only caller.
func (m *Module) RegisterNativeTag(td *value.TagDefinition) {
	td.ModuleID = m.ID
	key := fullPath(td.Path)
	if _, ok := m.Tags[key]; !ok {
		m.TagOrder = append(m.TagOrder, key)
	}
	m.Tags[key] = td
}

// RegisterNativeShape installs sd the same way RegisterNativeTag installs
// a tag.
func (m *Module) RegisterNativeShape(sd *value.ShapeDefinition) {
	sd.ModuleID = m.ID
	key := fullPath(sd.Path)
	if _, ok := m.Shapes[key]; !ok {
		m.ShapeOrder = append(m.ShapeOrder, key)
	}
	m.Shapes[key] = sd
}

// RegisterNativeFunction adds fd as an overload at its path, for Go-implemented functions (comp/builtin's |print, |double, and the
// rest of the native function set).
func (m *Module) RegisterNativeFunction(fd *FunctionDefinition) {
	key := fullPath(fd.Path)
	if _, ok := m.Functions[key]; !ok {
		m.FuncOrder = append(m.FuncOrder, key)
	}
	m.Functions[key] = append(m.Functions[key], fd)
}

// FinalizeNative builds the resolution table and marks m prepared,
// skipping the AST-driven phases 1/2/4 entirely — for modules whose
// definitions were installed directly via the RegisterNative* methods
// rather than parsed from an *ast.Module.
func (m *Module) FinalizeNative() {
	m.phase3BuildResolutionNamespace()
	m.prepared = true
}

// AddNamespace imports other under name, available during resolution
// (spec.md §3.6).
func (m *Module) AddNamespace(name string, other *Module) {
	if _, ok := m.Namespaces[name]; !ok {
		m.NamespaceOrder = append(m.NamespaceOrder, name)
	}
	m.Namespaces[name] = other
}

// IsPrepared reports whether prepare has already run.
func (m *Module) IsPrepared() bool { return m.prepared }

func fullPath(p []string) string {
	out := ""
	for i, s := range p {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

// Prepare runs the four phases of spec.md §4.5 over astMod. It is a
// no-op if the module is already prepared (spec.md §4.5: "Attempting to
// re-prepare is a no-op").
func (m *Module) Prepare(astMod *ast.Module, eval BodyEvaluator) errors.List {
	if m.prepared {
		return nil
	}
	m.ast = astMod

	if !m.IsBuiltin {
		if Builtin() != m {
			m.AddNamespace("builtin", Builtin())
		}
	}

	var errs errors.List
	errs = m.phase1CreateDefinitions(astMod, errs)
	if len(errs) > 0 {
		return errs
	}
	errs = m.phase2EvaluateBodies(eval, errs)
	if len(errs) > 0 {
		return errs
	}
	m.phase3BuildResolutionNamespace()
	errs = m.phase4PreResolveReferences(astMod, errs)
	if len(errs) > 0 {
		return errs
	}

	m.prepared = true
	return nil
}

// phase1CreateDefinitions registers tag/shape/function/handle
// placeholders with their path and empty bodies (spec.md §4.5 Phase 1).
// Repeated paths add an overload (functions) or merge (tags/shapes),
// never replace (spec.md §3.6 invariant).
func (m *Module) phase1CreateDefinitions(astMod *ast.Module, errs errors.List) errors.List {
	for _, decl := range astMod.Statements {
		switch d := decl.(type) {
		case *ast.TagDef:
			m.createTag([]string{d.PathSegment}, d)
			for _, c := range d.Children {
				m.createTagChild(append([]string{d.PathSegment}), c)
			}
		case *ast.ShapeDef:
			m.createShapePlaceholder(d.PathSegment)
		case *ast.FuncDef:
			path := fullPath(d.PathSegment)
			fd := &FunctionDefinition{Path: d.PathSegment, Decl: d, Module: m}
			if _, ok := m.Functions[path]; !ok {
				m.FuncOrder = append(m.FuncOrder, path)
			}
			m.Functions[path] = append(m.Functions[path], fd)
		case *ast.HandleDef:
			m.createHandlePlaceholder(d.PathSegment, d)
		case *ast.ImportDef:
			// Namespace wiring is done by the host composing modules
			// (AddNamespace), not by prepare; a bare ImportDef here just records
			// intent for diagnostics since the core does not resolve
			// "file"/"package" source kinds itself (spec.md §1 Non-goals).
		}
	}
	return errs
}

func (m *Module) createTag(path []string, d *ast.TagDef) *value.TagDefinition {
	key := fullPath(path)
	if existing, ok := m.Tags[key]; ok {
		return existing
	}
	td := &value.TagDefinition{Path: append([]string(nil), path...), ModuleID: m.ID}
	m.Tags[key] = td
	m.TagOrder = append(m.TagOrder, key)
	return td
}

func (m *Module) createTagChild(parentPath []string, c *ast.TagChild) *value.TagDefinition {
	path := append(append([]string(nil), parentPath...), c.PathSegment)
	key := fullPath(path)
	if existing, ok := m.Tags[key]; ok {
		return existing
	}
	td := &value.TagDefinition{Path: path, ModuleID: m.ID}
	m.Tags[key] = td
	m.TagOrder = append(m.TagOrder, key)
	for _, gc := range c.Children {
		m.createTagChild(path, gc)
	}
	return td
}

func (m *Module) createShapePlaceholder(path []string) *value.ShapeDefinition {
	key := fullPath(path)
	if existing, ok := m.Shapes[key]; ok {
		return existing
	}
	sd := &value.ShapeDefinition{Path: append([]string(nil), path...), ModuleID: m.ID}
	m.Shapes[key] = sd
	m.ShapeOrder = append(m.ShapeOrder, key)
	return sd
}

func (m *Module) createHandlePlaceholder(path []string, d *ast.HandleDef) *value.HandleKind {
	key := fullPath(path)
	if existing, ok := m.Handles[key]; ok {
		return existing
	}
	hk := &value.HandleKind{Path: append([]string(nil), path...), ModuleID: m.ID, DropBlock: d.DropBlock}
	m.Handles[key] = hk
	m.HandleOrder = append(m.HandleOrder, key)
	return hk
}

// phase2EvaluateBodies evaluates tag values and shape field defaults,
// and marks union shapes (spec.md §4.5 Phase 2). Union members are
// collected in Phase 4. Drop blocks are stored as AST for lazy per-drop
// evaluation (comp/handle) rather than evaluated here, since a drop
// block runs once per !drop, not once per prepare; a handle kind's
// ExtendsParent link is also wired in Phase 4, not here.
func (m *Module) phase2EvaluateBodies(eval BodyEvaluator, errs errors.List) errors.List {
	for _, decl := range m.ast.Statements {
		switch d := decl.(type) {
		case *ast.TagDef:
			errs = m.evalTagValue(d.PathSegment, d.ValueExpr, eval, errs)
		case *ast.ShapeDef:
			errs = m.evalShapeBody(d, eval, errs)
		case *ast.HandleDef:
			if d.Extends != nil && len(d.Extends.PathLeafFirst) > 0 {
				// ExtendsParent is wired during Phase 4 pre-resolution
				// alongside other HandleRef lookups; nothing to do here.
				_ = d
			}
		}
	}
	return errs
}

func (m *Module) evalTagValue(pathSeg string, expr ast.Expr, eval BodyEvaluator, errs errors.List) errors.List {
	if expr == nil {
		return errs
	}
	key := pathSeg
	td, ok := m.Tags[key]
	if !ok {
		return errs
	}
	v, err := eval(m, expr)
	if err != nil {
		return errors.Append(errs, errors.Newf(expr.Pos(), []string{key}, "tag value evaluation failed: %v", err))
	}
	td.TagValue = &v
	return errs
}

func (m *Module) evalShapeBody(d *ast.ShapeDef, eval BodyEvaluator, errs errors.List) errors.List {
	key := fullPath(d.PathSegment)
	sd, ok := m.Shapes[key]
	if !ok {
		return errs
	}
	if d.Union != nil {
		sd.IsUnion = true
		// Union members are resolved to *value.ShapeDefinition in Phase
		// 4 alongside other ShapeRefs; only the flag is set here.
		return errs
	}
	for _, fd := range d.Fields {
		field := value.ShapeField{
			Name:     fd.Name,
			IsArray:  fd.IsArray,
			ArrayMin: fd.ArrayMin,
			ArrayMax: fd.ArrayMax,
		}
		if fd.Default != nil {
			dv, err := eval(m, fd.Default)
			if err != nil {
				errs = errors.Append(errs, errors.Newf(fd.Pos(), []string{key}, "shape default evaluation failed: %v", err))
			} else {
				field.Default = &dv
			}
		}
		// Always append, even when the default failed to evaluate: Phase
		// 4 (resolve_walker.go) matches decl.Fields to sd.Fields by
		// index to wire each field's Type once its Shape/Tag/Handle
		// sub-reference resolves, and that alignment breaks if a field
		// is silently dropped here.
		sd.Fields = append(sd.Fields, field)
	}
	return errs
}

// phase3BuildResolutionNamespace populates the resolution table: every
// suffix of every definition's path, for every kind, from the local
// module and every namespace (spec.md §4.5 Phase 3). Each namespace's
// definitions are indexed twice: once qualified (so `#x/ns` always
// resolves) and once unqualified, shadowed by the local module's own
// definitions, so a bare `#x` can fall through to a namespace — the
// "builtin" namespace every non-builtin module gets is reached this way,
// with no special-casing (spec.md §4.3's "visible during resolution").
func (m *Module) phase3BuildResolutionNamespace() {
	m.resolved = newResolutionTable()
	m.resolved.indexModule(m, "")
	shadow := m.resolved.localKeySet()
	for _, ns := range m.NamespaceOrder {
		nsMod := m.Namespaces[ns]
		m.resolved.indexModule(nsMod, ns)
		m.resolved.indexModuleFiltered(nsMod, "", shadow)
	}
}

// phase4PreResolveReferences walks the AST replacing TagValueRef/
// ShapeRef/FuncRef/HandleRef unresolved forms with direct pointers
// (spec.md §4.5 Phase 4). Unresolved references are reported as
// build-time errors (spec.md §7).
func (m *Module) phase4PreResolveReferences(astMod *ast.Module, errs errors.List) errors.List {
	w := &resolveWalker{m: m, errs: errs}
	for _, decl := range astMod.Statements {
		w.walkDecl(decl)
	}
	return w.errs
}

// LookupTag resolves a leaf-first partial path (optionally namespaced)
// against the resolution table built in Phase 3.
func (m *Module) LookupTag(partial []string, namespace string) (*value.TagDefinition, error) {
	e, err := m.resolved.lookup(kindTag, partial, namespace)
	if err != nil {
		return nil, err
	}
	return e.(*value.TagDefinition), nil
}

// LookupShape resolves a shape reference the same way.
func (m *Module) LookupShape(partial []string, namespace string) (*value.ShapeDefinition, error) {
	e, err := m.resolved.lookup(kindShape, partial, namespace)
	if err != nil {
		return nil, err
	}
	return e.(*value.ShapeDefinition), nil
}

// LookupHandleKind resolves a handle-kind reference.
func (m *Module) LookupHandleKind(partial []string, namespace string) (*value.HandleKind, error) {
	e, err := m.resolved.lookup(kindHandle, partial, namespace)
	if err != nil {
		return nil, err
	}
	return e.(*value.HandleKind), nil
}

// LookupFunction resolves a function reference to its full overload set.
func (m *Module) LookupFunction(partial []string, namespace string) ([]*FunctionDefinition, error) {
	e, err := m.resolved.lookup(kindFunc, partial, namespace)
	if err != nil {
		return nil, err
	}
	return e.([]*FunctionDefinition), nil
}
