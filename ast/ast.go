// Package ast defines the AST node vocabulary the core consumes from an
// external parser (spec.md §6). The core never constructs source text
// into these nodes itself — a surface-syntax parser is explicitly out of
// scope (spec.md §1) — but every other comp/* package is written against
// this contract, the way cuelang.org/go/cue/ast is the node vocabulary
// cuelang.org/go/internal/core/compile consumes without itself knowing
// how to scan source text.
package ast

import (
	"comp-lang.dev/comp/token"
	"comp-lang.dev/comp/value"
)

// Node is the common interface every AST node satisfies: a source
// position for error reporting (spec.md §6, "every AST node must carry
// optional source-position metadata").
type Node interface {
	Pos() token.Position
}

// Expr is any AST node that produces a Value when evaluated.
type Expr interface {
	Node
	exprNode()
}

// Decl is any top-level module statement (spec.md §4.5 phase 1).
type Decl interface {
	Node
	declNode()
}

type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }

// ---- Expressions -----------------------------------------------------

// Number is a decimal literal (spec.md §3.1: integer, hex/octal/binary,
// and decimal literals all produce Numbers — the parser is responsible
// for normalizing non-decimal bases to the Text form apd.Decimal parses).
type Number struct {
	base
	Literal string
}

func (*Number) exprNode() {}

// String is a string literal.
type String struct {
	base
	Literal string
}

func (*String) exprNode() {}

// Identifier is a scope-rooted field path: $in.a.b, ^arg, @kind, etc.
// The first component selects the scope (see comp/eval's scope-lookup
// rules); Fields holds the remaining path components.
type Identifier struct {
	base
	Scope  string // "in", "arg", "ctx", "mod", "var", or "" for fallthrough
	Fields []FieldAccessor
}

func (*Identifier) exprNode() {}

// FieldAccessor is one step of a field-access chain (spec.md §4.2).
type FieldAccessor interface {
	Node
	fieldAccessorNode()
}

// TokenField accesses a named field by identifier: `.name`.
type TokenField struct {
	base
	Name string
}

func (*TokenField) fieldAccessorNode() {}

// StringField accesses a named field by a string literal key: `."a b"`.
type StringField struct {
	base
	Literal string
}

func (*StringField) fieldAccessorNode() {}

// IndexField accesses the n'th entry in insertion order: `.#n`. Either N
// is set (literal index) or Expr is (computed index, which must
// evaluate to a non-negative Number at runtime).
type IndexField struct {
	base
	N    *int
	Expr Expr
}

func (*IndexField) fieldAccessorNode() {}

// ComputeField accesses a field whose key is itself an expression:
// `.(expr)`.
type ComputeField struct {
	base
	Expr Expr
}

func (*ComputeField) fieldAccessorNode() {}

// ScopeField is a bare scope-prefix fallback access, e.g. `@` for
// local/unnamed fallback (spec.md §4.6).
type ScopeField struct {
	base
	ScopeChar rune
}

func (*ScopeField) fieldAccessorNode() {}

// ArithmeticOp is a binary arithmetic expression: + - * / etc.
type ArithmeticOp struct {
	base
	Op          string
	Left, Right Expr
}

func (*ArithmeticOp) exprNode() {}

// ComparisonOp is a binary comparison: == != < <= > >=.
type ComparisonOp struct {
	base
	Op          string
	Left, Right Expr
}

func (*ComparisonOp) exprNode() {}

// BooleanOp is a binary boolean combinator: and / or.
type BooleanOp struct {
	base
	Op          string
	Left, Right Expr
}

func (*BooleanOp) exprNode() {}

// UnaryOp is a unary prefix operator: - not.
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// FallbackOp is the `??` expression-fallback operator (spec.md §4.6).
type FallbackOp struct {
	base
	Left, Right Expr
}

func (*FallbackOp) exprNode() {}

// MorphMode selects which of the three morph strictness modes (spec.md
// §4.4) a MorphOp/MaskOp/overload applies.
type MorphMode int

const (
	ModeNormal MorphMode = iota
	ModeStrong
	ModeWeak
)

// MorphOp reshapes expr's value against shape (`expr ~shape`,
// `expr ~~shape` for strong, `expr ~?shape` for weak — concrete
// spelling is the parser's business, Mode carries the already-decided
// strictness).
type MorphOp struct {
	base
	Expr  Expr
	Shape ShapeRef
	Mode  MorphMode
}

func (*MorphOp) exprNode() {}

// MaskOp applies shape to expr's value and is evaluated exactly like
// MorphOp: on a match it yields the morphed value, on a mismatch it
// fails. The AST distinguishes the two because a mask is typically used
// as a type guard rather than a reshaping step, but both run the same
// morph algorithm (comp/shape.Match).
type MaskOp struct {
	base
	Expr  Expr
	Shape ShapeRef
	Mode  MorphMode
}

func (*MaskOp) exprNode() {}

// Structure is a structure literal: a sequence of field operations
// evaluated in order (spec.md §4.6).
type Structure struct {
	base
	Ops []StructureOp
}

func (*Structure) exprNode() {}

// StructureOp is one element of a Structure literal.
type StructureOp interface {
	Node
	structureOpNode()
}

// FieldOp sets one field: `key: value` (Key == nil means positional) or
// a deep path `one.two.three: value` (len(Key) > 1).
type FieldOp struct {
	base
	Key   []FieldAccessor // nil for positional; len>=1 for named/deep
	Value Expr
}

func (*FieldOp) structureOpNode() {}

// SpreadOp inlines another structure's fields: `..expr`.
type SpreadOp struct {
	base
	Expr Expr
}

func (*SpreadOp) structureOpNode() {}

// Pipeline is `[seed | op1 | op2 | ...]`; Seed is nil for a seedless
// pipeline that reads $in (spec.md §4.6).
type Pipeline struct {
	base
	Seed       Expr
	Operations []PipelineOp
}

func (*Pipeline) exprNode() {}

// PipelineOp is one `| ...` stage of a Pipeline.
type PipelineOp interface {
	Node
	pipelineOpNode()
}

// PipeFunc invokes a function by name, optionally namespaced, optionally
// with a dynamic namespace expression (`|fn/(expr)`).
type PipeFunc struct {
	base
	Name        string
	Args        Expr // argument structure literal, or nil
	Namespace   string
	NamespaceExpr Expr // dynamic namespace selector, or nil
}

func (*PipeFunc) pipelineOpNode() {}

// PipeStruct merges the pipeline value with a structure literal.
type PipeStruct struct {
	base
	Struct *Structure
}

func (*PipeStruct) pipelineOpNode() {}

// PipeBlock invokes a captured block.
type PipeBlock struct {
	base
	Ref Expr
}

func (*PipeBlock) pipelineOpNode() {}

// PipeFallback is `|? expr`: replaces a failing pipeline value with
// expr's value (spec.md §4.6).
type PipeFallback struct {
	base
	Expr Expr
}

func (*PipeFallback) pipelineOpNode() {}

// Block is a deferred expression plus (at evaluation time) captured
// scopes; invoked via PipeBlock.
type Block struct {
	base
	Body Expr
}

func (*Block) exprNode() {}

// TagValueRef is a runtime reference to a tag, by partial leaf-first
// path and optional namespace (spec.md §3.3). Resolved is filled in by
// comp/module's prepare phase 4.
type TagValueRef struct {
	base
	PathLeafFirst []string
	Namespace     string
	Resolved      *value.TagDefinition
}

func (*TagValueRef) exprNode() {}

// ShapeRefKind distinguishes the three shape-reference forms of
// spec.md §3.4.
type ShapeRefKind int

const (
	ShapeRefNamed ShapeRefKind = iota
	ShapeRefInline
	ShapeRefUnion
)

// ShapeRef is a shape reference in any of its three forms. Named
// references carry PathLeafFirst/Namespace and are resolved to Resolved
// during prepare; inline and union forms are self-contained (Fields /
// Members) and need no resolution step themselves, though their field
// types may reference named shapes that do.
type ShapeRef struct {
	base
	RefKind       ShapeRefKind
	PathLeafFirst []string
	Namespace     string
	Resolved      *value.ShapeDefinition // filled in for ShapeRefNamed after prepare

	Fields  []ShapeFieldDef // for ShapeRefInline
	Members []ShapeRef      // for ShapeRefUnion
}

func (*ShapeRef) exprNode() {}

// ShapeFieldDef is one field of a shape literal (named or positional)
// (spec.md §3.4). IsSpread is carried on the AST only: comp/module's
// prepare does not expand spreads and builds a field marked IsSpread
// like any other field.
type ShapeFieldDef struct {
	base
	Name     string // "" for positional
	Shape    ShapeRef
	HasShape bool
	// Tag and Handle are the two other non-primitive field type
	// constraints spec.md §3.4 lists alongside "another ShapeDefinition":
	// "a tag" and "a handle kind". At most one of HasShape, Tag, Handle is
	// set; none set means the field type is "any" (spec.md §3.4's None).
	Tag      *TagValueRef
	Handle   *HandleRef
	Default  Expr
	Optional bool
	IsSpread bool
	IsArray  bool
	ArrayMin *int
	ArrayMax *int
}

// FuncRef is a runtime reference to a function by partial path,
// optional namespace.
type FuncRef struct {
	base
	PathLeafFirst []string
	Namespace     string
}

func (*FuncRef) exprNode() {}

// HandleRef is `@kind`, a reference to a handle kind used by !grab.
type HandleRef struct {
	base
	PathLeafFirst []string
	Namespace     string
	Resolved      *value.HandleKind
}

func (*HandleRef) exprNode() {}

// Placeholder is a hole left by the parser for an as-yet-unsupported
// construct; prepare accepts it, and evaluating one yields a
// #fail.runtime failure.
type Placeholder struct {
	base
}

func (*Placeholder) exprNode() {}

// GrabExpr is `!grab @kind`.
type GrabExpr struct {
	base
	Kind HandleRef
}

func (*GrabExpr) exprNode() {}

// DropStmt is `!drop expr`, a statement-level pipeline operation.
type DropStmt struct {
	base
	Expr Expr
}

func (*DropStmt) pipelineOpNode() {}

// ---- Declarations ------------------------------------------------------

// Module is the root node: an ordered list of top-level statements
// (spec.md §4.5 phase 1).
type Module struct {
	base
	Statements []Decl
}

// TagDef declares a tag and its children (spec.md §3.3).
type TagDef struct {
	base
	PathSegment string
	ValueExpr   Expr // optional
	Children    []*TagChild
	Generator   Expr // optional; prepare resolves references inside it but never evaluates it
}

func (*TagDef) declNode() {}

// TagChild is a nested tag declared under a parent TagDef.
type TagChild struct {
	base
	PathSegment string
	ValueExpr   Expr
	Children    []*TagChild
}

// ShapeDef declares a named shape (spec.md §3.4).
type ShapeDef struct {
	base
	PathSegment []string
	Fields      []ShapeFieldDef
	Union       *ShapeUnion
}

func (*ShapeDef) declNode() {}

// ShapeUnion is a union-shape body (spec.md §3.4, §4.4).
type ShapeUnion struct {
	base
	Members []ShapeRef
}

// FuncDef declares a function (or one overload) (spec.md §3.6). Body is
// an Expr rather than *Structure so that comp/builtin can supply a
// NativeExpr in place of surface-syntax-parsed structure literals.
type FuncDef struct {
	base
	PathSegment []string
	Body        Expr
	InputShape  *ShapeRef
	ArgShape    *ShapeRef
	IsPure      bool
	Doc         string
	Mode        MorphMode
}

func (*FuncDef) declNode() {}

// NativeExpr wraps a host-language function as an evaluable expression.
// comp/builtin uses it to implement |print, |double, and the rest of the
// builtin function set without needing surface syntax to parse a body
// from (spec.md §4.8: "the builtin module... is constructed directly
// rather than parsed").
type NativeExpr struct {
	base
	Name string
	Fn   func(in, arg value.Value) value.Value
}

func (*NativeExpr) exprNode() {}

// HandleDef declares a handle kind and its optional drop block.
type HandleDef struct {
	base
	PathSegment []string
	Extends     *HandleRef
	DropBlock   Expr
}

func (*HandleDef) declNode() {}

// ImportDef brings another module in under a namespace name.
type ImportDef struct {
	base
	Namespace  string
	SourceKind string // e.g. "file", "package" — external to the core
	Path       string
}

func (*ImportDef) declNode() {}

// ExprStmt wraps a bare expression used as a module-level statement
// (e.g. a doc string). Prepare resolves the references inside it in
// Phase 4 but does not evaluate it.
type ExprStmt struct {
	base
	Expr Expr
}

func (*ExprStmt) declNode() {}
