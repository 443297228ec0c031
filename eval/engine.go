package eval

import (
	"fmt"
	"io"
	"log/slog"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

// Engine is the root of an evaluation run (spec.md §4.6). It is stateless
// beyond its configured logger: "a reimplementation that wants parallel
// runs must treat each engine.run as a self-contained computation"
// (spec.md §5), so nothing here is mutated once constructed.
type Engine struct {
	log *slog.Logger
}

// Option configures an Engine, following the functional-options idiom
// cuecontext.New(...Option) uses throughout cuelang.org/go/cue.
type Option func(*Engine)

// WithLogger attaches a structured logger used for optional diagnostic
// tracing of frame evaluation (no logging happens by default).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New builds an Engine. With no options, diagnostic logging is disabled
// (log/slog's discard handler).
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates expr as a top-level Module body against mod, which must
// already be prepared. The root frame's $in is seed; pass value.Nil()
// for an empty structure.
func (e *Engine) Run(mod *module.Module, expr ast.Expr, seed value.Value) value.Value {
	root := &Frame{
		Node:   expr,
		Engine: e,
		Scopes: Scopes{In: seed, Module: mod},
	}
	return e.eval(root, expr)
}

// EvalConst adapts Run for use as a module.BodyEvaluator: comp/module
// calls this during Phase 2 preparation to evaluate tag values, shape
// defaults, and similar constant bodies "in a minimal frame where only
// the module under preparation is visible via the mod_* scopes" (spec.md
// §4.5 Phase 2).
func (e *Engine) EvalConst(m *module.Module, expr ast.Expr) (value.Value, error) {
	f := &Frame{Node: expr, Engine: e, Scopes: Scopes{Module: m}}
	v := e.eval(f, expr)
	if v.IsFail() {
		return value.Value{}, fmt.Errorf("%s", failMessage(v))
	}
	return v, nil
}

// dropBlockEval adapts Engine.eval for use as a handle.DropBlockEvaluator
// (comp/handle's Drop calls this to run a handle kind's drop block).
func (e *Engine) dropBlockEval(block ast.Expr, handleVal value.Value, mod *module.Module) value.Value {
	f := &Frame{Node: block, Engine: e, Scopes: Scopes{In: handleVal, Module: mod}}
	return e.eval(f, block)
}

func failMessage(v value.Value) string {
	if !v.IsStruct() {
		return v.String()
	}
	if msg, ok := v.Struct().GetNamed(value.NewText("message")); ok && msg.IsText() {
		return msg.Text()
	}
	return v.String()
}

func (e *Engine) logTrace(f *Frame, msg string) {
	if e.log == nil {
		return
	}
	e.log.Debug(msg, "node", fmt.Sprintf("%T", f.Node))
}
