package builtin

import (
	"strings"

	"comp-lang.dev/comp/ast"
	"comp-lang.dev/comp/module"
	"comp-lang.dev/comp/value"
)

// InstallStr builds and returns the "str" standard-library module:
// string-transformation functions grounded on
// src/comp/corelib/str.py (upper/lower/capitalize/title/strip/length/
// repeat). Unlike the builtin module, str is not implicitly
// namespaced into every module — a host module opts in the way
// src/comp/corelib/__init__.py's per-library create_module functions
// are wired in by the interpreter's stdlib loader.
func InstallStr() *module.Module {
	if installedStr != nil {
		return installedStr
	}
	m := module.New("str")
	for _, nf := range []struct {
		name string
		fn   func(in, arg value.Value) value.Value
	}{
		{"upper", strUpper},
		{"lower", strLower},
		{"capitalize", strCapitalize},
		{"title", strTitle},
		{"strip", strStrip},
		{"length", strLength},
		{"repeat", strRepeat},
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
	installedStr = m
	return m
}

var installedStr *module.Module

func textArg(in value.Value) (string, bool) {
	s := in.AsScalar()
	if !s.IsText() {
		return "", false
	}
	return s.Text(), true
}

func strUpper(in, _ value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|upper expects a string")
	}
	return value.NewText(strings.ToUpper(s))
}

func strLower(in, _ value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|lower expects a string")
	}
	return value.NewText(strings.ToLower(s))
}

func strCapitalize(in, _ value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|capitalize expects a string")
	}
	if s == "" {
		return value.NewText(s)
	}
	return value.NewText(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}

func strTitle(in, _ value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|title expects a string")
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return value.NewText(strings.Join(words, " "))
}

func strStrip(in, arg value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|strip expects a string")
	}
	cutset, _ := stripArgChars(arg)
	if cutset == "" {
		return value.NewText(strings.TrimSpace(s))
	}
	return value.NewText(strings.Trim(s, cutset))
}

func stripArgChars(arg value.Value) (string, bool) {
	if !arg.IsStruct() {
		return "", false
	}
	chars, ok := arg.Struct().GetNamed(value.NewText("chars"))
	if !ok || !chars.IsText() {
		return "", false
	}
	return chars.Text(), true
}

func strLength(in, _ value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|length expects a string")
	}
	return value.NewNumberFromInt64(int64(len([]rune(s))))
}

func strRepeat(in, arg value.Value) value.Value {
	s, ok := textArg(in)
	if !ok {
		return fail(value.FailTypeTag, "|repeat expects a string")
	}
	if !arg.IsStruct() {
		return fail(value.FailTypeTag, "|repeat requires ^{count}")
	}
	cv, ok := arg.Struct().GetNamed(value.NewText("count"))
	if !ok || !cv.IsNumber() {
		return fail(value.FailTypeTag, "|repeat requires a numeric count")
	}
	n, err := cv.AsDecimal().Int64()
	if err != nil || n < 0 {
		return fail(value.FailTypeTag, "|repeat count must be a non-negative integer")
	}
	return value.NewText(strings.Repeat(s, int(n)))
}
