package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string, opts ...Option) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), src, opts...)
	require.NoError(t, err, src)
	require.NotNil(t, program)
	return program
}

func parseErrors(t *testing.T, src string, opts ...Option) []*Error {
	t.Helper()
	_, err := Parse(context.Background(), src, opts...)
	require.Error(t, err, src)
	errs, ok := err.(*Errors)
	require.True(t, ok, "expected *Errors, got %T", err)
	return errs.Errors()
}

var esm = WithConvention(ConventionDeclarativeExport)
var cjs = WithConvention(ConventionPropertyExport)

func TestValidPrograms(t *testing.T) {
	tests := []string{
		"x = 1",
		"a.b.c = d[e]",
		"const {a, b: [c, d = 2], ...rest} = obj;",
		"let [x, , y = 3, ...zs] = arr",
		"function f(a, b = 1, ...c) { return a + b }",
		"async function g() { await h(); }",
		"function* gen() { yield 1; yield* other(); }",
		"const f = async (x) => x * 2",
		"const f = async x => x",
		"const f = (a, {b}, [c]) => { return a }",
		"const f = () => ({})",
		"class A extends B { constructor() { super(); this.x = 1 } static create() { return new A() } get v() { return 1 } #p = 2; static { init() } }",
		"for (let i = 0; i < n; i++) { sum += i }",
		"for (const k in obj) {}",
		"for (const v of list) console.log(v)",
		"async function f() { for await (const x of s) {} }",
		"while (x) x--",
		"do { x++ } while (x < 10)",
		"if (a) b(); else if (c) d(); else e()",
		"switch (x) { case 1: a(); break; case 2: default: b() }",
		"try { a() } catch (e) { b() } finally { c() }",
		"try { a() } catch { b() }",
		"outer: for (;;) { for (;;) { continue outer; } }",
		"label: { break label; }",
		"const re = /ab+c/gi.test(s)",
		"const t = `hello ${name}, ${a + b}!`",
		"const o = { a, b: 1, [k]: 2, m() {}, get g() { return 1 }, ...rest, 'q': 3, 4: 5 }",
		"x ??= y; a ||= b; c &&= d",
		"const v = a?.b?.[c]?.(d)",
		"new Foo(1, 2).bar",
		"new Foo",
		"var x = typeof y === 'undefined' ? void 0 : delete z.w",
		"a = b ? c : d, e",
		"import('mod').then(m => m)",
		"debugger;",
		"[a, b] = [b, a]",
		"({ a, b = 1 } = obj)",
		"module.exports = { handler }",
		"exports.run = function run() {}",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			parse(t, src)
		})
	}
}

func TestModuleDeclarations(t *testing.T) {
	src := `import a, { b as c, d } from 'x';
import * as ns from 'y';
import 'side-effect';
export const e = 1;
export default function () {}
export { a as f };
export * from 'z';
export * as all from 'w';`
	program := parse(t, src, esm)
	assert.Equal(t, ast.Module, program.SourceType)

	imp, ok := program.Stmts[0].(*ast.Import)
	require.True(t, ok)
	require.Len(t, imp.Specs, 3)
	assert.Equal(t, ast.ImportDefault, imp.Specs[0].Kind)
	assert.Equal(t, "b", imp.Specs[1].Imported.Name)
	assert.Equal(t, "c", imp.Specs[1].Local.Name)
	assert.Same(t, imp.Specs[2].Imported, imp.Specs[2].Local)
	assert.Equal(t, "x", imp.Source.Value)

	ns, ok := program.Stmts[1].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, ast.ImportNamespace, ns.Specs[0].Kind)

	named, ok := program.Stmts[3].(*ast.ExportNamed)
	require.True(t, ok)
	names := named.ExportedNames()
	require.Len(t, names, 1)
	assert.Equal(t, "e", names[0].Name)

	def, ok := program.Stmts[4].(*ast.ExportDefault)
	require.True(t, ok)
	_, ok = def.Value.(*ast.FuncDecl)
	assert.True(t, ok)
}

func TestStatementShapes(t *testing.T) {
	program := parse(t, "let x = 5;\nconst y = 10;")
	require.Len(t, program.Stmts, 2)
	first := program.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, "let", first.Kind)
	assert.Equal(t, 1, first.Pos().LineNumber())
	assert.Equal(t, 1, first.Pos().ColumnNumber())
	second := program.Stmts[1].(*ast.VarDecl)
	assert.Equal(t, "const", second.Kind)
	assert.Equal(t, 2, second.Pos().LineNumber())

	program = parse(t, "const f = ({a, b = 2}, [c]) => a")
	decl := program.Stmts[0].(*ast.VarDecl)
	fn, ok := decl.Decls[0].Init.(*ast.Func)
	require.True(t, ok)
	assert.True(t, fn.Arrow)
	require.Len(t, fn.Params, 2)
	_, ok = fn.Params[0].(*ast.ObjectPattern)
	assert.True(t, ok)
	_, ok = fn.Params[1].(*ast.ArrayPattern)
	assert.True(t, ok)
	assert.NotNil(t, fn.ExprBody)
	assert.Nil(t, fn.Body)
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	program := parse(t, "x\n++y")
	require.Len(t, program.Stmts, 2)
	update, ok := program.Stmts[1].(*ast.ExprStmt).X.(*ast.Update)
	require.True(t, ok)
	assert.True(t, update.Prefix)

	program = parse(t, "function f() { return\n1 }")
	body := program.Stmts[0].(*ast.FuncDecl).Func.Body
	require.Len(t, body.Stmts, 2)
	assert.Nil(t, body.Stmts[0].(*ast.Return).Value)

	errs := parseErrors(t, "let x = 1 let y = 2")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.E1001, errs[0].Code())
	assert.Contains(t, errs[0].Message(), "expected ;")
}

func TestUnexpectedEndOfInput(t *testing.T) {
	errs := parseErrors(t, "let x = ")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.E1007, errs[0].Code())
	assert.Equal(t, "unexpected end of input", errs[0].Message())
	assert.Equal(t, "parse error: unexpected end of input", errs[0].Error())

	errs = parseErrors(t, "foo(1, 2")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.E1007, errs[0].Code())
}

func TestErrorRecovery(t *testing.T) {
	src := "let = 1;\nlet y = 2;\nconst = 3;\nfoo("
	program, err := Parse(context.Background(), src)
	require.Error(t, err)
	require.NotNil(t, program)

	errs := err.(*Errors).Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, 1, errs[0].StartPosition().LineNumber())
	assert.Equal(t, 3, errs[1].StartPosition().LineNumber())
	assert.Equal(t, 4, errs[2].StartPosition().LineNumber())
	assert.Equal(t, "unexpected = while parsing let declaration (expected identifier)", errs[0].Message())

	require.Len(t, program.Stmts, 4)
	_, bad := program.Stmts[0].(*ast.BadStmt)
	assert.True(t, bad)
	_, ok := program.Stmts[1].(*ast.VarDecl)
	assert.True(t, ok)
	_, bad = program.Stmts[2].(*ast.BadStmt)
	assert.True(t, bad)
}

func TestRecoveryInsideBlocks(t *testing.T) {
	src := "function f() {\n  let = 1\n  return 2\n}\nfunction g() {\n  const = 3\n}"
	program, err := Parse(context.Background(), src)
	require.Error(t, err)
	errs := err.(*Errors).Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].StartPosition().LineNumber())
	assert.Equal(t, 6, errs[1].StartPosition().LineNumber())

	// Both functions survive with the broken statement replaced.
	require.Len(t, program.Stmts, 2)
	body := program.Stmts[0].(*ast.FuncDecl).Func.Body
	require.Len(t, body.Stmts, 2)
	_, bad := body.Stmts[0].(*ast.BadStmt)
	assert.True(t, bad)
	_, ok := body.Stmts[1].(*ast.Return)
	assert.True(t, ok)
}

func TestMaxErrors(t *testing.T) {
	src := strings.Repeat("let = 1;\n", 15)

	errs := parseErrors(t, src)
	assert.Len(t, errs, DefaultMaxErrors)

	errs = parseErrors(t, src, WithMaxErrors(3))
	assert.Len(t, errs, 3)

	errs = parseErrors(t, src, WithMaxErrors(0))
	assert.Len(t, errs, DefaultMaxErrors)
}

func TestMaxDepth(t *testing.T) {
	src := strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600)
	errs := parseErrors(t, src)
	assert.Equal(t, errors.E1009, errs[0].Code())
	assert.Equal(t, "maximum nesting depth exceeded", errs[0].Message())

	src = strings.Repeat("{", 600) + strings.Repeat("}", 600)
	errs = parseErrors(t, src)
	assert.Equal(t, errors.E1009, errs[0].Code())

	src = strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	_, err := Parse(context.Background(), src, WithMaxDepth(10))
	require.Error(t, err)
	parse(t, src)
}

func TestLexerErrorReportedOnce(t *testing.T) {
	errs := parseErrors(t, "let x = 1;\nlet y = @;", WithFilename("app.js"))
	require.Len(t, errs, 1)
	e := errs[0]
	assert.Equal(t, 2, e.StartPosition().LineNumber())
	assert.Equal(t, 9, e.StartPosition().ColumnNumber())
	assert.Equal(t, "let y = @;", e.SourceCode())
	assert.Equal(t, "app.js", e.File())
	assert.Equal(t, "unexpected character '@'", e.Message())
	assert.Equal(t, "syntax error", e.Kind())
	assert.Error(t, e.Unwrap())
	assert.Equal(t, "syntax error: unexpected character '@'", e.Error())
}

func TestReservedWords(t *testing.T) {
	errs := parseErrors(t, "let class = 1")
	assert.Equal(t, errors.E1006, errs[0].Code())
	assert.Equal(t, "'class' is a reserved word", errs[0].Message())

	// static is only reserved in strict code.
	parse(t, "var static = 1", cjs)
	errs = parseErrors(t, "let static = 1", esm)
	assert.Equal(t, "'static' is a reserved word in strict mode", errs[0].Message())

	errs = parseErrors(t, "'use strict';\nlet interface = 1")
	assert.Equal(t, "'interface' is a reserved word in strict mode", errs[0].Message())
	assert.Equal(t, 2, errs[0].StartPosition().LineNumber())

	errs = parseErrors(t, "enum Color {}")
	assert.Equal(t, "'enum' is a reserved word", errs[0].Message())

	errs = parseErrors(t, "async function f() { let await = 1 }")
	assert.Equal(t, errors.E1006, errs[0].Code())
}

func TestStrictMode(t *testing.T) {
	parse(t, "with (obj) { x }", cjs)

	errs := parseErrors(t, "'use strict'; with (obj) { x }")
	assert.Equal(t, errors.E1012, errs[0].Code())

	errs = parseErrors(t, "delete x", esm)
	assert.Equal(t, errors.E1012, errs[0].Code())
	assert.Equal(t, "delete of an unqualified identifier in strict mode", errs[0].Message())

	parse(t, "delete x", cjs)

	// A directive after other statements has no effect.
	parse(t, "x = 1; 'use strict'; with (obj) {}")
}

func TestModuleSyntaxInScript(t *testing.T) {
	errs := parseErrors(t, "import x from 'y'", cjs)
	assert.Equal(t, errors.E1011, errs[0].Code())
	assert.Equal(t, "import declarations may only appear in a module", errs[0].Message())

	errs = parseErrors(t, "export const a = 1", cjs)
	assert.Equal(t, errors.E1011, errs[0].Code())

	errs = parseErrors(t, "const m = import.meta", cjs)
	assert.Equal(t, errors.E1011, errs[0].Code())

	errs = parseErrors(t, "function f() { import x from 'y' }", esm)
	assert.Equal(t, errors.E1003, errs[0].Code())
}

func TestDuplicateExports(t *testing.T) {
	errs := parseErrors(t, "export const a = 1;\nexport { a };", esm)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.E1010, errs[0].Code())
	assert.Equal(t, "duplicate export 'a'", errs[0].Message())
	assert.Equal(t, 2, errs[0].StartPosition().LineNumber())

	errs = parseErrors(t, "export default 1;\nexport default 2;", esm)
	assert.Equal(t, "duplicate export 'default'", errs[0].Message())

	parse(t, "const a = 1, b = 2;\nexport { a, b as c };", esm)
}

func TestTopLevelReturn(t *testing.T) {
	parse(t, "if (done) return\nrun()", cjs)
	errs := parseErrors(t, "return 1", esm)
	assert.Equal(t, "return outside of function", errs[0].Message())
}

func TestInvalidTargets(t *testing.T) {
	tests := []string{
		"1 = 2",
		"a?.b = 1",
		"f() = 1",
		"a + b = c",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			errs := parseErrors(t, src)
			assert.Equal(t, errors.E1005, errs[0].Code())
		})
	}
	errs := parseErrors(t, "1++")
	assert.Equal(t, errors.E1005, errs[0].Code())
}

func TestDeclarationErrors(t *testing.T) {
	errs := parseErrors(t, "const x;")
	assert.Equal(t, errors.E1004, errs[0].Code())
	assert.Equal(t, "missing initializer in const declaration", errs[0].Message())

	errs = parseErrors(t, "let {a};")
	assert.Equal(t, "missing initializer in destructuring declaration", errs[0].Message())

	errs = parseErrors(t, "function f(...a, b) {}")
	assert.Equal(t, "rest parameter must be last formal parameter", errs[0].Message())

	errs = parseErrors(t, "for (let a = 1, b of c) {}")
	assert.Equal(t, errors.E1003, errs[0].Code())

	errs = parseErrors(t, "try { a() }")
	assert.Contains(t, errs[0].Message(), "expected catch or finally")

	errs = parseErrors(t, "switch (x) { default: a(); default: b() }")
	assert.Equal(t, "more than one default clause in switch statement", errs[0].Message())

	errs = parseErrors(t, "if (x) let y = 1")
	assert.Equal(t, "lexical declaration cannot appear in a single-statement context", errs[0].Message())
}

func TestJumpStatements(t *testing.T) {
	errs := parseErrors(t, "break")
	assert.Equal(t, "illegal break statement", errs[0].Message())

	errs = parseErrors(t, "function f() { continue }")
	assert.Equal(t, errors.E1003, errs[0].Code())

	// Loops do not extend into nested functions.
	errs = parseErrors(t, "while (x) { function g() { break } }")
	assert.Equal(t, "illegal break statement", errs[0].Message())

	errs = parseErrors(t, "for (;;) { break nowhere }")
	assert.Equal(t, "undefined label 'nowhere'", errs[0].Message())

	parse(t, "switch (x) { case 1: break }")
}

func TestTemplateInterpolationErrors(t *testing.T) {
	errs := parseErrors(t, "const t = `ok`;\nconst u = `${a +}`")
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].StartPosition().LineNumber())
	assert.Equal(t, errors.E1007, errs[0].Code())
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	program, err := Parse(ctx, "let x = 1")
	assert.Nil(t, program)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorsWrapper(t *testing.T) {
	_, err := Parse(context.Background(), "let = 1;\nlet = 2;")
	require.Error(t, err)
	errs := err.(*Errors)
	assert.Len(t, errs.Errors(), 2)
	assert.Contains(t, err.Error(), "(and 1 more errors)")
	assert.Len(t, errs.Unwrap(), 2)

	formatted := errs.Formatted()
	require.Len(t, formatted, 2)
	assert.Equal(t, errors.E1001, formatted[0].Code)
	assert.Equal(t, 1, formatted[0].Line)
	assert.Equal(t, 2, formatted[1].Line)
}
