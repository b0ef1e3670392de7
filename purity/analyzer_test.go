package purity

import (
	"bytes"
	"context"
	"testing"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/scope"
	"github.com/deepnoodle-ai/puregate/syntax"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	res := syntax.Check(context.Background(), src)
	require.True(t, res.Valid, "%v", res.Diagnostics)
	return res.Program
}

func analyze(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	return Analyze(parse(t, src), src, opts...)
}

func patterns(res *Result) []string {
	out := []string{}
	for _, v := range res.Violations {
		out = append(out, v.Pattern)
	}
	return out
}

func TestPureCode(t *testing.T) {
	tests := []string{
		"const add = (a, b) => a + b;",
		"const fn = () => { const arr = [3, 1, 2]; arr.sort(); return arr; };",
		"const double = (xs) => xs.map((x) => x * 2);",
		"const f = (x) => { x = x + 1; return x; };",
		"const f = () => { let n = 0; n++; n += 2; return n; };",
		"const f = () => { const o = {}; o.a = 1; return o; };",
		"const f = () => { const o = { a: 1 }; delete o.a; return o; };",
		"const merge = (a, b) => Object.assign({}, a, b);",
		"const wrap = (a) => Object.assign([], a);",
		"const ok = (s) => /a+/.test(s);",
		"const o = {}; const p = o.process; function process() { return 1; }",
		"const f = (window) => window.title;",
		"const f = (n) => { let i = 0; while (i < n) { i++; } return i; };",
		"const pair = () => [1, 2].concat([3]);",
		"const xs = [1]; const f = () => xs.filter((x) => x > 0);",
		"module.exports = { add: (a, b) => a + b };\nexports.one = 1;\nmodule.exports.two = 2;",
		"const fs = require('fs');\nconst c = () => fs.constants;",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			res := analyze(t, src)
			assert.True(t, res.Valid, "%v", res.Violations)
			assert.Empty(t, res.Violations)
			assert.NotNil(t, res.Violations)
		})
	}
}

func TestOuterVariableReassignment(t *testing.T) {
	res := analyze(t, "let counter = 0; const inc = () => { counter = counter + 1; };")
	require.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, Mutation, v.Kind)
	assert.Contains(t, v.Pattern, "variable reassignment: counter")
	assert.Equal(t, 1, v.Location.Line)
}

func TestReassignment(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"let n = 0; const inc = () => { n++; };", []string{"variable reassignment: n"}},
		{"let n = 0; const f = () => { n += 1; };", []string{"variable reassignment: n"}},
		{"let top = 0;\ntop = 1;", []string{"variable reassignment: top"}},
		{"const f = (x) => { const g = () => { x = 1; }; return g; };", []string{"parameter reassignment: x"}},
		{"const f = () => { undeclared = 1; };", []string{"variable reassignment: undeclared"}},
		{"let a = 0; let b = 0; const f = () => { [a, b] = [b, a]; };", []string{"variable reassignment: a", "variable reassignment: b"}},
		{"let a = 0; const f = () => { ({ a } = { a: 1 }); };", []string{"variable reassignment: a"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := analyze(t, tt.src)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.want, patterns(res))
			for _, v := range res.Violations {
				assert.Equal(t, Mutation, v.Kind)
			}
		})
	}
}

func TestPropertyMutation(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"const o = {}; const f = () => { o.a = 1; };", []string{"property assignment"}},
		{"const o = {}; const f = (k) => { o[k] = 1; };", []string{"property assignment"}},
		{"const f = () => { module.exports = 1; };", []string{"property assignment"}},
		{"const o = {}; o.a = 1;", []string{"property assignment"}},
		{"const f = (o) => { o.count++; return o; };", []string{"property update"}},
		{"const f = () => { const o = { n: 0 }; o.n++; return o; };", []string{"property update"}},
		{"const o = { a: 1 }; const f = () => { delete o.a; };", []string{"property deletion"}},
		{"const t = {}; const f = (a) => Object.assign(t, a);", []string{"Object.assign"}},
		{"const f = (o) => Object.defineProperty(o, 'x', {});", []string{"Object.defineProperty"}},
		{"const f = () => { const acc = {}; Object.assign(acc, { a: 1 }); return acc; };", []string{"Object.assign"}},
		{"const f = () => { const o = {}; Object.defineProperty(o, 'a', { value: 1 }); return o; };", []string{"Object.defineProperty"}},
		{"const f = () => { const o = {}; Reflect.set(o, 'a', 1); return o; };", []string{"Reflect.set"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := analyze(t, tt.src)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.want, patterns(res))
		})
	}
}

func TestMutatingMethods(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"const f = (arr) => { arr.push(1); return arr; };", []string{"push"}},
		{"const items = []; const add = (x) => { items.push(x); };", []string{"push"}},
		{"const cache = new Map(); const put = (k) => cache.set(k, 1);", []string{"set"}},
		{"const f = (o) => o.list.sort();", []string{"sort"}},
		{"const f = () => { const xs = []; xs.push(1); return xs; };", nil},
		{"const f = () => [3, 1].sort();", nil},
		{"const f = (xs) => xs.slice().reverse();", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := analyze(t, tt.src)
			if tt.want == nil {
				assert.True(t, res.Valid, "%v", res.Violations)
				return
			}
			assert.Equal(t, tt.want, patterns(res))
			assert.Equal(t, Mutation, res.Violations[0].Kind)
		})
	}
}

func TestSideEffects(t *testing.T) {
	res := analyze(t, "console.log('hi');")
	require.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, SideEffect, v.Kind)
	assert.Equal(t, "console.log", v.Pattern)
	assert.Equal(t, 1, v.Location.Line)
	assert.Equal(t, 0, v.Location.Column)
	assert.Contains(t, v.Snippet, "> 1 | console.log('hi');")

	tests := []struct {
		src     string
		kind    Kind
		pattern string
		message string
	}{
		{"const f = () => Math.random();", SideEffect, "Math.random", "deterministic"},
		{"const f = () => Date.now();", SideEffect, "Date.now", "deterministic"},
		{"const f = () => new Date();", SideEffect, "Date", "deterministic"},
		{"const f = (p) => new RegExp(p);", SideEffect, "RegExp", "deterministic"},
		{"const f = (cb) => setTimeout(cb, 10);", SideEffect, "setTimeout", "timer"},
		{"const f = (u) => fetch(u);", SideEffect, "fetch", "network"},
		{"const f = (s) => eval(s);", SideEffect, "eval", "dynamic code"},
		{"const f = () => document.title;", GlobalAccess, "document", "global object"},
		{"const f = () => window;", GlobalAccess, "window", "global object"},
		{"const f = () => localStorage.getItem('k');", GlobalAccess, "localStorage", "storage"},
		{"const f = () => process.env.HOME;", GlobalAccess, "process", "process-control"},
		{"const fs = require('fs');\nconst r = (p) => fs.readFileSync(p);", SideEffect, "fs.readFileSync", "file I/O"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := analyze(t, tt.src)
			require.Len(t, res.Violations, 1, "%v", res.Violations)
			v := res.Violations[0]
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.pattern, v.Pattern)
			assert.Contains(t, v.Message, tt.message)
		})
	}
}

func TestWildcardMembers(t *testing.T) {
	res := analyze(t, "const fs = require('fs');\nconst read = (p) => fs.promises.readFile(p);")
	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, "fs.promises.*", v.Pattern)
	assert.Equal(t, SideEffect, v.Kind)
	assert.Contains(t, v.Message, "file I/O")
	assert.Equal(t, 2, v.Location.Line)

	assert.True(t, analyze(t, "const fs = require('fs');\nconst p = () => fs.promises;").Valid)
	assert.True(t, analyze(t, "const fs = require('fs');\nconst k = () => fs.constants.F_OK;").Valid)
}

func TestUnresolvableMemberPaths(t *testing.T) {
	tests := []string{
		"const f = (k) => console[k]('x');",
		"const f = (mk) => mk().log('x');",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			assert.Empty(t, patterns(analyze(t, src)))
		})
	}
	// A literal computed segment still resolves.
	res := analyze(t, "const f = () => console['log']('x');")
	assert.Equal(t, []string{"console.log"}, patterns(res))
}

func TestMemberRootsResolveWhateverTheBinding(t *testing.T) {
	tests := []struct {
		src     string
		pattern string
	}{
		{"const f = () => { const fs = require('fs'); return fs.readFileSync('a'); };", "fs.readFileSync"},
		{"const f = (fs) => fs.writeFileSync('a', 'b');", "fs.writeFileSync"},
		{"const f = (fs) => fs.promises.readFile('a');", "fs.promises.*"},
		{"const f = (console) => console.log(1);", "console.log"},
		{"const f = () => { const console = { log: () => 1 }; return console.log(); };", "console.log"},
		{"const f = (http) => http.get('x');", "http.get"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := analyze(t, tt.src)
			assert.False(t, res.Valid)
			require.Len(t, res.Violations, 1)
			assert.Equal(t, tt.pattern, res.Violations[0].Pattern)
			assert.Equal(t, SideEffect, res.Violations[0].Kind)
		})
	}
}

func TestForbiddenConstructs(t *testing.T) {
	tests := []struct {
		src     string
		pattern string
		message string
	}{
		{"for (let i = 0; i < 10; i++) {}", ast.KindFor, "map"},
		{"const xs = [1]; for (const x of xs) {}", ast.KindForOf, "reduce"},
		{"const o = {}; for (const k in o) {}", ast.KindForIn, "recursion"},
		{"class A {}", ast.KindClassDeclaration, "factory"},
		{"const B = class {};", ast.KindClassExpression, "factory"},
		{"const f = function () { return this; };", ast.KindThis, "closures"},
		{"const o = {}; with (o) { toString; }", ast.KindWith, "explicitly"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := analyze(t, tt.src)
			require.False(t, res.Valid)
			require.Len(t, res.Violations, 1, "%v", res.Violations)
			v := res.Violations[0]
			assert.Equal(t, ForbiddenConstruct, v.Kind)
			assert.Equal(t, tt.pattern, v.Pattern)
			assert.Contains(t, v.Message, tt.message)
		})
	}
}

func TestViolationsInsideForbiddenConstructs(t *testing.T) {
	src := "const xs = [1];\nfor (const x of xs) {\n  console.log(x);\n}"
	res := analyze(t, src)
	assert.Equal(t, []string{ast.KindForOf, "console.log"}, patterns(res))
	assert.Equal(t, 2, res.Violations[0].Location.Line)
	assert.Equal(t, 3, res.Violations[1].Location.Line)
}

func TestTraversalOrder(t *testing.T) {
	src := "console.log(1);\nconst f = (cb) => setTimeout(cb);\nlet n = 0;\nconst g = () => { n = 2; };"
	want := []string{"console.log", "setTimeout", "variable reassignment: n"}
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, patterns(analyze(t, src)))
	}
}

func TestAllowLists(t *testing.T) {
	src := "const f = (cb) => setTimeout(cb, 10);"
	assert.False(t, analyze(t, src).Valid)
	assert.True(t, analyze(t, src, WithAllowedIdentifiers("setTimeout")).Valid)

	src = "console.log('hi');"
	assert.True(t, analyze(t, src, WithAllowedMembers("console.log")).Valid)
	assert.True(t, analyze(t, src, WithAllowedMembers("console.*")).Valid)
	assert.False(t, analyze(t, src, WithAllowedMembers("console.warn")).Valid)

	src = "const fs = require('fs');\nconst r = (p) => fs.promises.readFile(p);"
	assert.True(t, analyze(t, src, WithAllowedMembers("fs.promises.readFile")).Valid)

	src = "const f = (arr) => arr.push(1);"
	assert.True(t, analyze(t, src, WithAllowedMembers("push")).Valid)

	src = "const t = {}; const f = (a) => Object.assign(t, a);"
	assert.True(t, analyze(t, src, WithAllowedMembers("Object.assign")).Valid)

	// Unknown entries are ignored.
	assert.True(t, analyze(t, "const a = 1;", WithAllowedIdentifiers("nope"), WithAllowedMembers("x.y")).Valid)
}

func TestLocationAndFilename(t *testing.T) {
	src := "const a = 1;\nconst f = () => {\n  a.b = 2;\n};"
	res := analyze(t, src, WithFilename("gen.js"))
	require.Len(t, res.Violations, 1)
	loc := res.Violations[0].Location
	assert.Equal(t, diag.Location{Line: 3, Column: 2, EndLine: 3, EndColumn: 9, File: "gen.js"}, loc)
	assert.Contains(t, res.Violations[0].Snippet, ">")
}

type bogus struct{ ast.Stmt }

func TestAnalyzerFailure(t *testing.T) {
	program := &ast.Program{Stmts: []ast.Stmt{bogus{}}}

	res := Analyze(program, "")
	require.Len(t, res.Violations, 1)
	assert.False(t, res.Valid)
	assert.Equal(t, SideEffect, res.Violations[0].Kind)
	assert.Equal(t, FailurePattern, res.Violations[0].Pattern)
	assert.Equal(t, errors.P2099, res.Violations[0].Code())

	// A panic during the walk itself is recovered the same way.
	table, err := scope.Resolve(parse(t, "1"))
	require.NoError(t, err)
	res = Analyze(program, "", WithTable(table), WithFilename("x.js"))
	require.Len(t, res.Violations, 1)
	assert.Equal(t, FailurePattern, res.Violations[0].Pattern)
	assert.Equal(t, "x.js", res.Violations[0].Location.File)
	assert.Equal(t, 1, res.Violations[0].Location.Line)

	res = Analyze(nil, "")
	assert.Equal(t, []string{FailurePattern}, patterns(res))
}

func TestWithTable(t *testing.T) {
	src := "let n = 0; const f = () => { n = 1; };"
	program := parse(t, src)
	table, err := scope.Resolve(program)
	require.NoError(t, err)
	res := Analyze(program, src, WithTable(table))
	assert.Equal(t, []string{"variable reassignment: n"}, patterns(res))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	analyze(t, "console.log(1);", WithLogger(logger), WithFilename("a.js"))
	assert.Contains(t, buf.String(), "purity check failed")
	assert.Contains(t, buf.String(), `"violations":1`)

	buf.Reset()
	analyze(t, "const a = 1;", WithLogger(logger))
	assert.Contains(t, buf.String(), "purity check passed")
}

func TestDiagnostics(t *testing.T) {
	res := analyze(t, "const xs = []; const f = (x) => { xs.push(x); };\nclass A {}")
	diags := res.Diagnostics()
	require.Len(t, diags, 2)

	assert.Equal(t, diag.Purity, diags[0].Category)
	assert.Equal(t, diag.Error, diags[0].Severity)
	assert.Equal(t, "push", diags[0].Rule)
	assert.Equal(t, errors.P2001, diags[0].Code)
	assert.Contains(t, diags[0].Suggestion, "spread")

	assert.Equal(t, errors.P2004, diags[1].Code)
	assert.Contains(t, diags[1].Suggestion, "factory")
}

func TestAsValidator(t *testing.T) {
	src := "const ok = 1;\nconsole.log(ok);"
	program := parse(t, src)
	errs := syntax.RunValidators(program, AsValidator(src))
	require.Len(t, errs, 1)
	assert.Equal(t, "console.log", errs[0].Rule)
	assert.Equal(t, 2, errs[0].Position.LineNumber())

	diags := syntax.ToDiagnostics(errs, diag.Purity, src)
	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].Location.Line)
	assert.Equal(t, 0, diags[0].Location.Column)
}
