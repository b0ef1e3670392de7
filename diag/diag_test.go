package diag

import (
	"encoding/json"
	"testing"

	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestLocationOf(t *testing.T) {
	loc := LocationOf(token.Position{Line: 2, Column: 4, File: "a.js"})
	assert.Equal(t, Location{Line: 3, Column: 4, File: "a.js"}, loc)
	assert.Equal(t, "a.js:3:4", loc.String())

	loc = LocationOf(token.NoPos)
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 0, loc.Column)
	assert.Equal(t, "1:0", loc.String())
}

func TestRangeOf(t *testing.T) {
	start := token.Position{Char: 4, Line: 0, Column: 4}
	end := token.Position{Char: 9, Line: 0, Column: 9}
	loc := RangeOf(start, end)
	assert.Equal(t, Location{Line: 1, Column: 4, EndLine: 1, EndColumn: 9}, loc)

	assert.Equal(t, Location{Line: 1, Column: 4}, RangeOf(start, start))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Location{Line: 1, Column: 0}, Location{Line: -3, Column: -1}.Normalize())
}

func TestParseNames(t *testing.T) {
	c, err := ParseCategory(" Purity ")
	require.NoError(t, err)
	assert.Equal(t, Purity, c)
	_, err = ParseCategory("lint")
	assert.Error(t, err)

	s, err := ParseSeverity("WARNING")
	require.NoError(t, err)
	assert.Equal(t, Warning, s)
	_, err = ParseSeverity("info")
	assert.Error(t, err)
}

func sample() Diagnostic {
	return Diagnostic{
		Category:   Syntax,
		Severity:   Error,
		Message:    "unexpected token ';'",
		Location:   Location{Line: 1, Column: 10, File: "gen.js"},
		Snippet:    "> 1 | const x = ;",
		Suggestion: "check the expression",
		Code:       errors.E1001,
	}
}

func TestJSONEncoding(t *testing.T) {
	data, err := json.Marshal(sample())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"syntax"`)
	assert.Contains(t, string(data), `"severity":"error"`)
	assert.Contains(t, string(data), `"code":"E1001"`)
	assert.NotContains(t, string(data), `"rule"`)

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sample(), back)
}

func TestMsgpackEncoding(t *testing.T) {
	data, err := msgpack.Marshal(sample())
	require.NoError(t, err)
	var back Diagnostic
	require.NoError(t, msgpack.Unmarshal(data, &back))
	assert.Equal(t, sample(), back)
}

func TestMsgpackRejectsUnknownSeverity(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"severity": "fatal"})
	require.NoError(t, err)
	var d Diagnostic
	assert.Error(t, msgpack.Unmarshal(data, &d))
}

func TestDiagnosticString(t *testing.T) {
	assert.Equal(t, "gen.js:1:10: syntax error[E1001]: unexpected token ';'", sample().String())

	d := Diagnostic{Category: Style, Severity: Warning, Message: "m", Rule: "eqeqeq", Location: Location{Line: 2}}
	assert.Equal(t, "2:0: style warning[eqeqeq]: m", d.String())
}

func TestPartition(t *testing.T) {
	diags := []Diagnostic{
		{Message: "a", Severity: Error},
		{Message: "b", Severity: Warning},
		{Message: "c", Severity: Error},
		{Message: "d", Severity: Warning},
	}
	errs, warns := Partition(diags)
	require.Len(t, errs, 2)
	require.Len(t, warns, 2)
	assert.Equal(t, "a", errs[0].Message)
	assert.Equal(t, "c", errs[1].Message)
	assert.Equal(t, "b", warns[0].Message)
	assert.Equal(t, "d", warns[1].Message)

	errs, warns = Partition(nil)
	assert.NotNil(t, errs)
	assert.NotNil(t, warns)
	assert.Empty(t, errs)
}

func TestSnippet(t *testing.T) {
	src := "const a = 1;\nconst b = 2;\nlet x = ;\nfoo();\nbar();"
	got := Snippet(src, Location{Line: 3, Column: 8})
	want := "  1 | const a = 1;\n" +
		"  2 | const b = 2;\n" +
		"> 3 | let x = ;\n" +
		"    |         ^\n" +
		"  4 | foo();"
	assert.Equal(t, want, got)
}

func TestSnippetEdges(t *testing.T) {
	assert.Equal(t, "> 1 | x\n    | ^", Snippet("x", Location{}))
	assert.Equal(t, "", Snippet("x", Location{Line: 5}))

	// Wide runes take two cells.
	got := SnippetContext("const 名 = ;", Location{Line: 1, Column: 10}, 0, 0)
	assert.Equal(t, "> 1 | const 名 = ;\n    |            ^", got)

	// Tabs are preserved in the padding.
	got = SnippetContext("\tx = ;", Location{Line: 1, Column: 5}, 0, 0)
	assert.Equal(t, "> 1 | \tx = ;\n    | \t    ^", got)
}

func TestFormatted(t *testing.T) {
	src := "const a = 1;\nlet x = ;"
	d := Diagnostic{
		Category: Syntax, Severity: Error, Message: "missing expression",
		Location: Location{Line: 2, Column: 8, EndLine: 2, EndColumn: 9},
		Code:     errors.E1004, Suggestion: "add a value",
	}
	fe := d.Formatted(src)
	assert.Equal(t, "syntax error", fe.Kind)
	assert.Equal(t, 9, fe.Column)
	assert.Equal(t, 10, fe.EndColumn)
	require.Len(t, fe.SourceLines, 2)
	assert.True(t, fe.SourceLines[1].IsMain)
	assert.Equal(t, "let x = ;", fe.SourceLines[1].Text)

	out := errors.NewFormatter(false).Format(fe)
	assert.Contains(t, out, "syntax error[E1004]: missing expression")
	assert.Contains(t, out, "hint: add a value")
}
