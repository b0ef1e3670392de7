package style

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lint(t *testing.T, src string, cfg Config, opts ...EngineOption) []Message {
	t.Helper()
	msgs, err := NewEngine(opts...).Lint(context.Background(), src, cfg, "test.js")
	require.NoError(t, err)
	return msgs
}

func byRule(msgs []Message, id string) []Message {
	var out []Message
	for _, m := range msgs {
		if m.RuleID == id {
			out = append(out, m)
		}
	}
	return out
}

func TestBuiltinRules(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, []string{
		"no-var", "eqeqeq", "max-len", "no-trailing-spaces", "no-tabs",
		"no-empty", "no-self-compare", "no-unused-vars", "no-debugger",
	}, e.RuleNames())
	defaults := e.Defaults()
	assert.Equal(t, Error, defaults["no-var"])
	assert.Equal(t, Warn, defaults["eqeqeq"])
	assert.Equal(t, Error, defaults["no-debugger"])
	for _, r := range e.Rules() {
		assert.NotEmpty(t, r.Description(), r.Name())
	}
}

func TestNoVarAndEqeqeq(t *testing.T) {
	msgs := lint(t, "var x = 1;\nmodule.exports = x == 2;", nil)

	noVar := byRule(msgs, "no-var")
	require.Len(t, noVar, 1)
	assert.Equal(t, Message{RuleID: "no-var", Severity: 2, Message: "Unexpected var, use let or const instead.", Line: 1, Column: 1}, noVar[0])

	eq := byRule(msgs, "eqeqeq")
	require.Len(t, eq, 1)
	assert.Equal(t, 1, eq[0].Severity)
	assert.Equal(t, 2, eq[0].Line)
	assert.Equal(t, 20, eq[0].Column)
	assert.Equal(t, "Expected '===' and instead saw '=='.", eq[0].Message)
}

func TestLineRules(t *testing.T) {
	msgs := lint(t, "const a = 1;  \n\tmodule.exports = a;", nil, WithMaxLen(15))

	trailing := byRule(msgs, "no-trailing-spaces")
	require.Len(t, trailing, 1)
	assert.Equal(t, 1, trailing[0].Line)
	assert.Equal(t, 13, trailing[0].Column)

	tabs := byRule(msgs, "no-tabs")
	require.Len(t, tabs, 1)
	assert.Equal(t, 2, tabs[0].Line)
	assert.Equal(t, 1, tabs[0].Column)

	long := byRule(msgs, "max-len")
	require.Len(t, long, 1)
	assert.Equal(t, 2, long[0].Line)
	assert.Contains(t, long[0].Message, "Maximum allowed is 15")
}

func TestNoEmpty(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"const f = (a) => { if (a) {} return a; };\nmodule.exports = f;", 1},
		{"function f() {}\nmodule.exports = f;", 0},
		{"const f = () => {};\nmodule.exports = f;", 0},
		{"const f = (a) => { if (a) { /* nothing */ } return a; };\nmodule.exports = f;", 0},
		{"const f = (a) => { switch (a) {} return a; };\nmodule.exports = f;", 1},
		{"try { module.exports = 1; } catch (e) {}", 1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Len(t, byRule(lint(t, tt.src, nil), "no-empty"), tt.want)
		})
	}
}

func TestNoSelfCompare(t *testing.T) {
	msgs := byRule(lint(t, "const f = (a) => a === a;\nmodule.exports = f;", nil), "no-self-compare")
	require.Len(t, msgs, 1)
	assert.Equal(t, 18, msgs[0].Column)
	assert.Empty(t, byRule(lint(t, "const f = (a, b) => a === b;\nmodule.exports = f;", nil), "no-self-compare"))
}

func TestNoUnusedVars(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"const used = 1;\nconst unused = 2;\nmodule.exports = { used };", []string{"'unused' is defined but never used."}},
		{"const f = (_a, b) => 1;\nmodule.exports = f;", nil},
		{"const g = function named() { return 1; };\nmodule.exports = g;", nil},
		{"const C = class Named {};\nmodule.exports = C;", nil},
		{"try { module.exports = 1; } catch (e) { module.exports = 2; }", nil},
		{"const _ignored = 1;", nil},
		{"import x from 'y';", []string{"'x' is defined but never used."}},
		{"export const z = 1;\nexport function h() { const inner = 1; return 2; }", []string{"'inner' is defined but never used."}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var got []string
			for _, m := range byRule(lint(t, tt.src, nil), "no-unused-vars") {
				got = append(got, m.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoDebugger(t *testing.T) {
	msgs := byRule(lint(t, "const f = () => {\n  debugger;\n};\nmodule.exports = f;", nil), "no-debugger")
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{RuleID: "no-debugger", Severity: 2, Message: "Unexpected 'debugger' statement.", Line: 2, Column: 3}, msgs[0])
}

func TestConfigOverrides(t *testing.T) {
	src := "var x = 1;\nmodule.exports = x == 2;"
	msgs := lint(t, src, Config{"no-var": Off, "eqeqeq": Error})
	assert.Empty(t, byRule(msgs, "no-var"))
	eq := byRule(msgs, "eqeqeq")
	require.Len(t, eq, 1)
	assert.Equal(t, 2, eq[0].Severity)
}

func TestUnknownRule(t *testing.T) {
	_, err := NewEngine().Lint(context.Background(), "const a = 1;", Config{"no-vra": Warn}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown style rule "no-vra"`)
	assert.Contains(t, err.Error(), "did you mean 'no-var'?")
}

func TestUnparseableSource(t *testing.T) {
	msgs := lint(t, "const = \t;", nil)
	require.Len(t, msgs, 1)
	assert.Equal(t, "no-tabs", msgs[0].RuleID)
}

func TestMessagesSorted(t *testing.T) {
	msgs := lint(t, "debugger;\nvar a = 1;  \nmodule.exports = a == 1;", nil)
	for i := 1; i < len(msgs); i++ {
		prev, cur := msgs[i-1], msgs[i]
		assert.True(t, prev.Line < cur.Line || (prev.Line == cur.Line && prev.Column <= cur.Column), "%v before %v", prev, cur)
	}
}

func TestLintCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine().Lint(ctx, "const a = 1;", nil, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCustomRules(t *testing.T) {
	custom := &rule{
		name:  "no-foo",
		level: Warn,
		check: func(fc *FileContext) []Finding {
			return []Finding{{Line: 1, Column: 1, Message: "foo"}}
		},
	}
	e := NewEngine(WithRules(custom))
	assert.Equal(t, []string{"no-foo"}, e.RuleNames())
	msgs, err := e.Lint(context.Background(), "var a;", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []Message{{RuleID: "no-foo", Severity: 1, Message: "foo", Line: 1, Column: 1}}, msgs)
}
