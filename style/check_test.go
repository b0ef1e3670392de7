package style

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(msgs ...Message) Linter {
	return LinterFunc(func(context.Context, string, Config, string) ([]Message, error) {
		return msgs, nil
	})
}

func TestCheckReindexesColumns(t *testing.T) {
	src := "const a = 1;\nconst b = 2;"
	res := Check(context.Background(), fixed(Message{RuleID: "x", Severity: 1, Message: "m", Line: 2, Column: 5}), src,
		WithFilename("gen.js"))
	require.Len(t, res.Diagnostics, 1)
	assert.True(t, res.Valid)

	d := res.Diagnostics[0]
	assert.Equal(t, diag.Style, d.Category)
	assert.Equal(t, diag.Warning, d.Severity)
	assert.Equal(t, "x", d.Rule)
	assert.Equal(t, diag.Location{Line: 2, Column: 4, File: "gen.js"}, d.Location)
	assert.Contains(t, d.Snippet, "> 2 | const b = 2;")
}

func TestCheckErrorsAffectValidity(t *testing.T) {
	res := Check(context.Background(), fixed(
		Message{RuleID: "w", Severity: 1, Line: 1, Column: 1},
		Message{RuleID: "e", Severity: 2, Line: 1, Column: 1},
	), "x")
	assert.False(t, res.Valid)
	assert.Equal(t, diag.Warning, res.Diagnostics[0].Severity)
	assert.Equal(t, diag.Error, res.Diagnostics[1].Severity)
}

func TestCheckNormalizesPositions(t *testing.T) {
	res := Check(context.Background(), fixed(Message{RuleID: "x", Severity: 1}), "x")
	assert.Equal(t, diag.Location{Line: 1, Column: 0}, res.Diagnostics[0].Location)
}

func TestCheckLinterFailure(t *testing.T) {
	failing := LinterFunc(func(context.Context, string, Config, string) ([]Message, error) {
		return nil, stderrors.New("boom")
	})
	res := Check(context.Background(), failing, "x")
	assert.False(t, res.Valid)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, FailureRule, res.Diagnostics[0].Rule)
	assert.Equal(t, diag.Error, res.Diagnostics[0].Severity)
	assert.Contains(t, res.Diagnostics[0].Message, "boom")
}

func TestCheckPassesMergedConfig(t *testing.T) {
	var gotCfg Config
	var gotName string
	spy := LinterFunc(func(_ context.Context, _ string, cfg Config, name string) ([]Message, error) {
		gotCfg, gotName = cfg, name
		return nil, nil
	})
	res := Check(context.Background(), spy, "x",
		WithDefaults(Config{"a": Warn, "b": Warn}),
		WithOverrides(Config{"a": Error, "c": Off}))
	assert.True(t, res.Valid)
	assert.NotNil(t, res.Diagnostics)
	assert.Equal(t, Config{"a": Error, "b": Warn, "c": Off}, gotCfg)
	assert.Equal(t, VirtualFilename, gotName)
}

func TestCheckWithEngine(t *testing.T) {
	src := "var a = 1;\nmodule.exports = a;"
	res := Check(context.Background(), NewEngine(), src)
	assert.False(t, res.Valid)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "no-var", d.Rule)
	assert.Equal(t, 0, d.Location.Column)
	assert.Contains(t, d.Suggestion, "const")

	res = Check(context.Background(), NewEngine(), src, WithOverrides(Config{"no-var": Warn}))
	assert.True(t, res.Valid)
	assert.Equal(t, diag.Warning, res.Diagnostics[0].Severity)

	res = Check(context.Background(), NewEngine(), src, WithOverrides(Config{"bogus": Warn}))
	assert.False(t, res.Valid)
	assert.Equal(t, FailureRule, res.Diagnostics[0].Rule)
}
