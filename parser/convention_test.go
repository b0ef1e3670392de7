package parser

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferConvention(t *testing.T) {
	tests := []struct {
		src  string
		want Convention
	}{
		{"module.exports = { run }", ConventionPropertyExport},
		{"exports.run = run", ConventionPropertyExport},
		{"const x = obj.export", ConventionPropertyExport},
		{"const o = { import: 1, export: 2 }", ConventionPropertyExport},
		{"import('x').then(load)", ConventionPropertyExport},
		{"const url = import.meta.url", ConventionPropertyExport},
		{"import x from 'y'", ConventionDeclarativeExport},
		{"import 'polyfill'", ConventionDeclarativeExport},
		{"const a = 1\nexport { a }", ConventionDeclarativeExport},
		{"export default function () {}", ConventionDeclarativeExport},
		{"", ConventionPropertyExport},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, InferConvention(tt.src))
		})
	}
}

func TestParseConvention(t *testing.T) {
	tests := []struct {
		name string
		want Convention
	}{
		{"esm", ConventionDeclarativeExport},
		{"Module", ConventionDeclarativeExport},
		{"declarative", ConventionDeclarativeExport},
		{"commonjs", ConventionPropertyExport},
		{" cjs ", ConventionPropertyExport},
		{"infer", ConventionInfer},
		{"auto", ConventionInfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConvention(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseConvention("modul")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown module convention "modul"`)
	assert.Contains(t, err.Error(), "module")
}

func TestConventionString(t *testing.T) {
	assert.Equal(t, "infer", ConventionInfer.String())
	assert.Equal(t, "commonjs", ConventionPropertyExport.String())
	assert.Equal(t, "esm", ConventionDeclarativeExport.String())
}

func TestInferredSourceType(t *testing.T) {
	program, err := Parse(context.Background(), "export const a = 1")
	require.NoError(t, err)
	assert.Equal(t, ast.Module, program.SourceType)

	program, err = Parse(context.Background(), "module.exports = {}")
	require.NoError(t, err)
	assert.Equal(t, ast.Script, program.SourceType)

	// Inferred modules are strict.
	_, err = Parse(context.Background(), "import x from 'y'\nwith (x) {}")
	require.Error(t, err)

	// An explicit infer option resolves from the text as well.
	program, err = Parse(context.Background(), "with (x) {}", WithConvention(ConventionInfer))
	require.NoError(t, err)
	assert.Equal(t, ast.Script, program.SourceType)
}
