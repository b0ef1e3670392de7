package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  []*Fragment
	}{
		{
			"Hello ${name}!",
			[]*Fragment{
				{value: "Hello ", isVariable: false, offset: 0},
				{value: "name", isVariable: true, offset: 8},
				{value: "!", isVariable: false, offset: 13},
			},
		},
		{
			"ab ${foo} $bar baz\t",
			[]*Fragment{
				{value: "ab ", offset: 0},
				{value: "foo", isVariable: true, offset: 5},
				{value: " $bar baz\t", offset: 9},
			},
		},
		{
			"${ {a: 1}.a }${`x${y}`}",
			[]*Fragment{
				{value: " {a: 1}.a ", isVariable: true, offset: 2},
				{value: "`x${y}`", isVariable: true, offset: 15},
			},
		},
		{
			`escaped \${not} ${"}"}`,
			[]*Fragment{
				{value: `escaped \${not} `, offset: 0},
				{value: `"}"`, isVariable: true, offset: 18},
			},
		},
		{
			"plain text without interpolation",
			[]*Fragment{
				{value: "plain text without interpolation"},
			},
		},
	}
	for _, tc := range tests {
		res, err := Parse(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.input, res.Value())
		assert.Equal(t, tc.want, res.Fragments())
	}
}

func TestExpressions(t *testing.T) {
	res, err := Parse("a${b}c${d}")
	require.NoError(t, err)
	exprs := res.Expressions()
	require.Len(t, exprs, 2)
	assert.Equal(t, "b", exprs[0].Value())
	assert.Equal(t, 3, exprs[0].Offset())
	assert.Equal(t, "d", exprs[1].Value())
	assert.True(t, exprs[1].IsVariable())
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"${a", "x ${'}", "${`${b`}"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}
