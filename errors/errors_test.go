package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"no-var", "no-var", 0},
		{"eqeqeq", "eqeq", 2},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistance(tt.a, tt.b), tt.a+"/"+tt.b)
	}
}

func TestSuggestSimilar(t *testing.T) {
	rules := []string{"no-var", "eqeqeq", "max-len", "no-tabs", "no-empty"}
	got := SuggestSimilar("no-vars", rules)
	require.NotEmpty(t, got)
	assert.Equal(t, "no-var", got[0].Value)
	assert.Equal(t, 1, got[0].Distance)

	assert.Empty(t, SuggestSimilar("completely-unrelated", rules))
	assert.Empty(t, SuggestSimilar("", rules))
	// Exact matches are not suggestions.
	assert.Empty(t, SuggestSimilar("NO-VAR", []string{"no-var"}))
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, "", FormatSuggestions(nil))
	assert.Equal(t, "did you mean 'module'?", DidYouMean("modul", []string{"module", "script"}))
	two := FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}})
	assert.Equal(t, "did you mean one of: 'a', 'b'?", two)
}

func TestCodes(t *testing.T) {
	assert.Equal(t, "syntax", E1001.Category())
	assert.Equal(t, "purity", P2003.Category())
	assert.Equal(t, "duplicate export", E1010.Description())
	assert.Equal(t, "unknown error", ErrorCode("X0").Description())
	for _, c := range Codes() {
		assert.NotEqual(t, "unknown error", c.Description(), c.String())
	}
}

func TestFormat(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Code:     E1002,
		Kind:     "syntax error",
		Message:  "unterminated string literal",
		Filename: "gen.js",
		Line:     3,
		Column:   11,
		SourceLines: []SourceLineEntry{
			{Number: 2, Text: "const a = 1;"},
			{Number: 3, Text: "const b = 'oops", IsMain: true},
		},
		Hint: "add the missing closing quote",
	})
	expected := strings.Join([]string{
		"syntax error[E1002]: unterminated string literal",
		"  --> gen.js:3:11",
		"   |",
		" 2 | const a = 1;",
		" 3 | const b = 'oops",
		"   |           ^",
		"   |",
		"   = hint: add the missing closing quote",
		"",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestFormatRuleTagAndWideRunes(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Kind:      "warning",
		Rule:      "eqeqeq",
		Message:   "expected '===' and instead saw '=='",
		Line:      1,
		Column:    9,
		EndColumn: 11,
		SourceLines: []SourceLineEntry{
			{Number: 1, Text: "\t日本 = a == b", IsMain: true},
		},
	})
	assert.Contains(t, out, "warning[eqeqeq]: expected")
	assert.Contains(t, out, "   | \t"+strings.Repeat(" ", 9)+"^^\n")
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	out := f.FormatMultiple([]*FormattedError{
		{Message: "first"},
		{Message: "second"},
	})
	assert.Contains(t, out, "error[1/2]: first")
	assert.Contains(t, out, "error[2/2]: second")
	assert.True(t, strings.HasSuffix(out, "found 2 problems\n"))
	assert.Equal(t, "", f.FormatMultiple(nil))
}

func TestCaretPadding(t *testing.T) {
	assert.Equal(t, "    ", CaretPadding("abcdef", 4))
	assert.Equal(t, "\t  ", CaretPadding("\tab", 3))
	assert.Equal(t, "    ", CaretPadding("日本x", 2))
	assert.Equal(t, "   ", CaretPadding("a", 3))
}
