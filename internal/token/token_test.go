package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		if LookupIdentifier(key) != val {
			t.Errorf("Lookup of %s failed", key)
		}
		// Once the keywords are uppercase they'll no longer
		// match - so we find them as identifiers.
		if LookupIdentifier(strings.ToUpper(key)) != IDENT {
			t.Errorf("Lookup of %s failed", key)
		}
	}
}

func TestContextualWordsAreIdentifiers(t *testing.T) {
	for _, word := range []string{"async", "await", "yield", "of", "get", "set", "static", "from", "as"} {
		assert.Equal(t, IDENT, LookupIdentifier(word), word)
	}
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	assert.Equal(t, 3, tok.StartPosition.LineNumber())
	assert.Equal(t, 1, tok.StartPosition.ColumnNumber())
}

func TestAdvanceText(t *testing.T) {
	start := Position{Char: 10, LineStart: 4, Line: 1, Column: 6}
	p := start.AdvanceText("ab\ncdé")
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 3, p.Column)
	assert.Equal(t, 13, p.LineStart)
	assert.Equal(t, 17, p.Char)
}

func TestIsAssignment(t *testing.T) {
	assert.True(t, IsAssignment(ASSIGN))
	assert.True(t, IsAssignment(NULLISH_EQUALS))
	assert.True(t, IsAssignment(GT_GT_GT_EQUALS))
	assert.False(t, IsAssignment(EQ))
	assert.False(t, IsAssignment(ARROW))
}

func TestIsIdentifierName(t *testing.T) {
	assert.True(t, Token{Type: IDENT, Literal: "x"}.IsIdentifierName())
	assert.True(t, Token{Type: DELETE, Literal: "delete"}.IsIdentifierName())
	assert.False(t, Token{Type: STRING, Literal: "delete"}.IsIdentifierName())
	assert.False(t, Token{Type: NUMBER, Literal: "1"}.IsIdentifierName())
}

func TestStrictReserved(t *testing.T) {
	assert.True(t, IsStrictReserved("interface"))
	assert.True(t, IsStrictReserved("yield"))
	assert.False(t, IsStrictReserved("value"))
}
