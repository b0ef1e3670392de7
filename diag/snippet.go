package diag

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Default number of context lines shown around the offending line.
const (
	DefaultBefore = 2
	DefaultAfter  = 1
)

// Snippet renders the lines around loc with a line-number gutter, a ">"
// marker on the offending line and a caret under its column.
func Snippet(source string, loc Location) string {
	return SnippetContext(source, loc, DefaultBefore, DefaultAfter)
}

// SnippetContext is Snippet with an explicit amount of context.
func SnippetContext(source string, loc Location, before, after int) string {
	loc = loc.Normalize()
	lines := strings.Split(source, "\n")
	if loc.Line > len(lines) {
		return ""
	}
	first := max(1, loc.Line-before)
	last := min(len(lines), loc.Line+after)
	width := len(fmt.Sprint(last))

	var b strings.Builder
	for n := first; n <= last; n++ {
		text := strings.TrimRight(lines[n-1], "\r")
		marker := " "
		if n == loc.Line {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %*d | %s\n", marker, width, n, text)
		if n == loc.Line {
			fmt.Fprintf(&b, "  %s | %s^\n", strings.Repeat(" ", width), caretPadding(text, loc.Column))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// caretPadding returns the padding that places a caret under the rune at
// column. Tabs are kept so terminals expand them identically.
func caretPadding(text string, column int) string {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < column; i++ {
		switch {
		case i >= len(runes):
			b.WriteByte(' ')
		case runes[i] == '\t':
			b.WriteByte('\t')
		default:
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(runes[i])))
		}
	}
	return b.String()
}
