// Package errors renders diagnostics for humans and defines the stable
// diagnostic codes and "did you mean" helpers shared by the pipeline stages.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Formatter formats diagnostics with colors and a Rust-like layout.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// FormattedError represents a diagnostic ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "warning", "syntax error", ...
	Rule        string // shown in brackets when Code is empty
	Message     string
	Filename    string
	Line        int // 1-based
	Column      int // 1-based
	EndColumn   int // 1-based and exclusive, for multi-character underlines
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the error
}

type palette struct {
	errorBold, warnBold, code, location, lineNum, source, caret, hint, note func(a ...any) string
}

func (f *Formatter) palette() palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if f.UseColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		errorBold: mk(color.FgHiRed, color.Bold),
		warnBold:  mk(color.FgHiYellow, color.Bold),
		code:      mk(color.FgHiBlack),
		location:  mk(color.FgCyan),
		lineNum:   mk(color.FgHiBlack),
		source:    mk(color.FgWhite),
		caret:     mk(color.FgHiRed),
		hint:      mk(color.FgHiYellow),
		note:      mk(color.FgHiBlue),
	}
}

// Format formats the error as a string.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5".
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder
	p := f.palette()

	lineNumWidth := 2
	for _, l := range err.SourceLines {
		if w := len(fmt.Sprint(l.Number)); w > lineNumWidth {
			lineNumWidth = w
		}
	}

	f.writeHeader(&b, p, err, prefix)
	f.writeLocation(&b, p, err, lineNumWidth)
	f.writeSource(&b, p, err, lineNumWidth)
	if err.Hint != "" {
		padding := strings.Repeat(" ", lineNumWidth)
		b.WriteString(p.lineNum(padding + " |\n"))
		b.WriteString(p.lineNum(padding + " = "))
		b.WriteString(p.hint("hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		padding := strings.Repeat(" ", lineNumWidth)
		b.WriteString(p.lineNum(padding + " = "))
		b.WriteString(p.note("note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder, p palette, err *FormattedError, prefix string) {
	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	if strings.Contains(label, "warning") {
		b.WriteString(p.warnBold(label))
	} else {
		b.WriteString(p.errorBold(label))
	}
	tag := prefix
	if err.Code != "" {
		tag = string(err.Code)
	} else if err.Rule != "" {
		tag = err.Rule
	}
	if tag != "" {
		b.WriteString(p.code("[" + tag + "]"))
	}
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeLocation(b *strings.Builder, p palette, err *FormattedError, lineNumWidth int) {
	if err.Line == 0 && err.Filename == "" {
		return
	}
	loc := fmt.Sprintf("%d:%d", err.Line, err.Column)
	if err.Filename != "" {
		loc = err.Filename + ":" + loc
	}
	b.WriteString(strings.Repeat(" ", lineNumWidth))
	b.WriteString(p.location("-->"))
	b.WriteString(" ")
	b.WriteString(p.location(loc))
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, p palette, err *FormattedError, lineNumWidth int) {
	if len(err.SourceLines) == 0 {
		return
	}
	padding := strings.Repeat(" ", lineNumWidth)
	b.WriteString(p.lineNum(padding + " |\n"))
	for _, line := range err.SourceLines {
		b.WriteString(p.lineNum(fmt.Sprintf("%*d", lineNumWidth, line.Number) + " | "))
		b.WriteString(p.source(line.Text))
		b.WriteString("\n")
		if !line.IsMain || err.Column <= 0 {
			continue
		}
		b.WriteString(p.lineNum(padding + " | "))
		b.WriteString(CaretPadding(line.Text, err.Column-1))
		caretLen := 1
		if err.EndColumn > err.Column {
			caretLen = err.EndColumn - err.Column
		}
		b.WriteString(p.caret(strings.Repeat("^", caretLen)))
		b.WriteString("\n")
	}
}

// CaretPadding returns the text to print before a caret so that it lines up
// under the rune at the 0-based column of text. Tabs are copied and other
// runes are replaced by spaces of their display width.
func CaretPadding(text string, column int) string {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < column; i++ {
		if i >= len(runes) {
			b.WriteByte(' ')
			continue
		}
		if runes[i] == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(runes[i])))
	}
	return b.String()
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}
	var b strings.Builder
	total := len(errs)
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, total)))
	}
	b.WriteString("\n")
	b.WriteString(f.palette().errorBold(fmt.Sprintf("found %d problems", total)))
	b.WriteString("\n")
	return b.String()
}
