// Package diag defines the diagnostic shape shared by every validation stage.
package diag

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
	"github.com/vmihailenco/msgpack/v5"
)

// Location is a position in source text. Line is 1-indexed and Column is
// 0-indexed, counted in runes. EndLine and EndColumn are zero when the
// location is a single point.
type Location struct {
	Line      int    `json:"line" msgpack:"line"`
	Column    int    `json:"column" msgpack:"column"`
	EndLine   int    `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty" msgpack:"end_column,omitempty"`
	File      string `json:"file,omitempty" msgpack:"file,omitempty"`
}

// LocationOf converts a parser position into a Location. Unset positions
// map to line 1, column 0.
func LocationOf(pos token.Position) Location {
	return Location{Line: pos.LineNumber(), Column: pos.Column, File: pos.File}
}

// RangeOf converts a start and end position into a Location.
func RangeOf(start, end token.Position) Location {
	loc := LocationOf(start)
	if end.Char > start.Char {
		loc.EndLine = end.LineNumber()
		loc.EndColumn = end.Column
	}
	return loc
}

// Normalize clamps the location so that Line is at least 1 and Column is
// not negative.
func (l Location) Normalize() Location {
	if l.Line < 1 {
		l.Line = 1
	}
	if l.Column < 0 {
		l.Column = 0
	}
	return l
}

func (l Location) String() string {
	s := fmt.Sprintf("%d:%d", l.Line, l.Column)
	if l.File != "" {
		return l.File + ":" + s
	}
	return s
}

// Category names the stage that produced a diagnostic.
type Category string

const (
	Syntax Category = "syntax"
	Purity Category = "purity"
	Style  Category = "style"
)

// Severity is either error or warning.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// ParseCategory returns the Category named by s.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case Syntax, Purity, Style:
		return c, nil
	}
	return "", fmt.Errorf("unknown diagnostic category %q", s)
}

// ParseSeverity returns the Severity named by s.
func ParseSeverity(s string) (Severity, error) {
	switch v := Severity(strings.ToLower(strings.TrimSpace(s))); v {
	case Error, Warning:
		return v, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

func (c Category) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(c))
}

func (c *Category) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	*c, err = ParseCategory(s)
	return err
}

func (s Severity) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(s))
}

func (s *Severity) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeString()
	if err != nil {
		return err
	}
	*s, err = ParseSeverity(v)
	return err
}

// Diagnostic is one reported problem. Diagnostics are values and are never
// modified after they are created.
type Diagnostic struct {
	Category   Category         `json:"category" msgpack:"category"`
	Severity   Severity         `json:"severity" msgpack:"severity"`
	Message    string           `json:"message" msgpack:"message"`
	Location   Location         `json:"location" msgpack:"location"`
	Snippet    string           `json:"snippet,omitempty" msgpack:"snippet,omitempty"`
	Rule       string           `json:"rule,omitempty" msgpack:"rule,omitempty"`
	Suggestion string           `json:"suggestion,omitempty" msgpack:"suggestion,omitempty"`
	Code       errors.ErrorCode `json:"code,omitempty" msgpack:"code,omitempty"`
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool { return d.Severity == Error }

func (d Diagnostic) String() string {
	tag := string(d.Code)
	if tag == "" {
		tag = d.Rule
	}
	if tag != "" {
		return fmt.Sprintf("%s: %s %s[%s]: %s", d.Location, d.Category, d.Severity, tag, d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", d.Location, d.Category, d.Severity, d.Message)
}

// Formatted converts the diagnostic into the formatter's input, taking
// context lines from source.
func (d Diagnostic) Formatted(source string) *errors.FormattedError {
	kind := string(d.Category) + " " + string(d.Severity)
	fe := &errors.FormattedError{
		Code:     d.Code,
		Kind:     kind,
		Rule:     d.Rule,
		Message:  d.Message,
		Filename: d.Location.File,
		Line:     d.Location.Line,
		Column:   d.Location.Column + 1,
		Hint:     d.Suggestion,
	}
	if d.Location.EndLine == d.Location.Line && d.Location.EndColumn > d.Location.Column {
		fe.EndColumn = d.Location.EndColumn + 1
	}
	lines := strings.Split(source, "\n")
	for n := d.Location.Line - 1; n <= d.Location.Line; n++ {
		if n < 1 || n > len(lines) {
			continue
		}
		fe.SourceLines = append(fe.SourceLines, errors.SourceLineEntry{
			Number: n,
			Text:   strings.TrimRight(lines[n-1], "\r"),
			IsMain: n == d.Location.Line,
		})
	}
	return fe
}

// Partition splits diagnostics into errors and warnings, preserving the
// relative order within each group.
func Partition(diags []Diagnostic) (errs, warnings []Diagnostic) {
	errs = []Diagnostic{}
	warnings = []Diagnostic{}
	for _, d := range diags {
		if d.IsError() {
			errs = append(errs, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errs, warnings
}
