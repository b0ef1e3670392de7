package parser

import (
	"fmt"

	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// Error is one problem found in the source. Scanner failures wrap the
// lexer's error and read as "syntax error"; grammar failures read as
// "parse error".
type Error struct {
	code  errors.ErrorCode
	msg   string
	cause error
	file  string
	start token.Position
	end   token.Position
	line  string
}

func (e *Error) Error() string {
	return e.Kind() + ": " + e.Message()
}

// Kind is "syntax error" for scanner failures and "parse error" otherwise.
func (e *Error) Kind() string {
	if e.cause != nil {
		return "syntax error"
	}
	return "parse error"
}

// Code is the stable diagnostic code, e.g. E1001.
func (e *Error) Code() errors.ErrorCode { return e.code }

// Message is the text without the kind prefix.
func (e *Error) Message() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.msg
}

// File is the filename given with WithFilename, if any.
func (e *Error) File() string { return e.file }

func (e *Error) StartPosition() token.Position { return e.start }
func (e *Error) EndPosition() token.Position   { return e.end }

// SourceCode is the full source line holding the start position.
func (e *Error) SourceCode() string { return e.line }

func (e *Error) Unwrap() error { return e.cause }

// Formatted renders the error for errors.Formatter. The caret spans the
// error only when it starts and ends on the same line.
func (e *Error) Formatted() *errors.FormattedError {
	endColumn := 0
	if e.end.Line == e.start.Line {
		endColumn = e.end.ColumnNumber()
	}
	return &errors.FormattedError{
		Code:        e.code,
		Kind:        e.Kind(),
		Message:     e.Message(),
		Filename:    e.file,
		Line:        e.start.LineNumber(),
		Column:      e.start.ColumnNumber(),
		EndColumn:   endColumn,
		SourceLines: []errors.SourceLineEntry{{Number: e.start.LineNumber(), Text: e.line, IsMain: true}},
	}
}

// Errors is what Parse returns when the source has problems: the errors
// in source order, up to the configured cap.
type Errors struct {
	errs []*Error
}

func newErrors(errs []*Error) *Errors {
	if len(errs) == 0 {
		return nil
	}
	return &Errors{errs: errs}
}

func (e *Errors) Error() string {
	switch len(e.errs) {
	case 0:
		return ""
	case 1:
		return e.errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.errs[0].Error(), len(e.errs)-1)
}

// Errors returns the collected errors.
func (e *Errors) Errors() []*Error {
	return e.errs
}

// Formatted renders every error for errors.Formatter.FormatMultiple.
func (e *Errors) Formatted() []*errors.FormattedError {
	out := make([]*errors.FormattedError, len(e.errs))
	for i, err := range e.errs {
		out[i] = err.Formatted()
	}
	return out
}

func (e *Errors) Unwrap() []error {
	out := make([]error, len(e.errs))
	for i, err := range e.errs {
		out[i] = err
	}
	return out
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return "identifier"
	case token.STRING:
		return "string"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return "string " + t.Literal
	case token.TEMPLATE:
		return "template literal"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return t.Literal
	}
}
