package syntax

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// ValidationError is one problem found by a Validator.
type ValidationError struct {
	Message  string         // description of the violation
	Rule     string         // optional rule or pattern identifier
	Node     ast.Node       // the offending node
	Position token.Position // source location
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	pos := e.Position
	if pos.File != "" {
		return fmt.Sprintf("%s at %s:%d:%d", e.Message, pos.File, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, pos.LineNumber(), pos.ColumnNumber())
}

// ValidationErrors wraps multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

// NewValidationErrors creates a ValidationErrors from a slice of errors.
func NewValidationErrors(errs []ValidationError) *ValidationErrors {
	return &ValidationErrors{Errors: errs}
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
		for _, err := range e.Errors {
			fmt.Fprintf(&b, "  - %s\n", err.Error())
		}
		return b.String()
	}
}

// Unwrap returns every wrapped error.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i := range e.Errors {
		errs[i] = &e.Errors[i]
	}
	return errs
}

// Validator inspects a parsed program and reports problems. Validators
// must not modify the program.
type Validator interface {
	Validate(program *ast.Program) []ValidationError
}

// ValidatorFunc is an adapter to use a function as a Validator.
type ValidatorFunc func(*ast.Program) []ValidationError

// Validate implements the Validator interface.
func (f ValidatorFunc) Validate(p *ast.Program) []ValidationError {
	return f(p)
}

// RunValidators runs each validator in order and concatenates the results.
func RunValidators(program *ast.Program, validators ...Validator) []ValidationError {
	var errs []ValidationError
	for _, v := range validators {
		if v == nil {
			continue
		}
		errs = append(errs, v.Validate(program)...)
	}
	return errs
}

// ToDiagnostics converts validation errors into error diagnostics of the
// given category, with snippets taken from source.
func ToDiagnostics(errs []ValidationError, category diag.Category, source string) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(errs))
	for _, e := range errs {
		loc := diag.LocationOf(e.Position)
		if e.Node != nil {
			loc = diag.RangeOf(e.Node.Pos(), e.Node.End())
			loc.File = e.Position.File
		}
		loc = loc.Normalize()
		out = append(out, diag.Diagnostic{
			Category: category,
			Severity: diag.Error,
			Message:  e.Message,
			Location: loc,
			Snippet:  diag.Snippet(source, loc),
			Rule:     e.Rule,
		})
	}
	return out
}
