// Package syntax is the first validation stage. It parses source text with
// error recovery and turns parse errors into diagnostics.
package syntax

import (
	"context"
	stderrors "errors"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/parser"
)

// Result is the outcome of the syntax stage. Program is set only when the
// source parsed without errors.
type Result struct {
	Valid       bool
	Diagnostics []diag.Diagnostic
	Program     *ast.Program
	Convention  parser.Convention // convention the source was parsed under
}

type config struct {
	convention parser.Convention
	maxErrors  int
	maxDepth   int
	filename   string
}

// Option configures Check.
type Option func(*config)

// WithConvention sets the module convention hint. The default infers it
// from the source.
func WithConvention(c parser.Convention) Option {
	return func(cfg *config) { cfg.convention = c }
}

// WithMaxErrors caps the number of reported diagnostics. Values below one
// select parser.DefaultMaxErrors.
func WithMaxErrors(n int) Option {
	return func(cfg *config) { cfg.maxErrors = n }
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
func WithMaxDepth(n int) Option {
	return func(cfg *config) { cfg.maxDepth = n }
}

// WithFilename sets the file label used in diagnostic locations.
func WithFilename(name string) Option {
	return func(cfg *config) { cfg.filename = name }
}

// Check parses source and reports whether it is syntactically valid. It
// never modifies source and never returns a nil Result. Check always runs
// to completion: cancellation of ctx is ignored, so a verdict of invalid
// always means the source does not parse.
func Check(ctx context.Context, source string, opts ...Option) *Result {
	cfg := config{convention: parser.ConventionInfer, maxErrors: parser.DefaultMaxErrors}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxErrors < 1 {
		cfg.maxErrors = parser.DefaultMaxErrors
	}
	convention := cfg.convention
	if convention == parser.ConventionInfer {
		convention = parser.InferConvention(source)
	}

	popts := []parser.Option{
		parser.WithConvention(convention),
		parser.WithMaxErrors(cfg.maxErrors),
	}
	if cfg.filename != "" {
		popts = append(popts, parser.WithFilename(cfg.filename))
	}
	if cfg.maxDepth > 0 {
		popts = append(popts, parser.WithMaxDepth(cfg.maxDepth))
	}

	program, err := parser.Parse(context.WithoutCancel(ctx), source, popts...)
	if err == nil {
		return &Result{Valid: true, Diagnostics: []diag.Diagnostic{}, Program: program, Convention: convention}
	}

	var diags []diag.Diagnostic
	var perrs *parser.Errors
	if stderrors.As(err, &perrs) {
		for _, pe := range perrs.Errors() {
			diags = append(diags, fromParserError(pe, source, cfg.filename))
		}
	} else {
		loc := diag.Location{Line: 1, File: cfg.filename}
		diags = append(diags, diag.Diagnostic{
			Category: diag.Syntax,
			Severity: diag.Error,
			Message:  err.Error(),
			Location: loc,
			Snippet:  diag.Snippet(source, loc),
			Code:     errors.E1003,
		})
	}
	if len(diags) > cfg.maxErrors {
		diags = diags[:cfg.maxErrors]
	}
	return &Result{Valid: false, Diagnostics: diags, Convention: convention}
}

func fromParserError(pe *parser.Error, source, filename string) diag.Diagnostic {
	loc := diag.RangeOf(pe.StartPosition(), pe.EndPosition())
	if loc.File == "" {
		loc.File = filename
	}
	loc = loc.Normalize()
	msg := pe.Message()
	return diag.Diagnostic{
		Category:   diag.Syntax,
		Severity:   diag.Error,
		Message:    msg,
		Location:   loc,
		Snippet:    diag.Snippet(source, loc),
		Suggestion: Suggest(msg),
		Code:       pe.Code(),
	}
}
