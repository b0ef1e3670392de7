package style

import (
	"context"

	"github.com/deepnoodle-ai/puregate/diag"
)

// FailureRule is the rule id of the diagnostic reported when the linter
// itself fails.
const FailureRule = "linter-failure"

// VirtualFilename is the name handed to the linter when the caller gives
// none.
const VirtualFilename = "input.js"

// Result is the outcome of the style stage. Valid is false only when a
// diagnostic has error severity.
type Result struct {
	Valid       bool
	Diagnostics []diag.Diagnostic
}

type options struct {
	defaults  Config
	overrides Config
	filename  string
}

// Option configures Check.
type Option func(*options)

// WithDefaults sets the baseline rule levels the overrides are merged into.
func WithDefaults(cfg Config) Option {
	return func(o *options) { o.defaults = cfg }
}

// WithOverrides sets caller rule levels that win over the defaults.
func WithOverrides(cfg Config) Option {
	return func(o *options) { o.overrides = cfg }
}

// WithFilename sets the file label used for the linter and in locations.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

var ruleHints = map[string]string{
	"no-var":             "Use const, or let when the binding is reassigned.",
	"eqeqeq":             "Use strict equality (=== or !==).",
	"max-len":            "Split the expression or extract a helper to shorten the line.",
	"no-trailing-spaces": "Remove the whitespace at the end of the line.",
	"no-tabs":            "Indent with spaces.",
	"no-empty":           "Remove the empty block or add the missing statements.",
	"no-self-compare":    "Compare against the intended value; Number.isNaN checks for NaN.",
	"no-unused-vars":     "Remove the unused binding or prefix its name with '_'.",
	"no-debugger":        "Remove the debugger statement.",
}

// Check runs linter over source and converts its messages into style
// diagnostics with 0-indexed columns. Linter errors become a single error
// diagnostic with rule FailureRule.
func Check(ctx context.Context, linter Linter, source string, opts ...Option) *Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	name := o.filename
	if name == "" {
		name = VirtualFilename
	}

	messages, err := linter.Lint(ctx, source, Merge(o.defaults, o.overrides), name)
	if err != nil {
		loc := diag.Location{Line: 1, File: o.filename}
		return &Result{Diagnostics: []diag.Diagnostic{{
			Category: diag.Style,
			Severity: diag.Error,
			Message:  "style linter failed: " + err.Error(),
			Location: loc,
			Snippet:  diag.Snippet(source, loc),
			Rule:     FailureRule,
		}}}
	}

	res := &Result{Valid: true, Diagnostics: make([]diag.Diagnostic, 0, len(messages))}
	for _, m := range messages {
		d := fromMessage(m, source, o.filename)
		if d.IsError() {
			res.Valid = false
		}
		res.Diagnostics = append(res.Diagnostics, d)
	}
	return res
}

func fromMessage(m Message, source, filename string) diag.Diagnostic {
	severity := diag.Warning
	if m.Severity >= int(Error) {
		severity = diag.Error
	}
	loc := diag.Location{Line: m.Line, Column: m.Column - 1, File: filename}.Normalize()
	return diag.Diagnostic{
		Category:   diag.Style,
		Severity:   severity,
		Message:    m.Message,
		Location:   loc,
		Snippet:    diag.Snippet(source, loc),
		Rule:       m.RuleID,
		Suggestion: ruleHints[m.RuleID],
	}
}
