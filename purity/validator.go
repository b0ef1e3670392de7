package purity

import (
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/internal/token"
	"github.com/deepnoodle-ai/puregate/syntax"
)

// AsValidator adapts the analyzer to syntax.Validator so it can be chained
// with other AST checks through syntax.RunValidators.
func AsValidator(source string, opts ...Option) syntax.Validator {
	return syntax.ValidatorFunc(func(program *ast.Program) []syntax.ValidationError {
		res := Analyze(program, source, opts...)
		errs := make([]syntax.ValidationError, 0, len(res.Violations))
		for _, v := range res.Violations {
			errs = append(errs, syntax.ValidationError{
				Message: v.Message,
				Rule:    v.Pattern,
				Position: token.Position{
					Line:   v.Location.Line - 1,
					Column: v.Location.Column,
					File:   v.Location.File,
				},
			})
		}
		return errs
	})
}
