package purity

import (
	"fmt"

	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/errors"
)

// Kind classifies a purity violation.
type Kind string

const (
	Mutation           Kind = "mutation"
	SideEffect         Kind = "side_effect"
	GlobalAccess       Kind = "global_access"
	ForbiddenConstruct Kind = "forbidden_construct"
)

// FailurePattern is the pattern of the violation reported when the
// analyzer itself fails.
const FailurePattern = "analyzer-failure"

// Violation is one purity problem found in a program.
type Violation struct {
	Kind     Kind          `json:"kind" msgpack:"kind"`
	Pattern  string        `json:"pattern" msgpack:"pattern"` // identifier, dotted path or node kind
	Location diag.Location `json:"location" msgpack:"location"`
	Snippet  string        `json:"snippet,omitempty" msgpack:"snippet,omitempty"`
	Message  string        `json:"message" msgpack:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s [%s]: %s", v.Location, v.Kind, v.Pattern, v.Message)
}

// Code returns the diagnostic code for the violation.
func (v Violation) Code() errors.ErrorCode {
	if v.Pattern == FailurePattern {
		return errors.P2099
	}
	switch v.Kind {
	case Mutation:
		return errors.P2001
	case SideEffect:
		return errors.P2002
	case GlobalAccess:
		return errors.P2003
	default:
		return errors.P2004
	}
}

// Diagnostic converts the violation into a purity error diagnostic.
func (v Violation) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Category:   diag.Purity,
		Severity:   diag.Error,
		Message:    v.Message,
		Location:   v.Location,
		Snippet:    v.Snippet,
		Rule:       v.Pattern,
		Suggestion: Suggest(v),
		Code:       v.Code(),
	}
}

// Result is the purity verdict for a program.
type Result struct {
	Valid      bool        `json:"valid" msgpack:"valid"`
	Violations []Violation `json:"violations" msgpack:"violations"`
}

// Diagnostics converts every violation, preserving order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Diagnostic())
	}
	return out
}
