package puregate

import (
	"time"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/internal/observ"
	"github.com/gofrs/uuid"
)

// StageResult is the outcome of one pipeline stage.
type StageResult struct {
	Valid       bool              `json:"valid" msgpack:"valid"`
	Skipped     bool              `json:"skipped,omitempty" msgpack:"skipped,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" msgpack:"diagnostics"`

	// Program is the parsed tree. Only the syntax stage sets it, and only
	// on success.
	Program *ast.Program `json:"-" msgpack:"-"`
}

// Report is the aggregated outcome of a validation call. Stages that did
// not run are nil. A Report is never modified after it is returned.
type Report struct {
	ID       uuid.UUID         `json:"id" msgpack:"-"`
	Valid    bool              `json:"valid" msgpack:"valid"`
	Syntax   *StageResult      `json:"syntax" msgpack:"syntax"`
	Purity   *StageResult      `json:"purity" msgpack:"purity"`
	Style    *StageResult      `json:"style" msgpack:"style"`
	Errors   []diag.Diagnostic `json:"errors" msgpack:"errors"`
	Warnings []diag.Diagnostic `json:"warnings" msgpack:"warnings"`
	Elapsed  time.Duration     `json:"elapsed" msgpack:"-"`
	Timings  []observ.Timing   `json:"timings,omitempty" msgpack:"-"`
	Cached   bool              `json:"cached,omitempty" msgpack:"-"`
}

// Diagnostics returns every diagnostic in stage order.
func (r *Report) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, s := range []*StageResult{r.Syntax, r.Purity, r.Style} {
		if s != nil {
			out = append(out, s.Diagnostics...)
		}
	}
	return out
}

// aggregate fills Errors, Warnings and Valid from the stage results.
func (r *Report) aggregate() {
	r.Errors, r.Warnings = diag.Partition(r.Diagnostics())
	switch {
	case r.Syntax == nil || !r.Syntax.Valid:
		r.Valid = false
	case r.Purity == nil || !r.Purity.Valid:
		r.Valid = false
	default:
		r.Valid = r.Style == nil || r.Style.Skipped || r.Style.Valid
	}
}

// Input is one entry of a batch.
type Input struct {
	Source  string
	Options []CallOption
}
