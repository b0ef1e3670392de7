// Package puregate validates that generated JavaScript is syntactically
// valid, free of side effects and outer-state mutation, and conforms to a
// configurable style. Validation never rewrites the input; it returns a
// Report describing every problem found.
//
// A Validator runs three stages. The syntax stage always runs first. When
// it fails, the remaining stages are skipped. Otherwise the purity and
// style stages both run so that one round trip surfaces every problem.
//
//	v := puregate.New()
//	report := v.Validate(ctx, source, puregate.WithFilename("gen.js"))
//	if !report.Valid {
//		for _, d := range report.Errors {
//			fmt.Println(d)
//		}
//	}
package puregate

import (
	"context"
	"time"

	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/internal/observ"
	"github.com/deepnoodle-ai/puregate/purity"
	"github.com/deepnoodle-ai/puregate/style"
	"github.com/deepnoodle-ai/puregate/syntax"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// Stage names used in timings and logs.
const (
	StageSyntax = "syntax"
	StagePurity = "purity"
	StageStyle  = "style"
)

// Cache stores reports between calls. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string, dst any) (bool, error)
	Put(key string, v any) error
}

// Validator runs the validation pipeline. Its collaborators are fixed at
// construction and it holds no per-call state, so one Validator may serve
// concurrent calls.
type Validator struct {
	linter     style.Linter
	logger     zerolog.Logger
	cache      Cache
	validators []syntax.Validator
	rules      *purity.Rules
}

// Option configures a Validator.
type Option func(*Validator)

// WithLinter sets the style collaborator. The default is the built-in
// style.Engine.
func WithLinter(l style.Linter) Option {
	return func(v *Validator) { v.linter = l }
}

// WithLogger sets the logger used by the Validator and its stages.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithCache enables report caching. Reports are keyed by the source text
// and the call options.
func WithCache(c Cache) Option {
	return func(v *Validator) { v.cache = c }
}

// WithValidators adds program validators whose findings are reported as
// purity errors. This option is additive.
func WithValidators(validators ...syntax.Validator) Option {
	return func(v *Validator) { v.validators = append(v.validators, validators...) }
}

// WithPurityRules replaces the baseline purity rule set.
func WithPurityRules(r *purity.Rules) Option {
	return func(v *Validator) { v.rules = r }
}

// New returns a Validator configured by opts.
func New(opts ...Option) *Validator {
	v := &Validator{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	if v.linter == nil {
		v.linter = style.NewEngine(style.WithEngineLogger(v.logger))
	}
	return v
}

// Validate runs the full pipeline over source. It never modifies source
// and never returns nil. A call always completes: cancellation of ctx is
// not observed, only its values are passed on to the linter.
func (v *Validator) Validate(ctx context.Context, source string, opts ...CallOption) *Report {
	ctx = context.WithoutCancel(ctx)
	o := collectCallOptions(opts...)
	timer := observ.NewTimer()
	id := uuid.Must(uuid.NewV4())
	log := v.logger.With().Str("report", id.String()).Str("file", o.filename).Logger()

	key := ""
	if v.cache != nil {
		key = o.cacheKey(source)
		if report, ok := v.lookup(key, log); ok {
			report.ID = id
			report.Cached = true
			report.Elapsed = timer.Elapsed()
			log.Debug().Bool("valid", report.Valid).Msg("report served from cache")
			return report
		}
	}

	report := &Report{ID: id}
	v.run(ctx, report, source, o, timer, log)
	report.aggregate()
	report.Timings = timer.Timings()
	report.Elapsed = timer.Elapsed()

	log.Debug().
		Bool("valid", report.Valid).
		Int("errors", len(report.Errors)).
		Int("warnings", len(report.Warnings)).
		Dur("elapsed", report.Elapsed).
		Msg("validation finished")

	if key != "" {
		if err := v.cache.Put(key, report); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return report
}

func (v *Validator) run(ctx context.Context, report *Report, source string, o *callOptions, timer *observ.Timer, log zerolog.Logger) {
	idx := timer.Begin(StageSyntax)
	syn := syntax.Check(ctx, source, o.syntaxOpts()...)
	timer.End(idx)
	report.Syntax = &StageResult{Valid: syn.Valid, Diagnostics: syn.Diagnostics, Program: syn.Program}
	if !syn.Valid {
		log.Debug().Int("errors", len(syn.Diagnostics)).Msg("syntax check failed; skipping purity and style")
		return
	}

	idx = timer.Begin(StagePurity)
	report.Purity = v.purity(syn, source, o, log)
	timer.End(idx)

	if o.skipStyle {
		report.Style = &StageResult{Valid: true, Skipped: true, Diagnostics: []diag.Diagnostic{}}
		return
	}
	idx = timer.Begin(StageStyle)
	res := style.Check(ctx, v.linter, source, v.styleOpts(o)...)
	timer.End(idx)
	report.Style = &StageResult{Valid: res.Valid, Diagnostics: res.Diagnostics}
}

func (v *Validator) purity(syn *syntax.Result, source string, o *callOptions, log zerolog.Logger) *StageResult {
	res := purity.Analyze(syn.Program, source, v.purityOpts(o, log)...)
	diags := res.Diagnostics()
	valid := res.Valid
	if extra := syntax.RunValidators(syn.Program, v.validators...); len(extra) > 0 {
		diags = append(diags, syntax.ToDiagnostics(extra, diag.Purity, source)...)
		valid = false
	}
	return &StageResult{Valid: valid, Diagnostics: diags}
}

func (v *Validator) lookup(key string, log zerolog.Logger) (*Report, bool) {
	var cached Report
	ok, err := v.cache.Get(key, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("cache read failed")
		return nil, false
	}
	return &cached, ok
}

// ValidateSyntax runs only the syntax stage. On success the result holds
// the parsed program.
func (v *Validator) ValidateSyntax(ctx context.Context, source string, opts ...CallOption) *StageResult {
	o := collectCallOptions(opts...)
	syn := syntax.Check(ctx, source, o.syntaxOpts()...)
	return &StageResult{Valid: syn.Valid, Diagnostics: syn.Diagnostics, Program: syn.Program}
}

// IsValid reports whether source passes the full pipeline.
func (v *Validator) IsValid(ctx context.Context, source string, opts ...CallOption) bool {
	return v.Validate(ctx, source, opts...).Valid
}

// Elapsed is a convenience for callers that log the total time of a batch.
func Elapsed(reports []*Report) time.Duration {
	var total time.Duration
	for _, r := range reports {
		if r != nil {
			total += r.Elapsed
		}
	}
	return total
}
