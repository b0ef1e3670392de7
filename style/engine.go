// Package style is the third validation stage. It runs a lint rule engine
// over the raw source text and adapts its messages into diagnostics. Style
// findings are independent of purity: they never rewrite the input and
// warnings never make a file invalid.
package style

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/internal/token"
	"github.com/deepnoodle-ai/puregate/parser"
	"github.com/deepnoodle-ai/puregate/scope"
	"github.com/rs/zerolog"
)

// DefaultMaxLen is the default line length limit of the max-len rule.
const DefaultMaxLen = 120

// Message is one finding reported by a Linter. Line and Column are
// 1-indexed.
type Message struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"` // 1 warning, 2 error
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Linter checks source text against a rule configuration. Implementations
// must not modify the source.
type Linter interface {
	Lint(ctx context.Context, source string, cfg Config, filename string) ([]Message, error)
}

// LinterFunc is an adapter to use a function as a Linter.
type LinterFunc func(ctx context.Context, source string, cfg Config, filename string) ([]Message, error)

// Lint implements the Linter interface.
func (f LinterFunc) Lint(ctx context.Context, source string, cfg Config, filename string) ([]Message, error) {
	return f(ctx, source, cfg, filename)
}

// FileContext is the input handed to each rule.
type FileContext struct {
	Source   string
	Filename string
	Lines    []string
	MaxLen   int

	// Program and Table are nil when the source does not parse. Rules that
	// need them report nothing in that case.
	Program *ast.Program
	Table   *scope.Table
}

// Finding is a rule match. Line and Column are 1-indexed.
type Finding struct {
	Line    int
	Column  int
	Message string
}

func findingAt(pos token.Position, msg string) Finding {
	return Finding{Line: pos.LineNumber(), Column: pos.ColumnNumber(), Message: msg}
}

// Rule is a single lint check.
type Rule interface {
	Name() string
	Description() string
	DefaultLevel() Level
	Check(fc *FileContext) []Finding
}

// Engine is the built-in Linter.
type Engine struct {
	rules  []Rule
	maxLen int
	logger zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRules replaces the engine's rule set.
func WithRules(rules ...Rule) EngineOption {
	return func(e *Engine) { e.rules = rules }
}

// WithMaxLen sets the max-len limit.
func WithMaxLen(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxLen = n
		}
	}
}

// WithEngineLogger sets the logger used for per-rule debug output.
func WithEngineLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an engine with the built-in rules.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{rules: BuiltinRules(), maxLen: DefaultMaxLen, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rules in registration order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// RuleNames returns the ids of the engine's rules.
func (e *Engine) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// Defaults returns the default level of every rule.
func (e *Engine) Defaults() Config {
	cfg := make(Config, len(e.rules))
	for _, r := range e.rules {
		cfg[r.Name()] = r.DefaultLevel()
	}
	return cfg
}

// Lint runs every enabled rule and returns the messages sorted by
// position. Unknown rule ids in cfg are an error.
func (e *Engine) Lint(ctx context.Context, source string, cfg Config, filename string) ([]Message, error) {
	if err := cfg.Validate(e.RuleNames()); err != nil {
		return nil, err
	}
	levels := Merge(e.Defaults(), cfg)
	fc := e.fileContext(ctx, source, filename)

	messages := []Message{}
	for _, r := range e.rules {
		level := levels[r.Name()]
		if level == Off {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		findings := r.Check(fc)
		e.logger.Debug().Str("rule", r.Name()).Int("findings", len(findings)).Msg("style rule checked")
		for _, f := range findings {
			messages = append(messages, Message{
				RuleID:   r.Name(),
				Severity: int(level),
				Message:  f.Message,
				Line:     f.Line,
				Column:   f.Column,
			})
		}
	}
	slices.SortStableFunc(messages, func(a, b Message) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
	})
	return messages, nil
}

func (e *Engine) fileContext(ctx context.Context, source, filename string) *FileContext {
	fc := &FileContext{
		Source:   source,
		Filename: filename,
		Lines:    strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n"),
		MaxLen:   e.maxLen,
	}
	opts := []parser.Option{parser.WithConvention(parser.InferConvention(source))}
	if filename != "" {
		opts = append(opts, parser.WithFilename(filename))
	}
	program, err := parser.Parse(ctx, source, opts...)
	if err != nil {
		e.logger.Debug().Err(err).Msg("style: source does not parse; syntax rules skipped")
		return fc
	}
	fc.Program = program
	if table, err := scope.Resolve(program); err == nil {
		fc.Table = table
	}
	return fc
}
