package puregate

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/puregate/internal/cache"
	"github.com/deepnoodle-ai/puregate/parser"
	"github.com/deepnoodle-ai/puregate/purity"
	"github.com/deepnoodle-ai/puregate/style"
	"github.com/deepnoodle-ai/puregate/syntax"
	"github.com/rs/zerolog"
)

// CallOption configures a single validation call.
type CallOption func(*callOptions)

type callOptions struct {
	filename       string
	convention     parser.Convention
	skipStyle      bool
	styleRules     style.Config
	maxErrors      int
	allowedIdents  []string
	allowedMembers []string
}

func collectCallOptions(opts ...CallOption) *callOptions {
	o := &callOptions{
		convention: parser.ConventionInfer,
		maxErrors:  parser.DefaultMaxErrors,
		styleRules: style.Config{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *callOptions) syntaxOpts() []syntax.Option {
	opts := []syntax.Option{
		syntax.WithConvention(o.convention),
		syntax.WithMaxErrors(o.maxErrors),
	}
	if o.filename != "" {
		opts = append(opts, syntax.WithFilename(o.filename))
	}
	return opts
}

func (v *Validator) purityOpts(o *callOptions, log zerolog.Logger) []purity.Option {
	opts := []purity.Option{purity.WithLogger(log)}
	if v.rules != nil {
		opts = append(opts, purity.WithRules(v.rules))
	}
	if o.filename != "" {
		opts = append(opts, purity.WithFilename(o.filename))
	}
	if len(o.allowedIdents) > 0 {
		opts = append(opts, purity.WithAllowedIdentifiers(o.allowedIdents...))
	}
	if len(o.allowedMembers) > 0 {
		opts = append(opts, purity.WithAllowedMembers(o.allowedMembers...))
	}
	return opts
}

type defaulter interface {
	Defaults() style.Config
}

func (v *Validator) styleOpts(o *callOptions) []style.Option {
	var opts []style.Option
	if d, ok := v.linter.(defaulter); ok {
		opts = append(opts, style.WithDefaults(d.Defaults()))
	}
	if len(o.styleRules) > 0 {
		opts = append(opts, style.WithOverrides(o.styleRules))
	}
	if o.filename != "" {
		opts = append(opts, style.WithFilename(o.filename))
	}
	return opts
}

// cacheKey digests the source with every option that can change the
// report. Allow-lists and rules are sorted so option order does not matter.
func (o *callOptions) cacheKey(source string) string {
	rules := make([]string, 0, len(o.styleRules))
	for _, name := range slices.Sorted(maps.Keys(o.styleRules)) {
		rules = append(rules, name+"="+o.styleRules[name].String())
	}
	key, err := cache.Key(
		source,
		o.filename,
		o.convention.String(),
		strconv.FormatBool(o.skipStyle),
		strconv.Itoa(o.maxErrors),
		strings.Join(rules, ","),
		strings.Join(slices.Sorted(slices.Values(o.allowedIdents)), ","),
		strings.Join(slices.Sorted(slices.Values(o.allowedMembers)), ","),
	)
	if err != nil {
		return ""
	}
	return key
}

// WithFilename sets the file label used in diagnostics.
func WithFilename(name string) CallOption {
	return func(o *callOptions) { o.filename = name }
}

// WithConvention sets the module convention hint. The default infers it
// from the source.
func WithConvention(c parser.Convention) CallOption {
	return func(o *callOptions) { o.convention = c }
}

// SkipStyle disables the style stage for the call.
func SkipStyle() CallOption {
	return func(o *callOptions) { o.skipStyle = true }
}

// WithStyleRules overrides style rule levels. This option is additive; if
// the same rule is supplied more than once, the last level wins.
func WithStyleRules(rules style.Config) CallOption {
	return func(o *callOptions) { maps.Copy(o.styleRules, rules) }
}

// WithMaxErrors caps the number of syntax diagnostics. Values below one
// select the default of 10.
func WithMaxErrors(n int) CallOption {
	return func(o *callOptions) {
		if n < 1 {
			n = parser.DefaultMaxErrors
		}
		o.maxErrors = n
	}
}

// WithAllowedIdentifiers permits otherwise forbidden free identifiers.
// This option is additive.
func WithAllowedIdentifiers(names ...string) CallOption {
	return func(o *callOptions) { o.allowedIdents = append(o.allowedIdents, names...) }
}

// WithAllowedMembers permits otherwise forbidden dotted member paths,
// either exact or with a ".*" suffix. This option is additive.
func WithAllowedMembers(paths ...string) CallOption {
	return func(o *callOptions) { o.allowedMembers = append(o.allowedMembers, paths...) }
}
