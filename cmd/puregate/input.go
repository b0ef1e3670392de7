package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/puregate"
	"github.com/deepnoodle-ai/puregate/parser"
	"github.com/deepnoodle-ai/puregate/style"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addSourceFlags registers the flags that select where source text comes
// from.
func addSourceFlags(flags *pflag.FlagSet) {
	flags.StringP("code", "c", "", "source text to validate")
	flags.Bool("stdin", false, "read source text from stdin")
	flags.String("convention", "infer", "module convention (infer, commonjs, esm)")
	flags.Int("max-errors", parser.DefaultMaxErrors, "maximum number of syntax errors to report")
}

// addPipelineFlags registers the flags that tune the purity and style
// stages.
func addPipelineFlags(flags *pflag.FlagSet) {
	flags.Bool("skip-style", false, "skip the style stage")
	flags.StringSlice("allow-ident", nil, "additional permitted free identifiers")
	flags.StringSlice("allow-member", nil, "additional permitted member paths (a.b or a.b.*)")
	flags.StringArray("rule", nil, "style rule override as name=level (repeatable)")
	flags.String("style-config", "", "TOML file with style rule levels and max_len")
	flags.Bool("timings", false, "show per-stage timings")
}

// readSource determines the text to validate. There are three sources:
// --code, --stdin, or a file path as the first argument. The returned name
// is the file label for diagnostics.
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet := cmd.Flags().Changed("stdin")
	pathSupplied := len(args) > 0
	switch {
	case pathSupplied && (codeSet || stdinSet), codeSet && stdinSet:
		return "", "", errors.New("multiple input sources specified")
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeSet:
		code, err := cmd.Flags().GetString("code")
		return code, "", err
	}
	return "", "", errors.New("no input: pass a file, --code or --stdin")
}

// engine builds the style engine, applying max_len from the style config
// file when one is set.
func (a *app) engine() (*style.Engine, style.Config, error) {
	opts := []style.EngineOption{style.WithEngineLogger(a.logger)}
	var rules style.Config
	if path := a.v.GetString("style-config"); path != "" {
		settings, err := style.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if settings.MaxLen > 0 {
			opts = append(opts, style.WithMaxLen(settings.MaxLen))
		}
		rules = settings.Rules
	}
	return style.NewEngine(opts...), rules, nil
}

// validator builds a Validator from the configured collaborators and
// returns the style levels that came from files.
func (a *app) validator(extra ...puregate.Option) (*puregate.Validator, style.Config, error) {
	engine, fileRules, err := a.engine()
	if err != nil {
		return nil, nil, err
	}
	opts := append([]puregate.Option{
		puregate.WithLogger(a.logger),
		puregate.WithLinter(engine),
	}, extra...)
	return puregate.New(opts...), fileRules, nil
}

// callOptions collects per-call options. Style levels are layered: style
// config file, then the "rules" map of the main config, then --rule flags.
func (a *app) callOptions(fileRules style.Config, filename string) ([]puregate.CallOption, error) {
	convention, err := parser.ParseConvention(a.v.GetString("convention"))
	if err != nil {
		return nil, err
	}
	opts := []puregate.CallOption{
		puregate.WithConvention(convention),
		puregate.WithMaxErrors(a.v.GetInt("max-errors")),
	}
	if filename != "" {
		opts = append(opts, puregate.WithFilename(filename))
	}
	if a.v.GetBool("skip-style") {
		opts = append(opts, puregate.SkipStyle())
	}
	if ids := a.v.GetStringSlice("allow-ident"); len(ids) > 0 {
		opts = append(opts, puregate.WithAllowedIdentifiers(ids...))
	}
	if members := a.v.GetStringSlice("allow-member"); len(members) > 0 {
		opts = append(opts, puregate.WithAllowedMembers(members...))
	}

	rules := style.Config{}
	for name, level := range fileRules {
		rules[name] = level
	}
	for name, text := range a.v.GetStringMapString("rules") {
		level, err := style.ParseLevel(text)
		if err != nil {
			return nil, fmt.Errorf("config rules.%s: %w", name, err)
		}
		rules[name] = level
	}
	for _, flag := range a.v.GetStringSlice("rule") {
		name, level, err := style.ParseRuleFlag(flag)
		if err != nil {
			return nil, err
		}
		rules[name] = level
	}
	if len(rules) > 0 {
		opts = append(opts, puregate.WithStyleRules(rules))
	}
	return opts, nil
}
