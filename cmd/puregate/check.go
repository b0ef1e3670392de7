package main

import (
	"github.com/deepnoodle-ai/puregate"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Run the full syntax, purity and style pipeline",
		Long: `Check validates source text in three stages. Syntax errors stop the
pipeline; otherwise purity and style diagnostics are reported together.
The exit status is 1 when the source is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a.v.GetString("output")); err != nil {
				return err
			}
			source, name, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			v, fileRules, err := a.validator()
			if err != nil {
				return err
			}
			opts, err := a.callOptions(fileRules, name)
			if err != nil {
				return err
			}
			report := v.Validate(cmd.Context(), source, opts...)
			if err := a.render(cmd.OutOrStdout(), []result{{Name: name, Source: source, Report: report}}, a.v.GetBool("timings")); err != nil {
				return err
			}
			if !report.Valid {
				return errInvalid
			}
			return nil
		},
	}
	addSourceFlags(cmd.Flags())
	addPipelineFlags(cmd.Flags())
	return cmd
}

func newSyntaxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syntax [file]",
		Short: "Run only the syntax stage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a.v.GetString("output")); err != nil {
				return err
			}
			source, name, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			v, _, err := a.validator()
			if err != nil {
				return err
			}
			opts, err := a.callOptions(nil, name)
			if err != nil {
				return err
			}
			stage := v.ValidateSyntax(cmd.Context(), source, opts...)
			report := &puregate.Report{Valid: stage.Valid, Syntax: stage, Errors: stage.Diagnostics}
			if err := a.render(cmd.OutOrStdout(), []result{{Name: name, Source: source, Report: report}}, false); err != nil {
				return err
			}
			if !stage.Valid {
				return errInvalid
			}
			return nil
		},
	}
	addSourceFlags(cmd.Flags())
	return cmd
}
