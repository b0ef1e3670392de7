package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/puregate"
	"github.com/deepnoodle-ai/puregate/parser"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Validate many files concurrently",
		Long: `Batch validates every file with the full pipeline on a pool of workers.
Reports are printed in argument order. With --cache, reports are reused
for files whose content and options have not changed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a.v.GetString("output")); err != nil {
				return err
			}
			var extra []puregate.Option
			if a.v.GetBool("cache") {
				c, err := puregate.NewFileCache(a.v.GetString("cache-dir"))
				if err != nil {
					return err
				}
				extra = append(extra, puregate.WithCache(c))
			}
			v, fileRules, err := a.validator(extra...)
			if err != nil {
				return err
			}

			inputs := make([]puregate.Input, len(args))
			results := make([]result, len(args))
			for i, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				opts, err := a.callOptions(fileRules, path)
				if err != nil {
					return err
				}
				inputs[i] = puregate.Input{Source: string(data), Options: opts}
				results[i] = result{Name: path, Source: string(data)}
			}

			reports, err := v.ValidateConcurrent(cmd.Context(), inputs, a.v.GetInt("jobs"))
			if err != nil {
				return err
			}
			invalid := 0
			for i, r := range reports {
				results[i].Report = r
				if !r.Valid {
					invalid++
				}
			}
			if err := a.render(cmd.OutOrStdout(), results, a.v.GetBool("timings")); err != nil {
				return err
			}
			a.logger.Info().
				Int("files", len(reports)).
				Int("invalid", invalid).
				Dur("validation_time", puregate.Elapsed(reports)).
				Msg("batch finished")
			if invalid > 0 {
				if a.v.GetString("output") == "text" {
					fmt.Fprintf(cmd.OutOrStdout(), "%d of %d files invalid\n", invalid, len(reports))
				}
				return errInvalid
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("convention", "infer", "module convention (infer, commonjs, esm)")
	flags.Int("max-errors", parser.DefaultMaxErrors, "maximum number of syntax errors to report per file")
	flags.IntP("jobs", "j", 0, "number of concurrent workers (0 uses GOMAXPROCS)")
	flags.Bool("cache", false, "reuse cached reports")
	flags.String("cache-dir", "", "cache directory (defaults to the user cache dir)")
	addPipelineFlags(flags)
	return cmd
}
