// Command puregate validates generated JavaScript against the purity
// contract and reports syntax, purity and style diagnostics.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
)

// errInvalid signals that validation completed and found problems. It maps
// to exit status 1 without an extra message.
var errInvalid = errors.New("validation failed")

const defaultConfigFile = "~/.puregate.yaml"

type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}
	cmd := &cobra.Command{
		Use:           "puregate",
		Short:         "Validate generated JavaScript for syntax, purity and style",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return a.init(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", defaultConfigFile, "config file")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringP("output", "o", "text", "output format (text, json, lsp)")
	if err := a.v.BindPFlags(flags); err != nil {
		panic(err)
	}
	a.v.SetEnvPrefix("PUREGATE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		newCheckCmd(a),
		newSyntaxCmd(a),
		newBatchCmd(a),
		newASTCmd(a),
		newRulesCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// init reads the config file and configures color and logging. A missing
// default config file is not an error.
func (a *app) init(stderr io.Writer) error {
	path := a.v.GetString("config")
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return err
		}
		a.v.SetConfigFile(expanded)
		if err := a.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if !missing || path != defaultConfigFile {
				return fmt.Errorf("reading config %s: %w", expanded, err)
			}
		}
	}

	if a.v.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	var w io.Writer = stderr
	if f, ok := stderr.(*os.File); ok && isTerminal(f) {
		w = zerolog.ConsoleWriter{Out: stderr, NoColor: color.NoColor}
	}
	a.logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	a.logger.Debug().Str("config", a.v.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

func (a *app) useColor() bool {
	return !color.NoColor && !a.v.GetBool("no-color")
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
