package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/deepnoodle-ai/puregate"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/observ"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
)

var outputFormats = []string{"text", "json", "lsp"}

// result pairs a report with the text it was produced from, which the
// text renderer needs for source excerpts.
type result struct {
	Name   string
	Source string
	Report *puregate.Report
}

func checkFormat(format string) error {
	for _, f := range outputFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format: %s (expected %s)", format, strings.Join(outputFormats, ", "))
}

func (a *app) render(w io.Writer, results []result, timings bool) error {
	format := strings.ToLower(a.v.GetString("output"))
	switch format {
	case "json":
		if len(results) == 1 {
			return a.writeJSON(w, results[0].Report)
		}
		reports := make([]*puregate.Report, len(results))
		for i, r := range results {
			reports[i] = r.Report
		}
		return a.writeJSON(w, reports)
	case "lsp":
		params := make([]protocol.PublishDiagnosticsParams, 0, len(results))
		for _, r := range results {
			p, err := publishParams(r.Name, r.Report.Diagnostics())
			if err != nil {
				return err
			}
			params = append(params, p)
		}
		return a.writeJSON(w, params)
	case "text", "":
		f := errors.NewFormatter(a.useColor())
		for _, r := range results {
			writeText(w, f, r, timings)
		}
		return nil
	}
	return checkFormat(format)
}

func (a *app) writeJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if a.useColor() {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeText(w io.Writer, f *errors.Formatter, r result, timings bool) {
	report := r.Report
	for _, d := range slices.Concat(report.Errors, report.Warnings) {
		fmt.Fprintln(w, f.Format(d.Formatted(r.Source)))
	}
	name := r.Name
	if name == "" {
		name = "<input>"
	}
	status := color.GreenString("valid")
	if !report.Valid {
		status = color.RedString("invalid")
	}
	fmt.Fprintf(w, "%s: %s (%d errors, %d warnings) in %s\n",
		name, status, len(report.Errors), len(report.Warnings), report.Elapsed)
	if timings && len(report.Timings) > 0 {
		fmt.Fprint(w, observ.Summary(report.Timings, report.Elapsed))
	}
}

// publishParams converts diagnostics to an LSP notification payload.
// Positions are 0-indexed in LSP, so lines shift down by one.
func publishParams(name string, diags []diag.Diagnostic) (protocol.PublishDiagnosticsParams, error) {
	out := protocol.PublishDiagnosticsParams{
		URI:         documentURI(name),
		Diagnostics: make([]protocol.Diagnostic, 0, len(diags)),
	}
	for _, d := range diags {
		start, err := lspPosition(d.Location.Line, d.Location.Column)
		if err != nil {
			return out, err
		}
		end := start
		if d.Location.EndLine > 0 {
			if end, err = lspPosition(d.Location.EndLine, d.Location.EndColumn); err != nil {
				return out, err
			}
		}
		severity := protocol.SeverityWarning
		if d.IsError() {
			severity = protocol.SeverityError
		}
		code := string(d.Code)
		if code == "" {
			code = d.Rule
		}
		message := d.Message
		if d.Suggestion != "" {
			message += "\n" + d.Suggestion
		}
		out.Diagnostics = append(out.Diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: severity,
			Code:     code,
			Source:   "puregate/" + string(d.Category),
			Message:  message,
		})
	}
	return out, nil
}

func lspPosition(line, column int) (protocol.Position, error) {
	l, err := safecast.Conv[uint32](line - 1)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("line %d: %w", line, err)
	}
	c, err := safecast.Conv[uint32](column)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("column %d: %w", column, err)
	}
	return protocol.Position{Line: l, Character: c}, nil
}

func documentURI(name string) protocol.DocumentURI {
	if name == "" {
		return protocol.DocumentURI("untitled:input.js")
	}
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	return protocol.DocumentURI("file://" + filepath.ToSlash(name))
}
