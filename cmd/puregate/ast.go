package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/puregate"
	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// astNode is one node of the JSON tree output.
type astNode struct {
	Type     string     `json:"type"`
	Line     int        `json:"line"`
	Column   int        `json:"column"`
	Text     string     `json:"text,omitempty"`
	Children []*astNode `json:"children,omitempty"`
}

func newASTCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of the source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if !stage.Valid {
				report := &puregate.Report{Syntax: stage, Errors: stage.Diagnostics}
				if err := a.render(cmd.OutOrStdout(), []result{{Name: name, Source: source, Report: report}}, false); err != nil {
					return err
				}
				return errInvalid
			}
			root := buildTree(stage.Program, source)
			if a.v.GetString("output") == "json" {
				return a.writeJSON(cmd.OutOrStdout(), root)
			}
			printTree(cmd.OutOrStdout(), root, 0)
			return nil
		},
	}
	addSourceFlags(cmd.Flags())
	return cmd
}

func buildTree(node ast.Node, source string) *astNode {
	pos := node.Pos()
	n := &astNode{Type: ast.Kind(node), Line: pos.LineNumber(), Column: pos.Column}
	children := ast.Children(node)
	if len(children) == 0 {
		n.Text = leafText(ast.Source(source, node))
	}
	for _, child := range children {
		n.Children = append(n.Children, buildTree(child, source))
	}
	return n
}

func leafText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}

func printTree(w io.Writer, n *astNode, depth int) {
	indent := strings.Repeat("  ", depth)
	loc := color.HiBlackString("%d:%d", n.Line, n.Column)
	if n.Text != "" {
		fmt.Fprintf(w, "%s%s %s %s\n", indent, color.CyanString(n.Type), loc, n.Text)
	} else {
		fmt.Fprintf(w, "%s%s %s\n", indent, color.CyanString(n.Type), loc)
	}
	for _, c := range n.Children {
		printTree(w, c, depth+1)
	}
}
