package main

import (
	"io"

	"github.com/deepnoodle-ai/puregate/purity"
	"github.com/deepnoodle-ai/puregate/style"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type ruleListing struct {
	Identifiers map[string]string `json:"identifiers"`
	Members     map[string]string `json:"members"`
	Constructs  map[string]string `json:"constructs"`
	Style       []styleRule       `json:"style"`
}

type styleRule struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the forbidden purity patterns and the style rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, fileRules, err := a.engine()
			if err != nil {
				return err
			}
			levels := style.Merge(engine.Defaults(), fileRules)
			listing := listRules(purity.DefaultRules(), engine, levels)
			if a.v.GetString("output") == "json" {
				return a.writeJSON(cmd.OutOrStdout(), listing)
			}
			writeRuleTables(cmd.OutOrStdout(), purity.DefaultRules(), listing)
			return nil
		},
	}
}

func listRules(r *purity.Rules, engine *style.Engine, levels style.Config) ruleListing {
	l := ruleListing{
		Identifiers: map[string]string{},
		Members:     map[string]string{},
		Constructs:  map[string]string{},
	}
	for _, name := range r.IdentifierNames() {
		l.Identifiers[name] = r.Identifiers[name].String()
	}
	for _, p := range r.MemberPatterns() {
		l.Members[p] = r.Members[p].String()
	}
	for _, k := range r.ConstructKinds() {
		l.Constructs[k] = r.Constructs[k]
	}
	for _, rule := range engine.Rules() {
		l.Style = append(l.Style, styleRule{
			Name:        rule.Name(),
			Level:       levels[rule.Name()].String(),
			Description: rule.Description(),
		})
	}
	return l
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func writeRuleTables(w io.Writer, r *purity.Rules, l ruleListing) {
	table := newTable(w, "Identifier", "Class", "Kind")
	for _, name := range r.IdentifierNames() {
		c := r.Identifiers[name]
		table.Append([]string{name, c.String(), string(c.Kind())})
	}
	table.Render()
	io.WriteString(w, "\n")

	table = newTable(w, "Member", "Class", "Kind")
	for _, p := range r.MemberPatterns() {
		c := r.Members[p]
		table.Append([]string{p, c.String(), string(c.Kind())})
	}
	table.Render()
	io.WriteString(w, "\n")

	table = newTable(w, "Construct", "Message")
	for _, k := range r.ConstructKinds() {
		table.Append([]string{k, l.Constructs[k]})
	}
	table.Render()
	io.WriteString(w, "\n")

	table = newTable(w, "Style rule", "Level", "Description")
	for _, s := range l.Style {
		table.Append([]string{s.Name, s.Level, s.Description})
	}
	table.Render()
}
