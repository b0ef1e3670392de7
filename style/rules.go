package style

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/deepnoodle-ai/puregate/ast"
	"github.com/deepnoodle-ai/puregate/scope"
)

type rule struct {
	name        string
	description string
	level       Level
	check       func(fc *FileContext) []Finding
}

func (r *rule) Name() string                    { return r.name }
func (r *rule) Description() string             { return r.description }
func (r *rule) DefaultLevel() Level             { return r.level }
func (r *rule) Check(fc *FileContext) []Finding { return r.check(fc) }

// BuiltinRules returns the rules of the built-in engine.
func BuiltinRules() []Rule {
	return []Rule{
		&rule{"no-var", "require let or const instead of var", Error, checkNoVar},
		&rule{"eqeqeq", "require === and !==", Warn, checkEqeqeq},
		&rule{"max-len", "enforce a maximum line length", Warn, checkMaxLen},
		&rule{"no-trailing-spaces", "disallow trailing whitespace at the end of lines", Warn, checkTrailingSpaces},
		&rule{"no-tabs", "disallow tab characters", Warn, checkTabs},
		&rule{"no-empty", "disallow empty block statements", Warn, checkEmpty},
		&rule{"no-self-compare", "disallow comparisons where both sides are the same", Warn, checkSelfCompare},
		&rule{"no-unused-vars", "disallow unused variables", Warn, checkUnusedVars},
		&rule{"no-debugger", "disallow debugger statements", Error, checkDebugger},
	}
}

func checkNoVar(fc *FileContext) []Finding {
	var out []Finding
	for node := range preorder(fc) {
		if decl, ok := node.(*ast.VarDecl); ok && decl.Kind == "var" {
			out = append(out, findingAt(decl.Pos(), "Unexpected var, use let or const instead."))
		}
	}
	return out
}

func checkEqeqeq(fc *FileContext) []Finding {
	var out []Finding
	for node := range preorder(fc) {
		b, ok := node.(*ast.Binary)
		if !ok || (b.Op != "==" && b.Op != "!=") {
			continue
		}
		msg := fmt.Sprintf("Expected '%s=' and instead saw '%s'.", b.Op, b.Op)
		out = append(out, findingAt(b.OpPos, msg))
	}
	return out
}

func checkMaxLen(fc *FileContext) []Finding {
	limit := fc.MaxLen
	if limit <= 0 {
		limit = DefaultMaxLen
	}
	var out []Finding
	for i, line := range fc.Lines {
		if n := utf8.RuneCountInString(line); n > limit {
			out = append(out, Finding{
				Line:    i + 1,
				Column:  1,
				Message: fmt.Sprintf("This line has a length of %d. Maximum allowed is %d.", n, limit),
			})
		}
	}
	return out
}

func checkTrailingSpaces(fc *FileContext) []Finding {
	var out []Finding
	for i, line := range fc.Lines {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) < len(line) {
			out = append(out, Finding{
				Line:    i + 1,
				Column:  utf8.RuneCountInString(trimmed) + 1,
				Message: "Trailing spaces not allowed.",
			})
		}
	}
	return out
}

func checkTabs(fc *FileContext) []Finding {
	var out []Finding
	for i, line := range fc.Lines {
		col := 0
		for _, r := range line {
			col++
			if r == '\t' {
				out = append(out, Finding{Line: i + 1, Column: col, Message: "Unexpected tab character."})
			}
		}
	}
	return out
}

func checkEmpty(fc *FileContext) []Finding {
	var out []Finding
	allowed := map[*ast.Block]bool{}
	for node := range preorder(fc) {
		switch n := node.(type) {
		case *ast.FuncDecl:
			if n.Func.Body != nil {
				allowed[n.Func.Body] = true
			}
		case *ast.Func:
			if n.Body != nil {
				allowed[n.Body] = true
			}
		case *ast.ClassMember:
			if n.Body != nil {
				allowed[n.Body] = true
			}
		case *ast.Block:
			if len(n.Stmts) > 0 || allowed[n] || hasComment(fc.Source, n) {
				continue
			}
			out = append(out, findingAt(n.Pos(), "Empty block statement."))
		case *ast.Switch:
			if len(n.Cases) == 0 {
				out = append(out, findingAt(n.Pos(), "Empty switch statement."))
			}
		}
	}
	return out
}

// hasComment reports whether the text between a block's braces holds a
// comment, which marks the block as intentionally empty.
func hasComment(source string, b *ast.Block) bool {
	start, end := b.Lbrace.Char+1, b.Rbrace.Char
	if start < 0 || end > len(source) || start >= end {
		return false
	}
	inner := source[start:end]
	return strings.Contains(inner, "//") || strings.Contains(inner, "/*")
}

var comparisons = map[string]bool{
	"==": true, "===": true, "!=": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
}

func checkSelfCompare(fc *FileContext) []Finding {
	var out []Finding
	for node := range preorder(fc) {
		b, ok := node.(*ast.Binary)
		if !ok || !comparisons[b.Op] {
			continue
		}
		if b.X.String() == b.Y.String() {
			out = append(out, findingAt(b.X.Pos(), "Comparing to itself is potentially pointless."))
		}
	}
	return out
}

func checkUnusedVars(fc *FileContext) []Finding {
	if fc.Table == nil {
		return nil
	}
	var out []Finding
	for _, b := range fc.Table.Bindings() {
		if !reportUnused(fc.Table, b) {
			continue
		}
		if len(fc.Table.References(b.ID)) > 0 {
			continue
		}
		out = append(out, findingAt(b.Decl.Pos(), fmt.Sprintf("'%s' is defined but never used.", b.Name)))
	}
	return out
}

// reportUnused filters out bindings that are legitimately unreferenced:
// parameters, catch parameters, exports, names starting with '_' and the
// self-binding of named function and class expressions.
func reportUnused(t *scope.Table, b scope.Binding) bool {
	switch {
	case b.Kind == scope.Parameter, b.Kind == scope.Catch, b.Exported:
		return false
	case strings.HasPrefix(b.Name, "_"):
		return false
	}
	s := t.Scope(b.Scope)
	switch s.Kind {
	case scope.ClassScope:
		return false
	case scope.FunctionScope:
		if fn, ok := s.Node.(*ast.Func); ok && fn.Name == b.Decl {
			return false
		}
	}
	return true
}

func checkDebugger(fc *FileContext) []Finding {
	var out []Finding
	for node := range preorder(fc) {
		if d, ok := node.(*ast.Debugger); ok {
			out = append(out, findingAt(d.Pos(), "Unexpected 'debugger' statement."))
		}
	}
	return out
}

// preorder yields the program's nodes, or nothing when it did not parse.
func preorder(fc *FileContext) iter.Seq[ast.Node] {
	return func(yield func(ast.Node) bool) {
		if fc.Program == nil {
			return
		}
		for node := range ast.Preorder(fc.Program) {
			if !yield(node) {
				return
			}
		}
	}
}
