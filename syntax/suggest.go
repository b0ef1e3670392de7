package syntax

import "strings"

// Suggestions for syntax errors are a best-effort heuristic layer. They are
// chosen by substring matching on the parser message and never influence
// whether a file passes.

type hint struct {
	match func(msg string) bool
	text  string
}

func contains(subs ...string) func(string) bool {
	return func(msg string) bool {
		for _, s := range subs {
			if !strings.Contains(msg, s) {
				return false
			}
		}
		return true
	}
}

var hints = []hint{
	{contains("may only appear in a module"), "Export through module.exports or exports, or validate the file as an ES module."},
	{contains("may only appear at the top level"), "Move import and export declarations to the top level of the file."},
	{contains("unterminated string"), "Add the missing closing quote to the string literal."},
	{contains("unterminated template"), "Close the template literal with a backtick (`)."},
	{contains("unterminated regular expression"), "Close the regular expression with '/' or escape the slash inside it."},
	{contains("unterminated comment"), "Close the block comment with '*/'."},
	{contains("duplicate", "export"), "Remove one of the two exports with the same name."},
	{contains("reserved word"), "Rename the identifier; reserved words cannot be used as names."},
	{contains("strict mode"), "Module code is strict; rename the binding or remove the construct."},
	{contains("}"), "Check that every '{' has a matching '}'."},
	{contains("end of input"), "The input ends inside an unfinished construct; close any open brace, bracket, parenthesis or string."},
	{contains("expected )"), "Check that every '(' has a matching ')'."},
	{contains("expected ]"), "Check that every '[' has a matching ']'."},
	{contains("missing initializer"), "Give the declaration an initial value."},
	{contains("invalid assignment target"), "Only variables, properties and destructuring patterns can be assigned to."},
	{contains("invalid left-hand side"), "Only variables and properties can be updated or assigned to."},
	{contains("return outside of function"), "Move the return statement into a function body."},
	{contains("nesting depth"), "Flatten the code by extracting nested parts into helper functions."},
	{contains("unexpected token"), "Check for a missing operator, comma or semicolon near this token."},
}

// Suggest returns a remediation hint for a parser message, or "" when no
// heuristic applies.
func Suggest(msg string) string {
	for _, h := range hints {
		if h.match(msg) {
			return h.text
		}
	}
	return ""
}
