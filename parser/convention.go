package parser

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/deepnoodle-ai/puregate/internal/lexer"
	"github.com/deepnoodle-ai/puregate/internal/token"
)

// Convention selects how a file exposes its exports, which decides whether
// it is parsed as a script or as a module.
type Convention int

const (
	// ConventionInfer parses the file as a module when it contains an export
	// declaration or a static import, and as a script otherwise.
	ConventionInfer Convention = iota
	// ConventionPropertyExport is the CommonJS style where a script assigns
	// module.exports or properties of exports.
	ConventionPropertyExport
	// ConventionDeclarativeExport is the ES module style using import and
	// export declarations. Module code is always strict.
	ConventionDeclarativeExport
)

var conventionNames = map[string]Convention{
	"infer":       ConventionInfer,
	"auto":        ConventionInfer,
	"commonjs":    ConventionPropertyExport,
	"cjs":         ConventionPropertyExport,
	"script":      ConventionPropertyExport,
	"property":    ConventionPropertyExport,
	"esm":         ConventionDeclarativeExport,
	"module":      ConventionDeclarativeExport,
	"declarative": ConventionDeclarativeExport,
}

func (c Convention) String() string {
	switch c {
	case ConventionPropertyExport:
		return "commonjs"
	case ConventionDeclarativeExport:
		return "esm"
	default:
		return "infer"
	}
}

// ParseConvention converts a convention name such as "esm", "module",
// "commonjs" or "infer" into a Convention.
func ParseConvention(name string) (Convention, error) {
	if c, ok := conventionNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	names := make([]string, 0, len(conventionNames))
	for n := range conventionNames {
		names = append(names, n)
	}
	msg := fmt.Sprintf("unknown module convention %q", name)
	if hint := errors.DidYouMean(name, names); hint != "" {
		msg += " (" + hint + ")"
	}
	return ConventionInfer, fmt.Errorf("%s", msg)
}

// InferConvention reports the convention a source text appears to use. A
// file is treated as a module when it contains an "export" keyword used as a
// declaration, or an "import" that is neither a dynamic import() nor
// import.meta. Property names such as obj.export or { import: 1 } do not
// count.
func InferConvention(input string) Convention {
	l := lexer.New(input)
	var prev token.Token
	tok, _ := l.Next()
	for tok.Type != token.EOF {
		next, _ := l.Next()
		if prev.Type != token.PERIOD && prev.Type != token.QUESTION_DOT {
			switch tok.Type {
			case token.EXPORT:
				if next.Type != token.COLON && next.Type != token.LPAREN {
					return ConventionDeclarativeExport
				}
			case token.IMPORT:
				if next.Type != token.LPAREN && next.Type != token.PERIOD && next.Type != token.COLON {
					return ConventionDeclarativeExport
				}
			}
		}
		prev, tok = tok, next
	}
	return ConventionPropertyExport
}
